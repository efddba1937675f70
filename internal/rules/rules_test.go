package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"review-scraper/internal/rules"
)

func TestRules_GetPreset(t *testing.T) {
	r := &rules.Rules{Presets: map[string]rules.Preset{
		"Ceneo": {ReviewPage: &rules.ReviewPage{Item: ".i"}},
		"other": {ReviewPage: &rules.ReviewPage{Item: ".o"}},
	}}
	p, ok := r.GetPreset("CENEO")
	require.True(t, ok)
	require.Equal(t, ".i", p.ReviewPage.Item)

	p, ok = r.GetPreset("other")
	require.True(t, ok)
	require.Equal(t, ".o", p.ReviewPage.Item)

	var nilRules *rules.Rules
	_, ok = nilRules.GetPreset("ceneo")
	require.False(t, ok)
}

func TestRules_CeneoCoversEveryField(t *testing.T) {
	rp := rules.Ceneo()
	for _, name := range rules.FieldNames {
		_, ok := rp.Fields[name]
		require.Truef(t, ok, "missing rule for %s", name)
	}
	require.True(t, rp.Fields[rules.FieldID].Required)
	require.Equal(t, "No date", rp.Fields[rules.FieldPurchaseDate].Default)
}

func TestRules_LoadAndResolveOverlay(t *testing.T) {
	f := filepath.Join(t.TempDir(), "rules.yaml")
	yml := `
shop:
  review_page:
    item: article.review
    fields:
      stars:
        select: span.rating
`
	require.NoError(t, os.WriteFile(f, []byte(yml), 0o644))
	r, err := rules.Load(f)
	require.NoError(t, err)

	rp := r.Resolve("shop")
	require.Equal(t, "article.review", rp.Item)
	require.Equal(t, "span.rating", rp.Fields[rules.FieldStars].Select)
	// 未覆盖的选择器沿用内置规则
	require.Equal(t, rules.Ceneo().Pagination, rp.Pagination)
	require.Equal(t, rules.Ceneo().Fields[rules.FieldAuthor], rp.Fields[rules.FieldAuthor])

	var nilRules *rules.Rules
	require.Equal(t, rules.Ceneo().Item, nilRules.Resolve("anything").Item)
}
