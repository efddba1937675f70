package stats_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"review-scraper/internal/model"
	"review-scraper/internal/stats"
)

func TestAverageRating(t *testing.T) {
	cases := []struct {
		name  string
		stars []string
		want  float64
	}{
		{"ratios", []string{"5/5", "3/5"}, 4.0},
		{"locale decimal", []string{"4,5"}, 4.5},
		{"decimal numerator", []string{"4,5/5", "3,5/5"}, 4.0},
		{"unparseable excluded", []string{"5/5", "brak", ""}, 5.0},
		{"empty", nil, 0},
		{"nothing parseable", []string{"n/a"}, 0},
		{"non-finite and exotic numbers excluded", []string{"5/5", "NaN", "Inf/5", "+Inf", "1e3", "0x1p2", "-3"}, 5.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rs []model.Review
			for _, s := range tc.stars {
				rs = append(rs, model.Review{Stars: s})
			}
			require.InDelta(t, tc.want, stats.AverageRating(rs), 1e-9)
		})
	}
}

func TestRecommendations(t *testing.T) {
	pos, neg := stats.Recommendations([]model.Review{
		{Recommendation: "Polecam produkt"},
		{Recommendation: model.NoRecommendation},
	})
	require.Equal(t, 1, pos)
	require.Equal(t, 1, neg)

	pos, neg = stats.Recommendations([]model.Review{{Recommendation: "Nie polecam"}})
	require.Equal(t, 0, pos)
	require.Equal(t, 1, neg)

	pos, neg = stats.Recommendations(nil)
	require.Zero(t, pos)
	require.Zero(t, neg)
}

func TestVotes(t *testing.T) {
	h, u := stats.Votes([]model.Review{
		{HelpfulCount: "4", UnhelpfulCount: "0"},
		{HelpfulCount: "2", UnhelpfulCount: "3"},
		{HelpfulCount: "x", UnhelpfulCount: "1"},
	})
	require.InDelta(t, 3.0, h, 1e-9)
	require.InDelta(t, 4.0/3.0, u, 1e-9)

	h, u = stats.Votes(nil)
	require.Zero(t, h)
	require.Zero(t, u)
}

func TestTopPros_FirstSeenTieBreak(t *testing.T) {
	got := stats.TopPros([]model.Review{
		{Pros: []string{"fast"}},
		{Pros: []string{"fast", "cheap"}},
		{Pros: []string{"cheap"}},
	})
	want := []model.Count{{Value: "fast", N: 2}, {Value: "cheap", N: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("top pros (-want +got):\n%s", diff)
	}
}

func TestTop_LimitAndOrder(t *testing.T) {
	got := stats.Top([]string{"a", "b", "c", "d", "e", "f", "g", "g", "f", "g"}, 5)
	want := []model.Count{
		{Value: "g", N: 3}, {Value: "f", N: 2},
		{Value: "a", N: 1}, {Value: "b", N: 1}, {Value: "c", N: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("top (-want +got):\n%s", diff)
	}
	require.Empty(t, stats.TopCons(nil))
}

func TestSummarize(t *testing.T) {
	rs := []model.Review{
		{Stars: "5/5", Recommendation: "Polecam", HelpfulCount: "2", UnhelpfulCount: "0", Cons: []string{"cena"}},
		{Stars: "2/5", Recommendation: "Nie polecam", HelpfulCount: "0", UnhelpfulCount: "2", Cons: []string{"cena"}},
	}
	s := stats.Summarize("123", rs)
	require.Equal(t, "123", s.ProductCode)
	require.Equal(t, 2, s.Reviews)
	require.InDelta(t, 3.5, s.AverageRating, 1e-9)
	require.Equal(t, 1, s.Positive)
	require.Equal(t, 1, s.Negative)
	require.InDelta(t, 1.0, s.AvgHelpful, 1e-9)
	require.Equal(t, []model.Count{{Value: "cena", N: 2}}, s.TopCons)
	require.Empty(t, s.TopPros)

	p := model.Product{Code: "123"}
	for _, r := range rs {
		p.AddReview(r)
	}
	require.InDelta(t, s.AverageRating, p.AverageRating(), 1e-9)
}

func TestSummarize_NonNumericStarsStayEncodable(t *testing.T) {
	rs := []model.Review{{Stars: "5/5"}, {Stars: "NaN"}, {Stars: "Inf/5"}}
	s := stats.Summarize("1", rs)
	require.InDelta(t, 5.0, s.AverageRating, 1e-9)
	p := model.Product{Reviews: rs}
	require.InDelta(t, 5.0, p.AverageRating(), 1e-9)
	_, err := json.Marshal(s)
	require.NoError(t, err)
}
