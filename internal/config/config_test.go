package config_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"review-scraper/internal/config"
)

func TestConfig_DefaultsAndValidate(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(f, []byte("BASE_URL: http://example.test\nMAX_PAGES: 3\n"), 0o644))

	c, err := config.Load(f)
	require.NoError(t, err)
	require.Equal(t, "http://example.test/", c.BaseURL)
	require.Equal(t, "Mozilla/5.0", c.UserAgent)
	require.Equal(t, 3, c.MaxPages)
	require.Equal(t, []string{"json"}, c.Formats)
	require.Equal(t, "ceneo", c.Theme)
	require.NotEmpty(t, c.Database.DSN)
	require.NotEmpty(t, c.LogFormat)

	require.NoError(t, os.WriteFile(f, []byte("MAX_PAGES: -1\n"), 0o644))
	_, err = config.Load(f)
	require.Error(t, err, "negative MAX_PAGES must be rejected")

	require.NoError(t, os.WriteFile(f, []byte("FORMATS: [xml]\n"), 0o644))
	_, err = config.Load(f)
	require.Error(t, err, "unknown format must be rejected")
}

func TestConfig_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.True(t, errors.Is(err, fs.ErrNotExist))

	c := config.Default()
	require.Equal(t, "https://www.ceneo.pl/", c.BaseURL)
	require.Equal(t, ":8080", c.Server.Addr)
}

func TestNormalizeFormats(t *testing.T) {
	got, err := config.NormalizeFormats([]string{"CSV", " json", "csv"})
	require.NoError(t, err)
	require.Equal(t, []string{"csv", "json"}, got)

	got, err = config.NormalizeFormats([]string{"none"})
	require.NoError(t, err)
	require.Empty(t, got)
}
