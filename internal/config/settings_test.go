package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().BaseURL, settings.BaseURL)
	assert.Equal(t, 100, settings.FlushInterval)
	assert.Equal(t, 28, settings.MaxGenreCharts)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acclaimed.yaml")
	content := "refresh: true\ncache_backend: sqlite\nrequest_interval: 0.5\nuser_threshold: 8.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.True(t, settings.Refresh)
	assert.Equal(t, "sqlite", settings.CacheBackend)
	assert.Equal(t, 500*time.Millisecond, settings.Interval())
	assert.Equal(t, 8.5, settings.UserThreshold)
	assert.Equal(t, 81.0, settings.CriticThreshold, "unset fields keep defaults")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, name := range []string{"settings.json", "settings.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			want := DefaultSettings()
			want.OutputDir = "/tmp/charts"
			want.FlushInterval = 25
			require.NoError(t, want.Save(path))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSettings_Conversions(t *testing.T) {
	s := DefaultSettings()
	s.MaxGenreCharts = 10
	s.FlushInterval = 7

	cc := s.ToCollectConfig()
	assert.Equal(t, s.BaseURL, cc.BaseURL)
	assert.Equal(t, 7, cc.FlushInterval)
	assert.Equal(t, 8.1, cc.UserThreshold)

	co := s.ToChartOptions()
	assert.Equal(t, 10, co.MaxGenreCharts)
	assert.Equal(t, 4, co.YearTickStep)

	cache := s.ToCacheConfig()
	assert.Equal(t, "csv", cache.Backend)
	assert.Equal(t, "scores.csv", cache.ScoresPath)
	assert.Equal(t, "genres.csv", cache.GenresPath)
}
