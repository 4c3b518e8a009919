package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handiism/universally-acclaimed/internal/aggregate"
	"github.com/handiism/universally-acclaimed/internal/cache"
	"github.com/handiism/universally-acclaimed/internal/chart"
	"github.com/handiism/universally-acclaimed/internal/collect"
)

// Settings holds all configuration options.
type Settings struct {
	// Scraping
	BaseURL         string  `json:"base_url" yaml:"base_url"`
	UserAgent       string  `json:"user_agent" yaml:"user_agent"`
	RequestInterval float64 `json:"request_interval" yaml:"request_interval"` // seconds
	RequestTimeout  float64 `json:"request_timeout" yaml:"request_timeout"`   // seconds
	UserThreshold   float64 `json:"user_threshold" yaml:"user_threshold"`
	CriticThreshold float64 `json:"critic_threshold" yaml:"critic_threshold"`
	Refresh         bool    `json:"refresh" yaml:"refresh"`

	// Cache
	CacheBackend  string `json:"cache_backend" yaml:"cache_backend"` // csv, sqlite
	ScoresPath    string `json:"scores_path" yaml:"scores_path"`
	GenresPath    string `json:"genres_path" yaml:"genres_path"`
	SQLitePath    string `json:"sqlite_path" yaml:"sqlite_path"`
	FlushInterval int    `json:"flush_interval" yaml:"flush_interval"`

	// Charts
	FirstYear      int    `json:"first_year" yaml:"first_year"`
	MaxGenreCharts int    `json:"max_genre_charts" yaml:"max_genre_charts"`
	YearTickStep   int    `json:"year_tick_step" yaml:"year_tick_step"`
	OutputDir      string `json:"output_dir" yaml:"output_dir"`
	OutputMaxWidth int    `json:"output_max_width" yaml:"output_max_width"`
	RenderWorkers  int    `json:"render_workers" yaml:"render_workers"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"` // pretty, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:         "https://www.metacritic.com",
		UserAgent:       "Mozilla/5.0 (Windows; U; Windows NT 5.1; en-US; rv:1.9.0.7) Gecko/2009021910 Firefox/3.0.7",
		RequestInterval: 1.0,
		RequestTimeout:  60,
		UserThreshold:   8.1,
		CriticThreshold: 81,
		Refresh:         false,

		CacheBackend:  "csv",
		ScoresPath:    "scores.csv",
		GenresPath:    "genres.csv",
		SQLitePath:    "acclaimed.db",
		FlushInterval: 100,

		FirstYear:      aggregate.DefaultFirstYear,
		MaxGenreCharts: 28,
		YearTickStep:   4,
		OutputDir:      ".",
		OutputMaxWidth: 0,
		RenderWorkers:  runtime.NumCPU(),

		LogLevel: "info",
	}
}

// Load reads settings from a JSON or YAML file.
//
// Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ToCollectConfig converts settings to collect.Config.
func (s *Settings) ToCollectConfig() *collect.Config {
	return &collect.Config{
		BaseURL:         s.BaseURL,
		UserThreshold:   s.UserThreshold,
		CriticThreshold: s.CriticThreshold,
		FlushInterval:   s.FlushInterval,
	}
}

// ToCacheConfig converts settings to cache.Config.
func (s *Settings) ToCacheConfig() cache.Config {
	return cache.Config{
		Backend:    s.CacheBackend,
		ScoresPath: s.ScoresPath,
		GenresPath: s.GenresPath,
		SQLitePath: s.SQLitePath,
	}
}

// ToChartOptions converts settings to chart.Options.
func (s *Settings) ToChartOptions() *chart.Options {
	opts := chart.DefaultOptions()
	opts.MaxGenreCharts = s.MaxGenreCharts
	opts.YearTickStep = s.YearTickStep
	opts.MaxWidth = s.OutputMaxWidth
	opts.Workers = s.RenderWorkers
	return opts
}

// Interval returns the fixed pause between fetches.
func (s *Settings) Interval() time.Duration {
	return time.Duration(s.RequestInterval * float64(time.Second))
}

// Timeout returns the per-request timeout.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout * float64(time.Second))
}
