// Package config provides configuration management for universally-acclaimed.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to collect.Config, cache.Config and chart.Options for
//     other packages
//
// # Default Settings
//
// Use DefaultSettings() to get the values the tool was designed around:
//
//	settings := config.DefaultSettings()
//	// Users threshold 8.1, critics threshold 81
//	// One second pause before every fetch
//	// CSV cache in scores.csv and genres.csv
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/acclaimed.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Configuration Options
//
// Settings includes options for:
//   - Listing base URL, user agent and the fixed request pause
//   - Acclaim thresholds for users and critics
//   - Cache backend (csv or sqlite) and checkpoint interval
//   - Chart layout and output location
//   - Logging
package config
