// Package config provides configuration management for the phylotree CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Encoding      string        `koanf:"encoding"`
	StatePath     string        `koanf:"state_path"`
	OutputFormat  string        `koanf:"output"`
	Verbose       bool          `koanf:"verbose"`
	LogFormat     string        `koanf:"log_format"`
	Workers       int           `koanf:"workers"`
	WatchDebounce time.Duration `koanf:"watch_debounce"`
	Strict        bool          `koanf:"strict"`
	Inputs        []string      `koanf:"inputs"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultEncoding      = "windows-1252"
	DefaultStateFile     = ".phylotree/state.db"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogFormat     = "text"
	DefaultWorkers       = 4
	DefaultWatchDebounce = 200 * time.Millisecond
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Encoding:      DefaultEncoding,
		StatePath:     DefaultStateFile,
		OutputFormat:  DefaultOutput,
		LogFormat:     DefaultLogFormat,
		Workers:       DefaultWorkers,
		WatchDebounce: DefaultWatchDebounce,
	}
}
