package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultPromptName = "termsh"
	DefaultMaxEntries = 1000
	DefaultCPUSample  = 500 * time.Millisecond
	DefaultOutput     = "table"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"

	dirName = ".termsh"
)

// DefaultDir returns the per-user termsh directory.
func DefaultDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, dirName)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultHistoryPath returns the default history file path.
func DefaultHistoryPath() string {
	return filepath.Join(DefaultDir(), "history")
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Shell: ShellSection{
			PromptName: DefaultPromptName,
			Banner:     true,
		},
		History: HistorySection{
			Enabled:    true,
			File:       DefaultHistoryPath(),
			MaxEntries: DefaultMaxEntries,
		},
		Stats: StatsSection{
			CPUSample: DefaultCPUSample,
		},
		Output: OutputSection{
			Format: DefaultOutput,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
