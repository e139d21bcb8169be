package config

import "time"

// CLIConfig is the configuration for termsh (~/.termsh/config.yaml).
type CLIConfig struct {
	Shell   ShellSection   `koanf:"shell"`
	History HistorySection `koanf:"history"`
	Exec    ExecSection    `koanf:"exec"`
	Stats   StatsSection   `koanf:"stats"`
	Output  OutputSection  `koanf:"output"`
	Log     LogSection     `koanf:"log"`
	Metrics MetricsSection `koanf:"metrics"`
}

// ShellSection configures the interactive loop.
type ShellSection struct {
	// PromptName is the text before the working directory in the prompt.
	PromptName string `koanf:"prompt_name"`
	// Banner prints the greeting on interactive start.
	Banner bool `koanf:"banner"`
}

// HistorySection configures the History Store.
type HistorySection struct {
	Enabled bool   `koanf:"enabled"`
	File    string `koanf:"file"`
	// MaxEntries bounds how many lines seed the line editor. Zero means all.
	MaxEntries int `koanf:"max_entries"`
}

// ExecSection configures external command execution.
type ExecSection struct {
	// Timeout bounds each external command. Zero disables the bound.
	Timeout time.Duration `koanf:"timeout"`
}

// StatsSection configures system statistics.
type StatsSection struct {
	CPUSample time.Duration `koanf:"cpu_sample"`
}

// OutputSection configures structured builtin output.
type OutputSection struct {
	Format string `koanf:"format"` // table, json, yaml
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	// File receives log output. Empty logs to stderr.
	File string `koanf:"file"`
}

// MetricsSection configures metrics export.
type MetricsSection struct {
	// Textfile receives the metrics in Prometheus text format at exit.
	Textfile string `koanf:"textfile"`
}
