package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/yndnr/termsh-go/internal/cli/output"
	"github.com/yndnr/termsh-go/internal/telemetry/logger"
)

// maxCPUSample keeps sysinfo responsive.
const maxCPUSample = 10 * time.Second

// Verify validates the configuration.
func Verify(cfg *CLIConfig) error {
	return errors.Join(
		verifyShell(&cfg.Shell),
		verifyHistory(&cfg.History),
		verifyExec(&cfg.Exec),
		verifyStats(&cfg.Stats),
		verifyOutput(&cfg.Output),
		verifyLog(&cfg.Log),
	)
}

func verifyShell(cfg *ShellSection) error {
	if cfg.PromptName == "" {
		return errors.New("shell.prompt_name must not be empty")
	}
	return nil
}

func verifyHistory(cfg *HistorySection) error {
	if cfg.Enabled && cfg.File == "" {
		return errors.New("history.file is required when history is enabled")
	}
	if cfg.MaxEntries < 0 {
		return errors.New("history.max_entries must not be negative")
	}
	return nil
}

func verifyExec(cfg *ExecSection) error {
	if cfg.Timeout < 0 {
		return errors.New("exec.timeout must not be negative")
	}
	return nil
}

func verifyStats(cfg *StatsSection) error {
	if cfg.CPUSample <= 0 || cfg.CPUSample > maxCPUSample {
		return fmt.Errorf("stats.cpu_sample must be in (0, %s]", maxCPUSample)
	}
	return nil
}

func verifyOutput(cfg *OutputSection) error {
	if _, err := output.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch cfg.Format {
	case "", "text", "console", "json":
		return nil
	default:
		return fmt.Errorf("log.format: unsupported format %q", cfg.Format)
	}
}
