package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/termsh-go/internal/infra/confloader"
	"github.com/yndnr/termsh-go/internal/telemetry/logger"
)

// LoadOptions selects the configuration sources.
type LoadOptions struct {
	// Path is the config file. Empty uses DefaultConfigPath.
	Path string
	// Required makes a missing file an error. Set when the user named
	// the file explicitly.
	Required bool
	// Overrides are dotted keys from command-line flags, applied last.
	Overrides map[string]any
}

// Load builds the configuration from defaults, the config file, TERMSH_*
// environment variables and flag overrides, in increasing precedence,
// and verifies the result.
func Load(opts LoadOptions) (*CLIConfig, error) {
	path := opts.Path
	if path == "" {
		path = DefaultConfigPath()
	}

	fileOpt := confloader.WithOptionalConfigFile(path)
	if opts.Required {
		fileOpt = confloader.WithConfigFile(path)
	}
	loader := confloader.NewLoader(fileOpt)

	cfg := Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "file", loader.FilePath(), "file_loaded", loader.FileLoaded())
	if len(opts.Overrides) > 0 {
		if err := loader.LoadMap(opts.Overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	home, _ := os.UserHomeDir()
	cfg.History.File = expandHome(cfg.History.File, home)
	cfg.Log.File = expandHome(cfg.Log.File, home)
	cfg.Metrics.Textfile = expandHome(cfg.Metrics.Textfile, home)

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// expandHome replaces a leading ~/ in path with home.
func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}
