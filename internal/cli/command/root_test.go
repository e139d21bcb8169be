package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/termsh-go/internal/cli/config"
	"github.com/yndnr/termsh-go/internal/cli/repl"
	"github.com/yndnr/termsh-go/internal/telemetry/logger"
)

// testApp returns the app reading in and writing to a buffer, with HOME
// pointing at a fresh directory.
func testApp(t *testing.T, in string) (*cli.App, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TERMSH_LOG_LEVEL", "error")

	var out bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(in)
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app, &out
}

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "termsh" {
		t.Errorf("Name = %q, want %q", app.Name, "termsh")
	}
	if app.Version == "" {
		t.Error("Version should not be empty")
	}

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		for _, name := range flag.Names() {
			flagNames[name] = true
		}
	}
	for _, name := range []string{"config", "history-file", "no-history", "log-level", "timeout", "output", "o", "command", "c", "metrics-file"} {
		if !flagNames[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

func TestOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{"none", nil, map[string]any{}},
		{"history", []string{"--history-file", "/tmp/h", "--no-history"}, map[string]any{
			"history.file":    "/tmp/h",
			"history.enabled": false,
		}},
		{"exec and output", []string{"--timeout", "1m30s", "-o", "json", "--log-level", "debug"}, map[string]any{
			"exec.timeout":  "1m30s",
			"output.format": "json",
			"log.level":     "debug",
		}},
		{"metrics", []string{"--metrics-file", "m.prom"}, map[string]any{
			"metrics.textfile": "m.prom",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			app := &cli.App{
				Flags: globalFlags(),
				Action: func(c *cli.Context) error {
					got = overrides(c)
					return nil
				},
			}
			if err := app.Run(append([]string{"termsh"}, tt.args...)); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("overrides = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("overrides[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestRunCommandOnce(t *testing.T) {
	app, out := testApp(t, "")
	historyFile := filepath.Join(t.TempDir(), "history")

	if err := app.Run([]string{"termsh", "--history-file", historyFile, "-c", "pwd"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != wd+"\n" {
		t.Errorf("output = %q, want %q", got, wd+"\n")
	}
	if _, err := os.Stat(historyFile); !os.IsNotExist(err) {
		t.Errorf("history file written in one-shot mode: %v", err)
	}
}

func TestRunInteractive(t *testing.T) {
	app, out := testApp(t, "pwd\nhistory\nexit\n")
	dir := t.TempDir()
	historyFile := filepath.Join(dir, "history")
	metricsFile := filepath.Join(dir, "metrics.prom")

	args := []string{"termsh", "--history-file", historyFile, "--metrics-file", metricsFile}
	if err := app.Run(args); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{Banner + "\n", "termsh:", "1: pwd\n2: history\n", repl.Farewell + "\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, repl.Farewell); n != 1 {
		t.Errorf("farewell printed %d times", n)
	}

	data, err := os.ReadFile(historyFile)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if string(data) != "pwd\nhistory\nexit\n" {
		t.Errorf("history file = %q", data)
	}

	metrics, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(metrics), "termsh_commands_total") {
		t.Errorf("metrics file missing termsh_commands_total:\n%s", metrics)
	}
}

func TestRunNoHistory(t *testing.T) {
	app, _ := testApp(t, "pwd\n")
	historyFile := filepath.Join(t.TempDir(), "history")

	if err := app.Run([]string{"termsh", "--history-file", historyFile, "--no-history"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(historyFile); !os.IsNotExist(err) {
		t.Errorf("history file written with --no-history: %v", err)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad output", []string{"--output", "xml", "-c", "pwd"}},
		{"bad log level", []string{"--log-level", "loud", "-c", "pwd"}},
		{"missing config", []string{"--config", "/nonexistent/termsh.yaml", "-c", "pwd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := testApp(t, "")
			err := app.Run(append([]string{"termsh"}, tt.args...))
			if err == nil {
				t.Fatal("Run() should fail")
			}
			exitErr, ok := err.(cli.ExitCoder)
			if !ok || exitErr.ExitCode() != 1 {
				t.Errorf("error = %v, want exit code 1", err)
			}
		})
	}
}

func TestReload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { logger.SetLevel("warn") })

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("exec:\n  timeout: 5s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	opts := config.LoadOptions{Path: path, Required: true}
	cfg, err := config.Load(opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	env, err := newEnvironment(cfg, logger.Discard(), strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newEnvironment() error = %v", err)
	}
	if got := env.exec.Timeout(); got != 5*time.Second {
		t.Fatalf("Timeout() = %v, want 5s", got)
	}

	update := "exec:\n  timeout: 2m\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(update), 0o600); err != nil {
		t.Fatal(err)
	}
	env.reload(opts)

	if got := env.exec.Timeout(); got != 2*time.Minute {
		t.Errorf("Timeout() = %v, want 2m", got)
	}
	if got := logger.GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want debug", got)
	}

	// Invalid changes are rejected and the previous values kept.
	if err := os.WriteFile(path, []byte("exec:\n  timeout: -1s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	env.reload(opts)
	if got := env.exec.Timeout(); got != 2*time.Minute {
		t.Errorf("Timeout() after invalid reload = %v, want 2m", got)
	}
}
