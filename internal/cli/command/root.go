package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/termsh-go/internal/cli/config"
	"github.com/yndnr/termsh-go/internal/cli/output"
	"github.com/yndnr/termsh-go/internal/cli/repl"
	"github.com/yndnr/termsh-go/internal/core/builtin"
	"github.com/yndnr/termsh-go/internal/core/executor"
	"github.com/yndnr/termsh-go/internal/infra/buildinfo"
	"github.com/yndnr/termsh-go/internal/infra/confloader"
	"github.com/yndnr/termsh-go/internal/infra/shutdown"
	"github.com/yndnr/termsh-go/internal/infra/sysstat"
	"github.com/yndnr/termsh-go/internal/telemetry/logger"
	"github.com/yndnr/termsh-go/internal/telemetry/metric"
)

// Banner is printed when an interactive session starts.
const Banner = "termsh: type 'help' for commands, 'exit' to quit"

// shutdownTimeout bounds the shutdown hooks.
const shutdownTimeout = 5 * time.Second

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:            "termsh",
		Usage:           "interactive shell with built-in file and system commands",
		Version:         buildinfo.String(),
		Flags:           globalFlags(),
		Action:          runShell,
		HideHelpCommand: true,
	}
}

// globalFlags returns the CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "configuration file (default ~/.termsh/config.yaml)",
		},
		&cli.StringFlag{
			Name:  "history-file",
			Usage: "history file (default ~/.termsh/history)",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "keep history in memory only",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, warn, error",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "time limit for external commands, 0 for none",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "default format for sysinfo, ps, top and history: table, json, yaml",
		},
		&cli.StringFlag{
			Name:    "command",
			Aliases: []string{"c"},
			Usage:   "run one command line and exit",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write metrics in Prometheus text format to this file at exit",
		},
	}
}

// overrides maps the flags that were set onto configuration keys.
func overrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	if c.IsSet("history-file") {
		m["history.file"] = c.String("history-file")
	}
	if c.Bool("no-history") {
		m["history.enabled"] = false
	}
	if c.IsSet("log-level") {
		m["log.level"] = c.String("log-level")
	}
	if c.IsSet("timeout") {
		m["exec.timeout"] = c.Duration("timeout").String()
	}
	if c.IsSet("output") {
		m["output.format"] = c.String("output")
	}
	if c.IsSet("metrics-file") {
		m["metrics.textfile"] = c.String("metrics-file")
	}
	return m
}

func loadOptions(c *cli.Context) config.LoadOptions {
	return config.LoadOptions{
		Path:      c.String("config"),
		Required:  c.IsSet("config"),
		Overrides: overrides(c),
	}
}

func runShell(c *cli.Context) error {
	opts := loadOptions(c)
	cfg, err := config.Load(opts)
	if err != nil {
		return cli.Exit(fmt.Sprintf("load config: %v", err), 1)
	}

	log, closeLog, err := initLogger(cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("init logger: %v", err), 1)
	}
	defer closeLog()

	sessionID := ulid.Make().String()
	log = log.With("session_id", sessionID)
	ctx := logger.WithSessionID(logger.WithLogger(c.Context, log), sessionID)

	env, err := newEnvironment(cfg, log, c.App.Reader, c.App.Writer)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.IsSet("command") {
		env.shell.Exec(ctx, c.String("command"))
		env.close()
		return nil
	}

	return env.interactive(ctx, cfg, opts)
}

// initLogger creates the session logger and returns a func releasing its
// output file.
func initLogger(cfg *config.CLIConfig) (logger.Logger, func(), error) {
	lc := logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	}
	closeFn := func() {}
	if cfg.Log.File != "" {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, nil, err
		}
		lc.Output = f
		closeFn = func() { _ = f.Close() }
	}

	log, err := logger.New(lc)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	logger.SetDefault(log)
	return log, closeFn, nil
}

// environment holds the wired components of one shell session.
type environment struct {
	shell    *repl.Shell
	shutdown *shutdown.Handler
	history  *repl.Store
	reader   repl.LineReader
	exec     *executor.Executor
	metrics  *metric.Registry
	log      logger.Logger
	out      io.Writer
	textfile string
}

func newEnvironment(cfg *config.CLIConfig, log logger.Logger, in io.Reader, out io.Writer) (*environment, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	home, _ := os.UserHomeDir()

	exec := executor.New(executor.WithTimeout(cfg.Exec.Timeout), executor.WithStdin(in))
	metrics := metric.NewRegistry()

	sess := builtin.NewSession(dir, home)
	sess.Stats = sysstat.NewSource()
	sess.Run = exec.Run
	if format, err := output.ParseFormat(cfg.Output.Format); err == nil {
		sess.Format = format
	}
	sess.CPUSample = cfg.Stats.CPUSample
	sess.Version = buildinfo.Get().Version

	history := repl.NewMemoryStore()
	if cfg.History.Enabled {
		history = repl.NewStore(cfg.History.File, cfg.History.MaxEntries)
		if err := history.Load(); err != nil {
			log.Warn("history not loaded", "path", cfg.History.File, "error", err)
			metrics.RecordDegraded("history")
		}
	}
	sess.History = history

	registry := builtin.NewRegistry()
	completer := repl.NewCompleter(registry, sess)
	completer.OnRequest = metrics.RecordCompletion

	reader := newReader(in, out, completer, history.Recent(0), log, metrics)

	env := &environment{
		shutdown: shutdown.NewHandler(shutdownTimeout),
		history:  history,
		reader:   reader,
		exec:     exec,
		metrics:  metrics,
		log:      log,
		out:      out,
		textfile: cfg.Metrics.Textfile,
	}
	env.shell = repl.New(registry, sess, history,
		repl.WithReader(reader),
		repl.WithOutput(out),
		repl.WithRunner(exec),
		repl.WithMetrics(metrics),
		repl.WithLogger(log),
		repl.WithPromptName(cfg.Shell.PromptName),
		repl.WithBusy(env.shutdown.SetBusy),
	)
	if err := metrics.Register(metric.NewCollector(env.shell)); err != nil {
		return nil, fmt.Errorf("register session metrics: %w", err)
	}
	return env, nil
}

// newReader uses liner on a terminal and plain line reads otherwise.
func newReader(in io.Reader, out io.Writer, completer *repl.Completer, seed []string, log logger.Logger, metrics *metric.Registry) repl.LineReader {
	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)
	if inOK && outOK && repl.IsTerminal(inFile, outFile) {
		return repl.NewLinerReader(completer.WordCompleter, seed)
	}
	log.Debug("line editing unavailable, reading plain lines")
	metrics.RecordDegraded("line_editing")
	return repl.NewPlainReader(in, out)
}

func (e *environment) interactive(ctx context.Context, cfg *config.CLIConfig, opts config.LoadOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := e.shutdown
	handler.OnShutdown(func(context.Context) error {
		return e.writeMetrics()
	})
	handler.OnShutdown(func(context.Context) error {
		e.shell.Abort()
		return nil
	})
	handler.OnShutdown(func(context.Context) error {
		return e.reader.Close()
	})

	if w := e.watchConfig(opts); w != nil {
		handler.OnShutdown(func(context.Context) error {
			return w.Stop()
		})
	}

	go handler.Listen(ctx)

	if cfg.Shell.Banner {
		fmt.Fprintln(e.out, Banner)
	}

	runErr := e.shell.Run(ctx)
	if err := handler.Shutdown(); err != nil {
		e.log.Warn("shutdown", "error", err)
	}
	return runErr
}

// watchConfig reloads the log level and command timeout when the config
// file changes. It returns nil when the file cannot be watched.
func (e *environment) watchConfig(opts config.LoadOptions) *confloader.Watcher {
	path := opts.Path
	if path == "" {
		path = config.DefaultConfigPath()
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(e.log))
	if err != nil {
		e.log.Debug("config watcher unavailable", "error", err)
		return nil
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil
	}
	w.OnChange(func(string) {
		e.reload(opts)
	})
	w.StartAsync()
	return w
}

func (e *environment) reload(opts config.LoadOptions) {
	cfg, err := config.Load(opts)
	if err != nil {
		e.log.Warn("config reload rejected", "error", err)
		return
	}
	logger.SetLevel(cfg.Log.Level)
	e.exec.SetTimeout(cfg.Exec.Timeout)
	e.log.Info("config reloaded", "log_level", cfg.Log.Level, "exec_timeout", cfg.Exec.Timeout)
}

func (e *environment) writeMetrics() error {
	if e.textfile == "" {
		return nil
	}
	return e.metrics.WriteTextfile(e.textfile)
}

// close releases the session without the interactive farewell.
func (e *environment) close() {
	if err := e.history.Persist(); err != nil {
		e.log.Warn("persist history", "error", err)
	}
	if err := e.writeMetrics(); err != nil {
		e.log.Warn("write metrics", "error", err)
	}
	_ = e.reader.Close()
}
