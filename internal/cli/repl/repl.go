package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/yndnr/termsh-go/internal/core/builtin"
	"github.com/yndnr/termsh-go/internal/core/domain"
	"github.com/yndnr/termsh-go/internal/core/executor"
	"github.com/yndnr/termsh-go/internal/core/shellwords"
	"github.com/yndnr/termsh-go/internal/telemetry/logger"
	"github.com/yndnr/termsh-go/internal/telemetry/metric"
)

// Farewell is printed when the session ends.
const Farewell = "Command history has been saved. Goodbye!"

// State is the dispatcher state.
type State int

// Dispatcher states.
const (
	Reading State = iota
	Tokenizing
	Resolving
	Executing
	Exited
)

func (s State) String() string {
	switch s {
	case Reading:
		return "Reading"
	case Tokenizing:
		return "Tokenizing"
	case Resolving:
		return "Resolving"
	case Executing:
		return "Executing"
	case Exited:
		return "Exited"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, dir, name string, args []string) executor.Outcome
}

// Shell is the Dispatcher/Loop.
type Shell struct {
	registry *builtin.Registry
	session  *builtin.Session
	history  *Store
	runner   Runner
	reader   LineReader
	out      io.Writer
	metrics  *metric.Registry
	log      logger.Logger

	promptName string
	setBusy    func(bool)
	clear      func(io.Writer)

	state   State
	seq     int
	started time.Time
	finish  sync.Once
}

// Option configures a Shell.
type Option func(*Shell)

// WithReader sets the line reader. The default reads plain lines from stdin.
func WithReader(r LineReader) Option {
	return func(sh *Shell) {
		sh.reader = r
	}
}

// WithOutput sets where output is written.
func WithOutput(w io.Writer) Option {
	return func(sh *Shell) {
		sh.out = w
	}
}

// WithRunner sets the external command runner.
func WithRunner(r Runner) Option {
	return func(sh *Shell) {
		sh.runner = r
	}
}

// WithMetrics records command metrics in m.
func WithMetrics(m *metric.Registry) Option {
	return func(sh *Shell) {
		sh.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(sh *Shell) {
		sh.log = l
	}
}

// WithPromptName sets the program name shown in the prompt.
func WithPromptName(name string) Option {
	return func(sh *Shell) {
		sh.promptName = name
	}
}

// WithBusy is told when a command starts and stops executing.
func WithBusy(fn func(bool)) Option {
	return func(sh *Shell) {
		sh.setBusy = fn
	}
}

// WithClear overrides how the screen is cleared.
func WithClear(fn func(io.Writer)) Option {
	return func(sh *Shell) {
		sh.clear = fn
	}
}

// New creates a Shell.
func New(registry *builtin.Registry, session *builtin.Session, history *Store, opts ...Option) *Shell {
	sh := &Shell{
		registry:   registry,
		session:    session,
		history:    history,
		out:        os.Stdout,
		log:        logger.Discard(),
		promptName: "termsh",
		setBusy:    func(bool) {},
		clear:      clearScreen,
		started:    time.Now(),
	}
	for _, opt := range opts {
		opt(sh)
	}
	if sh.reader == nil {
		sh.reader = NewPlainReader(os.Stdin, sh.out)
	}
	if sh.runner == nil {
		sh.runner = executor.New()
	}
	if sh.history == nil {
		sh.history = NewMemoryStore()
	}
	return sh
}

func clearScreen(w io.Writer) {
	termenv.NewOutput(w).ClearScreen()
}

// State returns the current dispatcher state.
func (sh *Shell) State() State {
	return sh.state
}

// Started returns when the shell was created.
func (sh *Shell) Started() time.Time {
	return sh.started
}

// HistoryLen returns the number of history entries.
func (sh *Shell) HistoryLen() int {
	return sh.history.Len()
}

// Prompt returns the prompt for the current directory.
func (sh *Shell) Prompt() string {
	return fmt.Sprintf("%s:%s$ ", sh.promptName, sh.session.Dir)
}

// Run reads and dispatches lines until exit, end of input or interrupt.
// History is persisted and the farewell printed however the loop ends.
func (sh *Shell) Run(ctx context.Context) error {
	defer sh.Finish()

	for sh.state != Exited {
		sh.state = Reading
		line, err := sh.reader.ReadLine(sh.Prompt())
		if err != nil {
			fmt.Fprintln(sh.out)
			sh.state = Exited
			if errors.Is(err, ErrInterrupted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		sh.record(line)
		sh.Exec(ctx, line)
	}
	return nil
}

// record appends a raw line to the History Store and the line editor.
func (sh *Shell) record(line string) {
	sh.reader.AppendHistory(line)
	if err := sh.history.Append(line); err != nil {
		sh.notice(context.Background(), err)
	}
}

// Exec tokenizes, resolves and executes one line. It reports whether the
// line asked the shell to exit.
func (sh *Shell) Exec(ctx context.Context, line string) bool {
	sh.state = Tokenizing
	tokens, err := shellwords.Split(line)
	if err != nil {
		sh.syntaxError(err)
		sh.state = Reading
		return false
	}

	inv, ok := domain.NewInvocation(line, tokens)
	if !ok {
		sh.state = Reading
		return false
	}

	sh.state = Resolving
	if inv.Name == "exit" || inv.Name == "quit" {
		sh.state = Exited
		return true
	}

	sh.seq++
	ctx = logger.WithCommandSeq(ctx, sh.seq)

	sh.state = Executing
	sh.setBusy(true)
	defer sh.setBusy(false)

	if d, ok := sh.registry.Lookup(inv.Name); ok {
		sh.execBuiltin(ctx, d, inv)
	} else {
		sh.execExternal(ctx, inv)
	}
	sh.state = Reading
	return false
}

func (sh *Shell) syntaxError(err error) {
	msg := err.Error()
	var de *domain.DomainError
	if errors.As(err, &de) {
		msg = de.Text()
	}
	fmt.Fprintf(sh.out, "termsh: syntax error: %s\n", msg)
	sh.log.Debug("syntax error", "error", err)
	if sh.metrics != nil {
		sh.metrics.IncSyntaxError()
	}
}

func (sh *Shell) execBuiltin(ctx context.Context, d builtin.Descriptor, inv domain.Invocation) {
	start := time.Now()
	res := d.Invoke(ctx, sh.session, inv.Args)
	elapsed := time.Since(start)

	if res.Chdir != "" {
		sh.session.Dir = res.Chdir
	}
	if res.Clear {
		sh.clear(sh.out)
	}
	sh.print(res.Output)

	for _, err := range res.Errors {
		sh.log.Debug("builtin diagnostic", "command", d.Name, "kind", domain.KindOf(err).String(), "error", err)
	}
	for _, n := range res.Notices {
		sh.notice(ctx, n)
	}
	if sh.metrics != nil {
		sh.metrics.RecordCommand(metric.KindBuiltin, d.Name, res.Failed(), elapsed.Seconds())
	}
}

func (sh *Shell) execExternal(ctx context.Context, inv domain.Invocation) {
	sh.log.Debug("running external command", "command", inv.Name, "line", inv.Raw)

	outcome := sh.runner.Run(ctx, sh.session.Dir, inv.Name, inv.Args)
	sh.print(outcome.Text())

	if outcome.Err != nil {
		sh.log.Info("external command failed", "command", inv.Name, "exit_code", outcome.ExitCode, "error", outcome.Err)
	}
	if sh.metrics != nil {
		sh.metrics.RecordCommand(metric.KindExternal, inv.Name, outcome.Err != nil, outcome.Duration.Seconds())
	}
}

func (sh *Shell) print(text string) {
	if text != "" {
		fmt.Fprintln(sh.out, text)
	}
}

// notice logs a degraded-mode notice.
func (sh *Shell) notice(ctx context.Context, err error) {
	sh.log.WithContext(ctx).Info("degraded mode", "source", degradedSource(err), "error", err)
	if sh.metrics != nil {
		sh.metrics.RecordDegraded(degradedSource(err))
	}
}

func degradedSource(err error) string {
	switch {
	case errors.Is(err, domain.ErrStatsUnavailable):
		return "stats"
	case errors.Is(err, domain.ErrHistoryUnavailable):
		return "history"
	case errors.Is(err, domain.ErrCompletionSkipped):
		return "completion"
	case errors.Is(err, domain.ErrLineEditingUnavailable):
		return "line_editing"
	default:
		return "other"
	}
}

// Finish persists history and prints the farewell. Only the first call
// to Finish or Abort has an effect.
func (sh *Shell) Finish() {
	sh.finishWith("")
}

// Abort is Finish for a session interrupted while the prompt is showing:
// the farewell starts on a new line. It does not touch loop state, so it
// may run on another goroutine.
func (sh *Shell) Abort() {
	sh.finishWith("\n")
}

func (sh *Shell) finishWith(prefix string) {
	sh.finish.Do(func() {
		if err := sh.history.Persist(); err != nil {
			sh.log.Warn("persist history", "error", err)
		}
		fmt.Fprint(sh.out, prefix+Farewell+"\n")
	})
}
