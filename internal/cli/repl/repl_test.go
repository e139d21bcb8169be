package repl

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/termsh-go/internal/core/builtin"
	"github.com/yndnr/termsh-go/internal/core/executor"
	"github.com/yndnr/termsh-go/internal/telemetry/metric"
)

// scriptReader replays lines, then reports end, which defaults to io.EOF.
type scriptReader struct {
	lines    []string
	end      error
	prompts  []string
	recalled []string
}

func (r *scriptReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		if r.end != nil {
			return "", r.end
		}
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptReader) AppendHistory(line string) { r.recalled = append(r.recalled, line) }

func (r *scriptReader) Close() error { return nil }

// fakeRunner records external invocations.
type fakeRunner struct {
	calls   []string
	dirs    []string
	outcome executor.Outcome
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args []string) executor.Outcome {
	f.calls = append(f.calls, strings.Join(append([]string{name}, args...), " "))
	f.dirs = append(f.dirs, dir)
	return f.outcome
}

type testShell struct {
	*Shell
	session *builtin.Session
	history *Store
	reader  *scriptReader
	runner  *fakeRunner
	out     *bytes.Buffer
	metrics *metric.Registry
}

func newTestShell(t *testing.T, lines ...string) *testShell {
	t.Helper()
	sess := builtin.NewSession(t.TempDir(), t.TempDir())
	sess.LookupHome = func(string) (string, error) { return "", os.ErrNotExist }
	store := NewStore(filepath.Join(t.TempDir(), ".termsh", "history"), 0)
	sess.History = store

	ts := &testShell{
		session: sess,
		history: store,
		reader:  &scriptReader{lines: lines},
		runner:  &fakeRunner{},
		out:     &bytes.Buffer{},
		metrics: metric.NewRegistry(),
	}
	ts.Shell = New(builtin.NewRegistry(), sess, store,
		WithReader(ts.reader),
		WithOutput(ts.out),
		WithRunner(ts.runner),
		WithMetrics(ts.metrics),
		WithClear(func(w io.Writer) { io.WriteString(w, "<clear>") }),
	)
	return ts
}

func TestShellSession(t *testing.T) {
	ts := newTestShell(t, "mkdir foo", "cd foo", "pwd", "touch x.txt", "ls", "exit")
	root := ts.session.Dir
	cwd, err := os.Getwd()
	require.NoError(t, err)

	require.NoError(t, ts.Run(context.Background()))

	assert.FileExists(t, filepath.Join(root, "foo", "x.txt"))
	assert.Equal(t, filepath.Join(root, "foo"), ts.session.Dir)
	assert.Equal(t, Exited, ts.State())

	out := ts.out.String()
	assert.Contains(t, out, filepath.Join(root, "foo")+"\n")
	assert.Contains(t, out, "x.txt\n")
	assert.True(t, strings.HasSuffix(out, Farewell+"\n"))

	data, err := os.ReadFile(ts.history.Path())
	require.NoError(t, err)
	assert.Equal(t, "mkdir foo\ncd foo\npwd\ntouch x.txt\nls\nexit\n", string(data))
	assert.Equal(t, []string{"mkdir foo", "cd foo", "pwd", "touch x.txt", "ls", "exit"}, ts.reader.recalled)

	assert.Equal(t, "termsh:"+root+"$ ", ts.reader.prompts[0])
	assert.Equal(t, "termsh:"+filepath.Join(root, "foo")+"$ ", ts.reader.prompts[2])

	now, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, now, "process directory unchanged")

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.CommandsTotal.WithLabelValues(metric.KindBuiltin, "mkdir", metric.OutcomeOK)))
}

func TestShellHistoryBuiltin(t *testing.T) {
	ts := newTestShell(t, "pwd", "history", "quit")
	require.NoError(t, ts.Run(context.Background()))

	assert.Contains(t, ts.out.String(), "1: pwd\n2: history\n")
}

func TestShellSyntaxError(t *testing.T) {
	ts := newTestShell(t)

	exit := ts.Exec(context.Background(), `echo "unterminated`)
	assert.False(t, exit)
	assert.Equal(t, "termsh: syntax error: unterminated quote: double quote\n", ts.out.String())
	assert.Empty(t, ts.runner.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.SyntaxErrors))
	assert.Equal(t, Reading, ts.State())
}

func TestShellExternal(t *testing.T) {
	ts := newTestShell(t)
	ts.runner.outcome = executor.Outcome{Output: "hello world"}

	ts.Exec(context.Background(), `echo 'hello world'`)

	assert.Equal(t, []string{"echo hello world"}, ts.runner.calls)
	assert.Equal(t, []string{ts.session.Dir}, ts.runner.dirs)
	assert.Equal(t, "hello world\n", ts.out.String())
}

func TestShellExternalNotFound(t *testing.T) {
	ts := newTestShell(t)
	ts.Shell.runner = executor.New(executor.WithTimeout(5 * time.Second))

	ts.Exec(context.Background(), "termsh-no-such-command --flag")

	assert.Equal(t, "termsh-no-such-command: command not found\n", ts.out.String())
}

func TestShellBlankAndExit(t *testing.T) {
	ts := newTestShell(t)
	ctx := context.Background()

	assert.False(t, ts.Exec(ctx, "   "))
	assert.Empty(t, ts.out.String())
	assert.True(t, ts.Exec(ctx, "exit"))
	assert.Equal(t, Exited, ts.State())
	assert.True(t, ts.Exec(ctx, "quit now"))
}

func TestShellBuiltinDiagnostic(t *testing.T) {
	ts := newTestShell(t)

	ts.Exec(context.Background(), "cd nowhere")

	assert.Equal(t, "cd: nowhere: No such file or directory\n", ts.out.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.CommandsTotal.WithLabelValues(metric.KindBuiltin, "cd", metric.OutcomeError)))
}

func TestShellClear(t *testing.T) {
	ts := newTestShell(t)

	ts.Exec(context.Background(), "clear")

	assert.Equal(t, "<clear>", ts.out.String())
}

func TestShellBusy(t *testing.T) {
	ts := newTestShell(t)
	var states []bool
	ts.Shell.setBusy = func(b bool) { states = append(states, b) }

	ts.Exec(context.Background(), "pwd")
	ts.Exec(context.Background(), "exit")

	assert.Equal(t, []bool{true, false}, states)
}

func TestShellDegradedNotice(t *testing.T) {
	ts := newTestShell(t)

	ts.Exec(context.Background(), "top")

	assert.Contains(t, ts.out.String(), "top: detailed process statistics are not supported on this system")
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.DegradedNotices.WithLabelValues("stats")))
}

func TestShellEndOfInput(t *testing.T) {
	for _, end := range []error{io.EOF, ErrInterrupted} {
		ts := newTestShell(t, "pwd")
		ts.reader.end = end

		require.NoError(t, ts.Run(context.Background()))

		out := ts.out.String()
		assert.True(t, strings.HasSuffix(out, "\n"+Farewell+"\n"), "%v: %q", end, out)
		assert.Equal(t, 1, strings.Count(out, Farewell))
	}
}

func TestShellFinishOnce(t *testing.T) {
	ts := newTestShell(t)

	ts.Finish()
	ts.Finish()

	assert.Equal(t, Farewell+"\n", ts.out.String())
}

func TestShellAbort(t *testing.T) {
	ts := newTestShell(t)
	require.NoError(t, ts.history.Append("pwd"))

	done := make(chan struct{})
	go func() {
		ts.Abort()
		close(done)
	}()
	<-done
	ts.Finish()

	assert.Equal(t, "\n"+Farewell+"\n", ts.out.String())
	assert.Equal(t, Reading, ts.State(), "loop state untouched")
}

func TestShellCollectorSource(t *testing.T) {
	ts := newTestShell(t, "pwd", "ls", "exit")
	require.NoError(t, ts.Run(context.Background()))

	assert.Equal(t, 3, ts.HistoryLen())
	assert.False(t, ts.Started().IsZero())

	var _ metric.SessionSource = ts.Shell
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Reading", Reading.String())
	assert.Equal(t, "Exited", Exited.String())
	assert.Equal(t, "State(9)", State(9).String())
}
