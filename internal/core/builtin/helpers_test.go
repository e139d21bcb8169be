package builtin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/termsh-go/internal/core/domain"
	"github.com/yndnr/termsh-go/internal/infra/sysstat"
)

var testRegistry = NewRegistry()

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(t.TempDir(), t.TempDir())
	s.CPUSample = time.Millisecond
	s.LookupHome = func(string) (string, error) { return "", os.ErrNotExist }
	return s
}

// run invokes a builtin by name.
func run(t *testing.T, s *Session, name string, args ...string) domain.Result {
	t.Helper()
	d, ok := testRegistry.Lookup(name)
	require.True(t, ok, "unknown builtin %q", name)
	return d.Invoke(context.Background(), s, args)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// fakeStats is a sysstat.Source with canned values.
type fakeStats struct {
	detailed bool
	disk     sysstat.Disk
	cpu      float64
	mem      sysstat.Memory
	load     *sysstat.Load
	procs    []sysstat.Process
	procErr  error
}

func (f *fakeStats) Detailed() bool { return f.detailed }

func (f *fakeStats) Disk(string) (sysstat.Disk, error) { return f.disk, nil }

func (f *fakeStats) CPUPercent(context.Context, time.Duration) (float64, error) {
	if !f.detailed {
		return 0, domain.ErrStatsUnavailable
	}
	return f.cpu, nil
}

func (f *fakeStats) Memory() (sysstat.Memory, error) {
	if !f.detailed {
		return sysstat.Memory{}, domain.ErrStatsUnavailable
	}
	return f.mem, nil
}

func (f *fakeStats) LoadAverage() (sysstat.Load, error) {
	if f.load == nil {
		return sysstat.Load{}, domain.ErrStatsUnavailable
	}
	return *f.load, nil
}

func (f *fakeStats) Processes(context.Context) ([]sysstat.Process, error) {
	if f.procErr != nil {
		return nil, f.procErr
	}
	return f.procs, nil
}

// fakeHistory is a HistorySource backed by a slice.
type fakeHistory struct {
	lines []string
	err   error
}

func (f fakeHistory) LoadAll() ([]string, error) { return f.lines, f.err }
