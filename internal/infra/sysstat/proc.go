package sysstat

import (
	"context"
	"fmt"
	"os/user"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/procfs"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// userHZ is the kernel clock tick rate procfs assumes for stat fields.
const userHZ = 100

// procSource reads statistics from a proc filesystem.
type procSource struct {
	fs    procfs.FS
	users map[string]string
	now   func() time.Time
}

// NewSource returns a procfs-backed Source, or Unavailable when the default
// proc mount cannot be read.
func NewSource() Source {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return Unavailable()
	}
	if _, err := fs.Stat(); err != nil {
		return Unavailable()
	}
	return newProcSource(fs)
}

// NewSourceAt returns a Source reading the proc filesystem mounted at mountPoint.
func NewSourceAt(mountPoint string) (Source, error) {
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, domain.ErrStatsUnavailable.WithCause(err)
	}
	return newProcSource(fs), nil
}

func newProcSource(fs procfs.FS) *procSource {
	return &procSource{
		fs:    fs,
		users: make(map[string]string),
		now:   time.Now,
	}
}

func (s *procSource) Detailed() bool { return true }

func (s *procSource) Disk(path string) (Disk, error) { return DiskUsage(path) }

// CPUPercent samples aggregate CPU time twice, interval apart.
func (s *procSource) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	before, err := s.fs.Stat()
	if err != nil {
		return 0, domain.ErrStatsUnavailable.WithCause(err)
	}
	if err := sleep(ctx, interval); err != nil {
		return 0, err
	}
	after, err := s.fs.Stat()
	if err != nil {
		return 0, domain.ErrStatsUnavailable.WithCause(err)
	}
	return busyPercent(before.CPUTotal, after.CPUTotal), nil
}

func (s *procSource) Memory() (Memory, error) {
	mi, err := s.fs.Meminfo()
	if err != nil {
		return Memory{}, domain.ErrStatsUnavailable.WithCause(err)
	}
	if mi.MemTotal == nil {
		return Memory{}, domain.ErrStatsUnavailable.WithDetails("MemTotal missing from meminfo")
	}
	m := Memory{Total: *mi.MemTotal * 1024}
	switch {
	case mi.MemAvailable != nil:
		m.Available = *mi.MemAvailable * 1024
	case mi.MemFree != nil:
		m.Available = *mi.MemFree * 1024
	}
	return m, nil
}

func (s *procSource) LoadAverage() (Load, error) {
	la, err := s.fs.LoadAvg()
	if err != nil {
		return Load{}, domain.ErrStatsUnavailable.WithCause(err)
	}
	return Load{Load1: la.Load1, Load5: la.Load5, Load15: la.Load15}, nil
}

// Processes lists every readable process. CPU% is the lifetime average,
// as ps(1) reports it. Processes that exit mid-scan are skipped.
func (s *procSource) Processes(ctx context.Context) ([]Process, error) {
	stat, err := s.fs.Stat()
	if err != nil {
		return nil, domain.ErrStatsUnavailable.WithCause(err)
	}
	var memTotal float64
	if mem, err := s.Memory(); err == nil {
		memTotal = float64(mem.Total)
	}

	procs, err := s.fs.AllProcs()
	if err != nil {
		return nil, domain.ErrStatsUnavailable.WithCause(err)
	}

	now := float64(s.now().UnixNano()) / float64(time.Second)
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ps, err := p.Stat()
		if err != nil {
			continue
		}

		row := Process{
			PID:     ps.PID,
			User:    s.owner(p),
			Command: command(p, ps.Comm),
		}

		started := float64(stat.BootTime) + float64(ps.Starttime)/userHZ
		if elapsed := now - started; elapsed > 0 {
			row.CPUPercent = ps.CPUTime() / elapsed * 100
		}
		if memTotal > 0 {
			row.MemPercent = float64(ps.ResidentMemory()) / memTotal * 100
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, nil
}

func (s *procSource) owner(p procfs.Proc) string {
	st, err := p.NewStatus()
	if err != nil {
		return "?"
	}
	uid := fmt.Sprint(st.UIDs[0])
	if name, ok := s.users[uid]; ok {
		return name
	}
	name := uid
	if u, err := user.LookupId(uid); err == nil {
		name = u.Username
	}
	s.users[uid] = name
	return name
}

func command(p procfs.Proc, comm string) string {
	args, err := p.CmdLine()
	if err != nil || len(args) == 0 {
		return "[" + comm + "]"
	}
	return strings.Join(args, " ")
}

// busyPercent returns the non-idle share of CPU time between two samples.
func busyPercent(before, after procfs.CPUStat) float64 {
	total := func(c procfs.CPUStat) float64 {
		return c.User + c.Nice + c.System + c.Idle + c.Iowait + c.IRQ + c.SoftIRQ + c.Steal
	}
	idle := func(c procfs.CPUStat) float64 {
		return c.Idle + c.Iowait
	}

	dt := total(after) - total(before)
	if dt <= 0 {
		return 0
	}
	busy := dt - (idle(after) - idle(before))
	pct := busy / dt * 100
	if pct < 0 {
		return 0
	}
	return pct
}

// TopByCPU returns up to n processes ordered by CPU% descending.
// Ties keep PID order.
func TopByCPU(procs []Process, n int) []Process {
	sorted := make([]Process, len(procs))
	copy(sorted, procs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CPUPercent > sorted[j].CPUPercent
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
