package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yndnr/termsh-go/internal/cli/output"
	"github.com/yndnr/termsh-go/internal/core/domain"
	"github.com/yndnr/termsh-go/internal/infra/sysstat"
	"github.com/yndnr/termsh-go/internal/telemetry/logger"
)

// topLimit is how many processes top shows.
const topLimit = 10

// userWidth truncates user names in the process table.
const userWidth = 10

func clearScreen(context.Context, *Session, []string) domain.Result {
	return domain.Result{Clear: true}
}

// SystemInfo is the sysinfo report.
type SystemInfo struct {
	Platform   string          `json:"platform" yaml:"platform"`
	Version    string          `json:"version,omitempty" yaml:"version,omitempty"`
	CWD        string          `json:"cwd" yaml:"cwd"`
	Disk       *sysstat.Disk   `json:"disk,omitempty" yaml:"disk,omitempty"`
	CPUPercent *float64        `json:"cpu_percent,omitempty" yaml:"cpu_percent,omitempty"`
	Memory     *sysstat.Memory `json:"memory,omitempty" yaml:"memory,omitempty"`
	Load       *sysstat.Load   `json:"load,omitempty" yaml:"load,omitempty"`
	Notice     string          `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// Text renders the report one fact per line.
func (i SystemInfo) Text() string {
	lines := []string{"Platform: " + i.Platform}
	if i.Version != "" {
		lines = append(lines, "Version: "+i.Version)
	}
	lines = append(lines, "CWD: "+i.CWD)
	if i.Disk != nil {
		lines = append(lines, fmt.Sprintf("Disk: total=%s used=%s free=%s",
			humanize.IBytes(i.Disk.Total), humanize.IBytes(i.Disk.Used), humanize.IBytes(i.Disk.Free)))
	}
	if i.CPUPercent != nil {
		lines = append(lines, "CPU: "+sysstat.FormatPercent(*i.CPUPercent)+"%")
	}
	if i.Memory != nil {
		used := i.Memory.Total - i.Memory.Available
		lines = append(lines, fmt.Sprintf("Memory: %s%% (%s / %s)",
			sysstat.FormatPercent(i.Memory.UsedPercent()), humanize.IBytes(used), humanize.IBytes(i.Memory.Total)))
	}
	if i.Load != nil {
		lines = append(lines, fmt.Sprintf("Load Average (1m/5m/15m): %.2f %.2f %.2f", i.Load.Load1, i.Load.Load5, i.Load.Load15))
	}
	if i.Notice != "" {
		lines = append(lines, i.Notice)
	}
	return strings.Join(lines, "\n")
}

func sysInfo(ctx context.Context, s *Session, args []string) domain.Result {
	format, ferr := parseFormat("sysinfo", s, args)
	if ferr != nil {
		return domain.ErrorResult(ferr)
	}

	info, notices := collectSystemInfo(ctx, s)
	res := render("sysinfo", format, info)
	res.Notices = notices
	return res
}

func collectSystemInfo(ctx context.Context, s *Session) (SystemInfo, []error) {
	stats := s.stats()
	info := SystemInfo{
		Platform: sysstat.Platform(),
		Version:  s.Version,
		CWD:      s.Dir,
	}

	if d, err := stats.Disk(s.Dir); err == nil {
		info.Disk = &d
	} else {
		logger.L(ctx).Debug("disk usage unavailable", "path", s.Dir, "error", err)
	}

	if stats.Detailed() {
		cpu, cpuErr := stats.CPUPercent(ctx, s.CPUSample)
		mem, memErr := stats.Memory()
		if cpuErr == nil {
			info.CPUPercent = &cpu
		}
		if memErr == nil {
			info.Memory = &mem
		}
		if cpuErr == nil && memErr == nil {
			return info, nil
		}
		logger.L(ctx).Debug("cpu or memory statistics unavailable", "cpu_error", cpuErr, "memory_error", memErr)
	}

	if load, err := stats.LoadAverage(); err == nil {
		info.Load = &load
		return info, []error{domain.ErrStatsUnavailable}
	}

	info.Notice = "CPU/Memory: detailed statistics unavailable on this platform"
	return info, []error{domain.ErrStatsUnavailable}
}

// processTable renders processes as the ps table.
type processTable []sysstat.Process

// Table implements output.Tabler.
func (p processTable) Table() *output.Table {
	t := &output.Table{Headers: []string{"PID", "USER", "CPU%", "MEM%", "CMD"}}
	for _, proc := range p {
		user := proc.User
		if len(user) > userWidth {
			user = user[:userWidth]
		}
		t.AddRow(fmt.Sprint(proc.PID), user,
			sysstat.FormatPercent(proc.CPUPercent), sysstat.FormatPercent(proc.MemPercent), proc.Command)
	}
	return t
}

// topTable renders processes as the top table.
type topTable []sysstat.Process

// Table implements output.Tabler.
func (p topTable) Table() *output.Table {
	t := &output.Table{Headers: []string{"PID", "CPU%", "MEM%", "CMD"}}
	for _, proc := range p {
		t.AddRow(fmt.Sprint(proc.PID),
			sysstat.FormatPercent(proc.CPUPercent), sysstat.FormatPercent(proc.MemPercent), proc.Command)
	}
	return t
}

func listProcesses(ctx context.Context, s *Session, args []string) domain.Result {
	format, ferr := parseFormat("ps", s, args)
	if ferr != nil {
		return domain.ErrorResult(ferr)
	}

	stats := s.stats()
	if stats.Detailed() {
		procs, err := stats.Processes(ctx)
		if err == nil {
			if format == output.FormatTable {
				return render("ps", format, processTable(procs))
			}
			return render("ps", format, procs)
		}
		logger.L(ctx).Warn("process statistics failed, using native listing", "error", err)
	}

	res := nativeProcesses(ctx, s)
	res.Notices = append(res.Notices, domain.ErrStatsUnavailable)
	return res
}

// nativeProcesses passes through the output of the platform's own
// process listing tool.
func nativeProcesses(ctx context.Context, s *Session) domain.Result {
	if s.Run == nil {
		return psError(domain.ErrStatsUnavailable.Text(), domain.ErrStatsUnavailable)
	}

	argv := sysstat.NativeListCommand()
	outcome := s.Run(ctx, s.Dir, argv[0], argv[1:])
	if outcome.Err != nil {
		return psError(outcome.Err.Error(), outcome.Err)
	}
	return domain.TextResult(outcome.Output)
}

func psError(msg string, err error) domain.Result {
	return domain.Result{
		Output: "ps: error: " + msg + "\n(detailed process statistics unavailable)",
		Errors: []error{fmt.Errorf("ps: %w", err)},
	}
}

func topProcesses(ctx context.Context, s *Session, args []string) domain.Result {
	format, ferr := parseFormat("top", s, args)
	if ferr != nil {
		return domain.ErrorResult(ferr)
	}

	stats := s.stats()
	if !stats.Detailed() {
		return domain.Result{
			Output:  "top: detailed process statistics are not supported on this system",
			Notices: []error{domain.ErrStatsUnavailable},
		}
	}

	procs, err := stats.Processes(ctx)
	if err != nil {
		return domain.ErrorResult(domain.NewTargetError("top", "", "", err))
	}
	procs = sysstat.TopByCPU(procs, topLimit)
	if format == output.FormatTable {
		return render("top", format, topTable(procs))
	}
	return render("top", format, procs)
}
