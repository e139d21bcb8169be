package sysstat

import (
	"context"
	"time"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// Disk is filesystem usage in bytes.
type Disk struct {
	Total uint64 `json:"total" yaml:"total"`
	Used  uint64 `json:"used" yaml:"used"`
	Free  uint64 `json:"free" yaml:"free"`
}

// Memory is physical memory in bytes.
type Memory struct {
	Total     uint64 `json:"total" yaml:"total"`
	Available uint64 `json:"available" yaml:"available"`
}

// UsedPercent returns the share of memory in use.
func (m Memory) UsedPercent() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Total-m.Available) / float64(m.Total) * 100
}

// Load is the system load average.
type Load struct {
	Load1  float64 `json:"load1" yaml:"load1"`
	Load5  float64 `json:"load5" yaml:"load5"`
	Load15 float64 `json:"load15" yaml:"load15"`
}

// Process is one row of the process table.
type Process struct {
	PID        int     `json:"pid" yaml:"pid"`
	User       string  `json:"user" yaml:"user"`
	CPUPercent float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemPercent float64 `json:"mem_percent" yaml:"mem_percent"`
	Command    string  `json:"command" yaml:"command"`
}

// Source provides system statistics.
type Source interface {
	// Detailed reports whether per-process and CPU/memory statistics exist.
	Detailed() bool
	Disk(path string) (Disk, error)
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)
	Memory() (Memory, error)
	LoadAverage() (Load, error)
	Processes(ctx context.Context) ([]Process, error)
}

// unavailable is the Source used when /proc cannot be read.
type unavailable struct{}

// Unavailable returns a Source without detailed statistics.
func Unavailable() Source {
	return unavailable{}
}

func (unavailable) Detailed() bool { return false }

func (unavailable) Disk(path string) (Disk, error) { return DiskUsage(path) }

func (unavailable) CPUPercent(context.Context, time.Duration) (float64, error) {
	return 0, domain.ErrStatsUnavailable
}

func (unavailable) Memory() (Memory, error) { return Memory{}, domain.ErrStatsUnavailable }

func (unavailable) LoadAverage() (Load, error) { return loadAverage() }

func (unavailable) Processes(context.Context) ([]Process, error) {
	return nil, domain.ErrStatsUnavailable
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
