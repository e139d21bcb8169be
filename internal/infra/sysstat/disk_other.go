//go:build !(linux || darwin || freebsd)

package sysstat

import (
	"runtime"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// DiskUsage is not supported on this platform.
func DiskUsage(path string) (Disk, error) {
	return Disk{}, domain.ErrStatsUnavailable.WithDetails("disk usage on " + runtime.GOOS)
}

// Platform returns the operating system and architecture.
func Platform() string {
	return runtime.GOOS + "-" + runtime.GOARCH
}

func loadAverage() (Load, error) {
	return Load{}, domain.ErrStatsUnavailable
}
