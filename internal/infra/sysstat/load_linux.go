package sysstat

import (
	"golang.org/x/sys/unix"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// loadScale is the fixed-point scale of sysinfo(2) load averages.
const loadScale = 1 << 16

func loadAverage() (Load, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return Load{}, domain.ErrStatsUnavailable.WithCause(err)
	}
	return Load{
		Load1:  float64(info.Loads[0]) / loadScale,
		Load5:  float64(info.Loads[1]) / loadScale,
		Load15: float64(info.Loads[2]) / loadScale,
	}, nil
}
