//go:build darwin || freebsd

package sysstat

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// loadAverage decodes the vm.loadavg sysctl: three fixed-point uint32
// values followed by the scale as a native long.
func loadAverage() (Load, error) {
	raw, err := unix.SysctlRaw("vm.loadavg")
	if err != nil {
		return Load{}, domain.ErrStatsUnavailable.WithCause(err)
	}
	if len(raw) < 24 {
		return Load{}, domain.ErrStatsUnavailable.WithDetails("short vm.loadavg")
	}
	scale := float64(binary.LittleEndian.Uint64(raw[16:24]))
	if scale == 0 {
		return Load{}, domain.ErrStatsUnavailable.WithDetails("zero load scale")
	}
	return Load{
		Load1:  float64(binary.LittleEndian.Uint32(raw[0:4])) / scale,
		Load5:  float64(binary.LittleEndian.Uint32(raw[4:8])) / scale,
		Load15: float64(binary.LittleEndian.Uint32(raw[8:12])) / scale,
	}, nil
}
