//go:build linux || darwin || freebsd

package sysstat

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// DiskUsage reports usage of the filesystem containing path.
func DiskUsage(path string) (Disk, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Disk{}, domain.ErrStatsUnavailable.WithCause(err)
	}
	bsize := uint64(st.Bsize)
	d := Disk{
		Total: uint64(st.Blocks) * bsize,
		Free:  uint64(st.Bavail) * bsize,
	}
	d.Used = (uint64(st.Blocks) - uint64(st.Bfree)) * bsize
	return d, nil
}

// Platform returns the kernel name, release and machine, e.g.
// "Linux-6.1.0-amd64-x86_64".
func Platform() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return runtime.GOOS + "-" + runtime.GOARCH
	}
	return unix.ByteSliceToString(u.Sysname[:]) + "-" +
		unix.ByteSliceToString(u.Release[:]) + "-" +
		unix.ByteSliceToString(u.Machine[:])
}
