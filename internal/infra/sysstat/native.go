package sysstat

import "runtime"

// NativeListCommand returns the platform's process-listing tool and its
// arguments, used when detailed statistics are unavailable.
func NativeListCommand() []string {
	if runtime.GOOS == "windows" {
		return []string{"tasklist"}
	}
	return []string{"ps", "aux"}
}
