// Package sysstat queries the host for system and process statistics.
//
// Detailed statistics come from the proc filesystem through
// github.com/prometheus/procfs. When /proc is not mounted (macOS, Windows,
// restricted containers) NewSource returns a source whose detailed queries
// fail with domain.ErrStatsUnavailable; callers degrade to load average or
// to the native process-listing tool named by NativeListCommand.
//
// Disk usage and the platform string use golang.org/x/sys and work on every
// unix regardless of /proc.
package sysstat
