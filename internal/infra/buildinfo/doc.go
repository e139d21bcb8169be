// Package buildinfo provides build information for termsh.
//
// This package exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//
// When no ldflags are given the module version and VCS revision embedded
// by the Go toolchain are used instead.
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/termsh-go/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
