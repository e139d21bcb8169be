package builtin

import (
	"context"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/yndnr/termsh-go/internal/cli/output"
	"github.com/yndnr/termsh-go/internal/core/executor"
	"github.com/yndnr/termsh-go/internal/infra/sysstat"
)

// DefaultCPUSample is how long sysinfo samples CPU usage.
const DefaultCPUSample = 500 * time.Millisecond

// HistorySource provides the persisted history lines, oldest first.
type HistorySource interface {
	LoadAll() ([]string, error)
}

// Runner executes an external command in dir.
type Runner func(ctx context.Context, dir, name string, args []string) executor.Outcome

// Session is the state builtins read and the dispatcher updates.
//
// Handlers never change the process working directory; relative paths
// resolve against Dir and directory changes are returned as data.
type Session struct {
	// Dir is the absolute working directory.
	Dir string
	// Home is the user's home directory. Empty disables ~ expansion.
	Home string

	Stats   sysstat.Source
	History HistorySource
	// Run lists processes natively when detailed stats are missing.
	Run Runner

	// Format is the default for builtins that accept -o.
	Format    output.Format
	CPUSample time.Duration
	Version   string

	// LookupHome returns the home directory of a named user for ~user.
	LookupHome func(name string) (string, error)
}

// NewSession creates a session rooted at dir.
func NewSession(dir, home string) *Session {
	return &Session{
		Dir:        filepath.Clean(dir),
		Home:       home,
		Stats:      sysstat.Unavailable(),
		Format:     output.FormatTable,
		CPUSample:  DefaultCPUSample,
		LookupHome: lookupHome,
	}
}

func lookupHome(name string) (string, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return "", err
	}
	return u.HomeDir, nil
}

// Expand replaces a leading ~ or ~user with the home directory.
// Paths it cannot expand are returned unchanged.
func (s *Session) Expand(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	name, rest, _ := strings.Cut(path[1:], "/")
	var home string
	if name == "" {
		home = s.Home
	} else if s.LookupHome != nil {
		home, _ = s.LookupHome(name)
	}
	if home == "" {
		return path
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest)
}

// Resolve expands path and makes it absolute against the session directory.
func (s *Session) Resolve(path string) string {
	path = s.Expand(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.Dir, path)
}

// Abbrev renders path with the home directory shown as ~.
func (s *Session) Abbrev(path string) string {
	if s.Home == "" || s.Home == "/" {
		return path
	}
	if path == s.Home {
		return "~"
	}
	if strings.HasPrefix(path, s.Home+string(filepath.Separator)) {
		return "~" + path[len(s.Home):]
	}
	return path
}

func (s *Session) stats() sysstat.Source {
	if s.Stats == nil {
		return sysstat.Unavailable()
	}
	return s.Stats
}
