package repl

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/yndnr/termsh-go/internal/core/builtin"
	"github.com/yndnr/termsh-go/internal/core/domain"
)

// Completion positions.
const (
	PositionCommand  = "command"
	PositionArgument = "argument"
)

// reservedWords are handled by the dispatcher, not the registry.
var reservedWords = []string{"exit", "quit"}

// Completion is the result of one completion request. Skipped records
// sources that failed and contributed no candidates.
type Completion struct {
	Items   []domain.Candidate
	Skipped []error
}

// Completer is the Completion Engine. Candidates are recomputed on every
// call; nothing is cached between keystrokes.
type Completer struct {
	registry *builtin.Registry
	session  *builtin.Session
	path     func() string

	// OnRequest, if set, observes the position of each request.
	OnRequest func(position string)
}

// NewCompleter creates a completer over the registry and session.
func NewCompleter(registry *builtin.Registry, session *builtin.Session) *Completer {
	return &Completer{
		registry: registry,
		session:  session,
		path:     func() string { return os.Getenv("PATH") },
	}
}

// Candidates returns the candidates for word, which ends at byte offset pos
// of line. A word with only whitespace before it is in command position.
func (c *Completer) Candidates(line string, pos int, word string) Completion {
	pos = min(max(pos, 0), len(line))
	begin := max(pos-len(word), 0)

	if strings.TrimSpace(line[:begin]) == "" {
		c.observe(PositionCommand)
		return c.commandCandidates(word)
	}
	c.observe(PositionArgument)
	return c.pathCandidates(word)
}

// Complete returns the ordinal-th candidate, or false once they are
// exhausted. Every call recomputes the candidate list.
func (c *Completer) Complete(line string, pos int, word string, ordinal int) (string, bool) {
	items := c.Candidates(line, pos, word).Items
	if ordinal < 0 || ordinal >= len(items) {
		return "", false
	}
	return items[ordinal].String(), true
}

// WordCompleter adapts the engine to the line editor. pos is a rune offset.
func (c *Completer) WordCompleter(line string, pos int) (head string, completions []string, tail string) {
	runes := []rune(line)
	pos = min(max(pos, 0), len(runes))

	start := pos
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}

	head = string(runes[:start])
	word := string(runes[start:pos])
	tail = string(runes[pos:])

	before := string(runes[:pos])
	for _, cand := range c.Candidates(before, len(before), word).Items {
		completions = append(completions, cand.String())
	}
	return head, completions, tail
}

func (c *Completer) observe(position string) {
	if c.OnRequest != nil {
		c.OnRequest(position)
	}
}

func (c *Completer) commandCandidates(prefix string) Completion {
	var res Completion

	names := append(c.registry.Names(), reservedWords...)
	external, skipped := c.executables()
	res.Skipped = skipped

	names = lo.Uniq(append(names, external...))
	names = lo.Filter(names, func(name string, _ int) bool {
		return strings.HasPrefix(name, prefix)
	})
	res.Items = lo.Map(names, func(name string, _ int) domain.Candidate {
		return domain.Candidate{Text: name}
	})
	return res
}

// executables lists executable names on PATH in discovery order.
func (c *Completer) executables() ([]string, []error) {
	var (
		names   []string
		skipped []error
	)
	for _, dir := range filepath.SplitList(c.path()) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			skipped = append(skipped, domain.ErrCompletionSkipped.WithDetails(dir).WithCause(err))
			continue
		}
		for _, e := range entries {
			if isExecutable(dir, e) {
				names = append(names, e.Name())
			}
		}
	}
	return names, skipped
}

func isExecutable(dir string, e os.DirEntry) bool {
	if e.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular() && fi.Mode().Perm()&0o111 != 0
}

// pathCandidates lists filesystem entries starting with word. Dot entries
// are offered only when the typed base name starts with a dot.
func (c *Completer) pathCandidates(word string) Completion {
	expanded := c.session.Expand(word)

	dirPart, base := "", expanded
	if i := strings.LastIndex(expanded, "/"); i >= 0 {
		dirPart, base = expanded[:i+1], expanded[i+1:]
	}

	dir := c.session.Dir
	if dirPart != "" {
		dir = c.session.Resolve(dirPart)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Completion{Skipped: []error{domain.ErrCompletionSkipped.WithDetails(dir).WithCause(err)}}
	}

	var res Completion
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}

		text := dirPart + name
		if filepath.IsAbs(text) {
			text = c.session.Abbrev(text)
		}
		res.Items = append(res.Items, domain.Candidate{
			Text: text,
			Dir:  isDirEntry(dir, e),
		})
	}
	return res
}

func isDirEntry(dir string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.IsDir()
}
