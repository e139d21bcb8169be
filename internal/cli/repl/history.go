package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// History file permissions.
const (
	historyDirMode  = 0o700
	historyFileMode = 0o600
)

// Store is the History Store.
//
// The plain newline-delimited file is the only persistent copy. Append
// writes each line to it immediately; lines whose write failed are kept
// pending and retried by Persist. Entries are never evicted, so sequence
// numbers stay stable for the whole session.
type Store struct {
	mu      sync.Mutex
	path    string // empty keeps history in memory only
	maxSize int
	entries []string
	pending []string
}

// NewStore creates a store backed by path. maxSize bounds Recent; zero
// means unbounded.
func NewStore(path string, maxSize int) *Store {
	return &Store{
		path:    path,
		maxSize: maxSize,
	}
}

// NewMemoryStore creates a store without a backing file.
func NewMemoryStore() *Store {
	return NewStore("", 0)
}

// Path returns the history file path.
func (h *Store) Path() string {
	return h.path
}

// Load reads the history file into memory. A missing file is not an error.
func (h *Store) Load() error {
	lines, err := h.readFile()
	if err != nil {
		return domain.ErrHistoryUnavailable.WithDetails(domain.Reason(err)).WithCause(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(lines, h.entries...)
	return nil
}

// LoadAll returns every history line, oldest first: the file's contents
// followed by lines not yet written. A missing file yields no lines and no
// error.
func (h *Store) LoadAll() ([]string, error) {
	if h.path == "" {
		h.mu.Lock()
		defer h.mu.Unlock()
		return append([]string(nil), h.entries...), nil
	}

	lines, err := h.readFile()
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return append(lines, h.pending...), nil
}

func (h *Store) readFile() ([]string, error) {
	if h.path == "" {
		return nil, nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// Append records line. Whitespace-only input is ignored. The line is kept
// in memory even when writing it to the file fails.
func (h *Store) Append(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	line = strings.ReplaceAll(line, "\n", " ")

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, line)
	if h.path == "" {
		return nil
	}
	if err := h.appendFile([]string{line}); err != nil {
		h.pending = append(h.pending, line)
		return domain.ErrHistoryUnavailable.WithDetails(domain.Reason(err)).WithCause(err)
	}
	return nil
}

// Persist writes any lines whose append failed.
func (h *Store) Persist() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" || len(h.pending) == 0 {
		return nil
	}
	if err := h.appendFile(h.pending); err != nil {
		return domain.ErrHistoryUnavailable.WithDetails(domain.Reason(err)).WithCause(err)
	}
	h.pending = nil
	return nil
}

func (h *Store) appendFile(lines []string) error {
	if err := os.MkdirAll(filepath.Dir(h.path), historyDirMode); err != nil {
		return err
	}

	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, historyFileMode)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		return err
	}
	return file.Close()
}

// Recent returns up to n of the newest lines, oldest first. n <= 0 uses
// the store's maximum size.
func (h *Store) Recent(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 {
		n = h.maxSize
	}
	start := 0
	if n > 0 && len(h.entries) > n {
		start = len(h.entries) - n
	}
	return append([]string(nil), h.entries[start:]...)
}

// Len returns the number of in-memory entries.
func (h *Store) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
