package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// ErrInterrupted is returned by a LineReader when the user interrupts
// input, for example with Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// LineReader reads input lines. ReadLine returns ErrInterrupted or io.EOF
// when input ends.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// IsTerminal reports whether both files are terminals.
func IsTerminal(in, out *os.File) bool {
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// LinerReader edits lines with liner: cursor movement, tab completion and
// up-arrow recall.
type LinerReader struct {
	state *liner.State
}

// NewLinerReader puts the terminal into line-editing mode. seed fills the
// recall history, oldest first.
func NewLinerReader(completer liner.WordCompleter, seed []string) *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetTabCompletionStyle(liner.TabPrints)
	if completer != nil {
		state.SetWordCompleter(completer)
	}
	for _, line := range seed {
		state.AppendHistory(line)
	}
	return &LinerReader{state: state}
}

// ReadLine implements LineReader.
func (r *LinerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}
	return line, err
}

// AppendHistory adds line to the recall history.
func (r *LinerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

// Close restores the terminal mode.
func (r *LinerReader) Close() error {
	return r.state.Close()
}

// PlainReader reads lines from a non-terminal input.
type PlainReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlainReader creates a reader that writes prompts to out.
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{in: bufio.NewReader(in), out: out}
}

// ReadLine implements LineReader. A final line without a newline is
// returned before io.EOF.
func (r *PlainReader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(r.out, prompt)
	}
	line, err := r.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AppendHistory is a no-op; plain input has no recall.
func (r *PlainReader) AppendHistory(string) {}

// Close implements LineReader.
func (r *PlainReader) Close() error { return nil }
