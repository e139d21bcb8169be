// Package shellwords splits command lines into shell-style fields.
package shellwords

import (
	"strings"
	"unicode"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

type parseState int

const (
	stateOutside parseState = iota
	stateSingleQuote
	stateDoubleQuote
)

// fieldBuffer accumulates the current field. A field exists once any
// character or quote pair was seen, so '' yields an empty field.
type fieldBuffer struct {
	b       strings.Builder
	started bool
}

func (f *fieldBuffer) appendRune(r rune) {
	f.b.WriteRune(r)
	f.started = true
}

func (f *fieldBuffer) flush(fields []string) []string {
	if !f.started {
		return fields
	}
	fields = append(fields, f.b.String())
	f.b.Reset()
	f.started = false
	return fields
}

// Split tokenizes line.
//
// Fields are separated by runs of whitespace. Single quotes preserve their
// content literally. Double quotes preserve their content except that \"
// and \\ are unescaped. Outside quotes a backslash escapes the next
// character. Quote characters are stripped and quoted text joins any
// adjacent unquoted text in the same field.
//
// An unterminated quote fails with domain.ErrUnterminatedQuote and a trailing
// backslash with domain.ErrDanglingEscape. A blank line yields no fields.
func Split(line string) ([]string, error) {
	var (
		fields   = []string{}
		buf      fieldBuffer
		state    = stateOutside
		escaping bool
	)

	for _, ch := range line {
		switch state {
		case stateOutside:
			switch {
			case escaping:
				buf.appendRune(ch)
				escaping = false
			case ch == '\\':
				escaping = true
				buf.started = true
			case ch == '\'':
				state = stateSingleQuote
				buf.started = true
			case ch == '"':
				state = stateDoubleQuote
				buf.started = true
			case unicode.IsSpace(ch):
				fields = buf.flush(fields)
			default:
				buf.appendRune(ch)
			}

		case stateSingleQuote:
			if ch == '\'' {
				state = stateOutside
			} else {
				buf.appendRune(ch)
			}

		case stateDoubleQuote:
			switch {
			case escaping:
				if ch != '\\' && ch != '"' {
					buf.appendRune('\\')
				}
				buf.appendRune(ch)
				escaping = false
			case ch == '\\':
				escaping = true
			case ch == '"':
				state = stateOutside
			default:
				buf.appendRune(ch)
			}
		}
	}

	switch {
	case state == stateSingleQuote:
		return nil, domain.ErrUnterminatedQuote.WithDetails("single quote")
	case state == stateDoubleQuote:
		return nil, domain.ErrUnterminatedQuote.WithDetails("double quote")
	case escaping:
		return nil, domain.ErrDanglingEscape.WithDetails("backslash at end of line")
	}

	return buf.flush(fields), nil
}

// Quote returns s in a form that Split reads back as a single field.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsFunc(s, needsQuoting) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// Join quotes each field and joins them with single spaces.
func Join(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = Quote(f)
	}
	return strings.Join(quoted, " ")
}

func needsQuoting(r rune) bool {
	return unicode.IsSpace(r) || r == '\'' || r == '"' || r == '\\'
}
