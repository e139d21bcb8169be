package shellwords

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []string
		expectedErr error
	}{
		{
			name:     "simple command",
			input:    "ls -la /home/user",
			expected: []string{"ls", "-la", "/home/user"},
		},
		{
			name:     "double quoted field with space",
			input:    `mkdir "a b" c`,
			expected: []string{"mkdir", "a b", "c"},
		},
		{
			name:     "single quoted string",
			input:    "cat 'hello world'",
			expected: []string{"cat", "hello world"},
		},
		{
			name:     "mixed quotes",
			input:    `touch "hello" 'world'`,
			expected: []string{"touch", "hello", "world"},
		},
		{
			name:     "escaped space outside quotes",
			input:    `cat hello\ world`,
			expected: []string{"cat", "hello world"},
		},
		{
			name:     "escaped quote outside quotes",
			input:    `touch it\'s`,
			expected: []string{"touch", "it's"},
		},
		{
			name:     "escaped quote in double quotes",
			input:    `echo "hello \"world\""`,
			expected: []string{"echo", `hello "world"`},
		},
		{
			name:     "escaped backslash in double quotes",
			input:    `echo "hello\\world"`,
			expected: []string{"echo", `hello\world`},
		},
		{
			name:     "other escapes kept literally in double quotes",
			input:    `echo "a\nb"`,
			expected: []string{"echo", `a\nb`},
		},
		{
			name:     "single quotes preserve everything literally",
			input:    `echo 'hello\nworld $HOME'`,
			expected: []string{"echo", `hello\nworld $HOME`},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
		{
			name:     "only whitespace",
			input:    "   \t  \n  ",
			expected: []string{},
		},
		{
			name:     "multiple spaces between arguments",
			input:    "mv    a     b",
			expected: []string{"mv", "a", "b"},
		},
		{
			name:     "empty quotes are empty fields",
			input:    `echo "" ''`,
			expected: []string{"echo", "", ""},
		},
		{
			name:     "adjacent quoted strings",
			input:    `echo "hello"'world'`,
			expected: []string{"echo", "helloworld"},
		},
		{
			name:     "quotes inside a word",
			input:    `cp a"b c"d dest`,
			expected: []string{"cp", "ab cd", "dest"},
		},
		{
			name:     "tilde is not expanded",
			input:    "cd ~/src",
			expected: []string{"cd", "~/src"},
		},
		{
			name:        "unclosed single quote",
			input:       "echo 'x",
			expectedErr: domain.ErrUnterminatedQuote,
		},
		{
			name:        "unclosed double quote",
			input:       `echo "hello`,
			expectedErr: domain.ErrUnterminatedQuote,
		},
		{
			name:        "backslash inside unclosed double quote",
			input:       `echo "hello\`,
			expectedErr: domain.ErrUnterminatedQuote,
		},
		{
			name:        "trailing backslash",
			input:       `echo hello\`,
			expectedErr: domain.ErrDanglingEscape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Split(tt.input)

			if tt.expectedErr != nil {
				if err == nil {
					t.Fatalf("Expected error: %v got nil", tt.expectedErr)
				}
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("Expected error: %v got %v", tt.expectedErr, err)
				}
				if domain.KindOf(err) != domain.KindSyntax {
					t.Errorf("KindOf(%v) = %v, want SyntaxError", err, domain.KindOf(err))
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error got %v", err)
			}
			if !reflect.DeepEqual(res, tt.expected) {
				t.Errorf("input:  %q\nexpected: %q\ngot:       %q", tt.input, tt.expected, res)
			}
		})
	}
}

func TestSplit_ErrorNamesConstruct(t *testing.T) {
	_, err := Split(`echo "x`)
	var de *domain.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if !strings.Contains(de.Text(), "double quote") {
		t.Errorf("Text() = %q, want mention of double quote", de.Text())
	}

	_, err = Split(`echo 'x`)
	if !errors.As(err, &de) || !strings.Contains(de.Text(), "single quote") {
		t.Errorf("error %v should name the single quote", err)
	}
}

func TestSplit_ReparseIsStable(t *testing.T) {
	inputs := []string{
		"ls -la /tmp",
		`mkdir "a b" c`,
		`cp 'x y' "z" dest`,
		`echo "" ''`,
		`touch it\'s "quote\"d" back\\slash`,
		"   spaced    out   ",
	}

	for _, in := range inputs {
		first, err := Split(in)
		if err != nil {
			t.Fatalf("Split(%q) error = %v", in, err)
		}
		second, err := Split(Join(first))
		if err != nil {
			t.Fatalf("Split(Join(%q)) error = %v", first, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("reparse of %q: %q != %q", in, second, first)
		}
	}
}

func TestSplit_ReparsePlainJoin(t *testing.T) {
	// Fields without whitespace or quote characters survive a plain space join.
	in := `mv 'a' "b" c\d dest`
	first, err := Split(in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Split(strings.Join(first, " "))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("got %q, want %q", second, first)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", "''"},
		{"a b", "'a b'"},
		{"it's", `'it'"'"'s'`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
