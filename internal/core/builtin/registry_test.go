package builtin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

func TestNewRegistry_Names(t *testing.T) {
	r := NewRegistry()

	want := []string{
		"ls", "cd", "pwd", "mkdir", "rm", "rmdir", "cat", "touch",
		"mv", "cp", "clear", "sysinfo", "ps", "top", "history", "help",
	}
	assert.Equal(t, want, r.Names())
	assert.Len(t, r.Descriptors(), int(numCommands))
}

func TestRegistry_EveryCommandDescribed(t *testing.T) {
	r := NewRegistry()

	for c := Command(0); c < numCommands; c++ {
		d := r.Descriptor(c)
		assert.Equal(t, c, d.Command)
		assert.Equal(t, c.String(), d.Name, "Command(%d)", int(c))
		assert.NotNil(t, d.Handler, d.Name)
		assert.NotEmpty(t, d.Usage, d.Name)
		assert.NotEmpty(t, d.Summary, d.Name)

		found, ok := r.Lookup(d.Name)
		require.True(t, ok, d.Name)
		assert.Equal(t, c, found.Command)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()

	d, ok := r.Lookup("?")
	require.True(t, ok)
	assert.Equal(t, Help, d.Command)

	_, ok = r.Lookup("LS")
	assert.False(t, ok, "lookup is case-sensitive")

	_, ok = r.Lookup("exit")
	assert.False(t, ok, "exit is handled by the dispatcher")

	_, ok = r.Lookup("")
	assert.False(t, ok)
}

func TestCommand_StringUnknown(t *testing.T) {
	assert.Equal(t, "Command(99)", Command(99).String())
}

func TestDescriptor_InvokeRecoversPanic(t *testing.T) {
	d := Descriptor{
		Name: "boom",
		Handler: func(context.Context, *Session, []string) domain.Result {
			panic("kaboom")
		},
	}

	res := d.Invoke(context.Background(), newTestSession(t), nil)

	assert.Equal(t, "boom: error: kaboom", res.Output)
	require.Len(t, res.Errors, 1)
	assert.True(t, errors.Is(res.Errors[0], domain.ErrBuiltinFailed))
	assert.Equal(t, domain.KindExecution, domain.KindOf(res.Errors[0]))
}

func TestHelp(t *testing.T) {
	r := NewRegistry()
	s := newTestSession(t)

	res := run(t, s, "help")
	for _, name := range r.Names() {
		assert.Contains(t, res.Output, "  "+mustLookup(t, r, name).Usage)
	}
	assert.Contains(t, res.Output, "exit/quit")
	assert.False(t, res.Failed())

	res = run(t, s, "?", "ls", "nope")
	assert.Equal(t, "ls [path] - list directory contents\nhelp: invalid argument: no such builtin 'nope'", res.Output)
	assert.Len(t, res.Errors, 1)
}

func mustLookup(t *testing.T, r *Registry, name string) Descriptor {
	t.Helper()
	d, ok := r.Lookup(name)
	require.True(t, ok, name)
	return d
}
