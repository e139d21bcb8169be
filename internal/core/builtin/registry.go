package builtin

import (
	"context"
	"fmt"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// Command identifies a builtin.
type Command int

// Builtins, in the order help lists them.
const (
	List Command = iota
	ChangeDir
	PrintDir
	MakeDir
	Remove
	RemoveDir
	Cat
	Touch
	Move
	Copy
	Clear
	SysInfo
	Processes
	Top
	History
	Help

	numCommands
)

// Handler runs a builtin against the session.
type Handler func(ctx context.Context, s *Session, args []string) domain.Result

// Descriptor describes one builtin.
type Descriptor struct {
	Command Command
	Name    string
	Aliases []string
	Usage   string
	Summary string
	Handler Handler
}

// Registry is the fixed table of builtins. It is immutable after
// NewRegistry returns.
type Registry struct {
	descriptors [numCommands]Descriptor
	byName      map[string]Command
}

// NewRegistry builds the builtin table.
// It panics if two builtins share a name or a handler is missing.
func NewRegistry() *Registry {
	r := &Registry{}
	r.descriptors = [numCommands]Descriptor{
		List:      {Name: "ls", Usage: "ls [path]", Summary: "list directory contents", Handler: listDir},
		ChangeDir: {Name: "cd", Usage: "cd [dir]", Summary: "change directory", Handler: changeDir},
		PrintDir:  {Name: "pwd", Usage: "pwd", Summary: "print current working directory", Handler: printDir},
		MakeDir:   {Name: "mkdir", Usage: "mkdir NAME...", Summary: "create directories", Handler: makeDir},
		Remove:    {Name: "rm", Usage: "rm NAME...", Summary: "remove files (won't remove non-empty dirs)", Handler: remove},
		RemoveDir: {Name: "rmdir", Usage: "rmdir NAME...", Summary: "remove empty directories", Handler: removeDir},
		Cat:       {Name: "cat", Usage: "cat FILE...", Summary: "print file contents", Handler: cat},
		Touch:     {Name: "touch", Usage: "touch FILE...", Summary: "create or update timestamp", Handler: touch},
		Move:      {Name: "mv", Usage: "mv SRC... DEST", Summary: "move files or directories", Handler: move},
		Copy:      {Name: "cp", Usage: "cp SRC... DEST", Summary: "copy files or directories", Handler: copyFiles},
		Clear:     {Name: "clear", Usage: "clear", Summary: "clear the screen", Handler: clearScreen},
		SysInfo:   {Name: "sysinfo", Usage: "sysinfo [-o FORMAT]", Summary: "show system information & resource usage", Handler: sysInfo},
		Processes: {Name: "ps", Usage: "ps [-o FORMAT]", Summary: "list processes", Handler: listProcesses},
		Top:       {Name: "top", Usage: "top [-o FORMAT]", Summary: "show top CPU-consuming processes", Handler: topProcesses},
		History:   {Name: "history", Usage: "history [-o FORMAT]", Summary: "show command history", Handler: showHistory},
		Help:      {Name: "help", Aliases: []string{"?"}, Usage: "help [command]", Summary: "show this help", Handler: r.help},
	}

	r.byName = make(map[string]Command, len(r.descriptors)+1)
	for i := range r.descriptors {
		d := &r.descriptors[i]
		d.Command = Command(i)
		if d.Name == "" || d.Handler == nil {
			panic(fmt.Sprintf("builtin: command %d is not fully described", i))
		}
		for _, name := range append([]string{d.Name}, d.Aliases...) {
			if _, dup := r.byName[name]; dup {
				panic("builtin: duplicate name " + name)
			}
			r.byName[name] = d.Command
		}
	}
	return r
}

// Lookup finds a builtin by exact name or alias.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	c, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.Descriptor(c), true
}

// Descriptor returns the descriptor for c.
func (r *Registry) Descriptor(c Command) Descriptor {
	return r.descriptors[c]
}

// Descriptors returns every builtin in registry order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors[:])
	return out
}

// Names returns the primary builtin names in registry order. Aliases are
// not included.
func (r *Registry) Names() []string {
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return names
}

// String returns the builtin's name.
func (c Command) String() string {
	switch c {
	case List:
		return "ls"
	case ChangeDir:
		return "cd"
	case PrintDir:
		return "pwd"
	case MakeDir:
		return "mkdir"
	case Remove:
		return "rm"
	case RemoveDir:
		return "rmdir"
	case Cat:
		return "cat"
	case Touch:
		return "touch"
	case Move:
		return "mv"
	case Copy:
		return "cp"
	case Clear:
		return "clear"
	case SysInfo:
		return "sysinfo"
	case Processes:
		return "ps"
	case Top:
		return "top"
	case History:
		return "history"
	case Help:
		return "help"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// Invoke runs the builtin. A panicking handler is reported as
// "<name>: error: <message>" instead of reaching the caller.
func (d Descriptor) Invoke(ctx context.Context, s *Session, args []string) (res domain.Result) {
	defer func() {
		if p := recover(); p != nil {
			err := &PanicError{Command: d.Name, Value: p}
			res = domain.ErrorResult(err)
		}
	}()
	return d.Handler(ctx, s, args)
}

// PanicError is a recovered handler panic.
type PanicError struct {
	Command string
	Value   any
}

// Error renders "<name>: error: <message>".
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: error: %v", e.Command, e.Value)
}

// Unwrap classifies the panic as an ExecutionError.
func (e *PanicError) Unwrap() error {
	return domain.ErrBuiltinFailed
}
