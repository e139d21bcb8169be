package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/yndnr/termsh-go/internal/cli/output"
	"github.com/yndnr/termsh-go/internal/core/domain"
)

// noHistory is printed when there is nothing to show.
const noHistory = "(no history)"

// historyList renders entries as "N: text" lines.
type historyList []domain.HistoryEntry

// Text implements output.Texter.
func (h historyList) Text() string {
	lines := make([]string, len(h))
	for i, e := range h {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

func showHistory(_ context.Context, s *Session, args []string) domain.Result {
	format, ferr := parseFormat("history", s, args)
	if ferr != nil {
		return domain.ErrorResult(ferr)
	}
	if s.History == nil {
		return domain.TextResult(noHistory)
	}

	lines, err := s.History.LoadAll()
	if err != nil {
		return domain.ErrorResult(domain.NewTargetError("history", "", "",
			domain.ErrHistoryUnavailable.WithDetails(domain.Reason(err)).WithCause(err)))
	}
	if len(lines) == 0 {
		return domain.TextResult(noHistory)
	}

	entries := make(historyList, len(lines))
	for i, line := range lines {
		entries[i] = domain.HistoryEntry{Seq: i + 1, Text: line}
	}
	if format == output.FormatTable {
		return render("history", format, entries)
	}
	return render("history", format, []domain.HistoryEntry(entries))
}

// help lists every builtin, or describes the named ones.
func (r *Registry) help(_ context.Context, _ *Session, args []string) domain.Result {
	if len(args) == 0 {
		return domain.TextResult(r.helpText())
	}

	var out domain.Lines
	for _, name := range args {
		d, ok := r.Lookup(name)
		if !ok {
			out.Fail(domain.NewTargetError("help", "", "", domain.ErrInvalidArgument.WithDetails("no such builtin '"+name+"'")))
			continue
		}
		out.Add(fmt.Sprintf("%s - %s", d.Usage, d.Summary))
	}
	return out.Result()
}

func (r *Registry) helpText() string {
	var b strings.Builder
	b.WriteString("Built-in commands:\n")
	for _, d := range r.Descriptors() {
		fmt.Fprintf(&b, "  %-20s - %s\n", d.Usage, d.Summary)
	}
	fmt.Fprintf(&b, "  %-20s - %s\n", "exit/quit", "quit the terminal")
	b.WriteString("\nCommands that accept -o FORMAT print table, json or yaml.\n")
	b.WriteString("Any other command is run as a system command and its output shown.")
	return b.String()
}
