package builtin

import (
	"flag"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/termsh-go/internal/cli/output"
	"github.com/yndnr/termsh-go/internal/core/domain"
)

// parseFormat reads the -o/--output flag accepted by the reporting
// builtins. Any other argument is rejected.
func parseFormat(name string, s *Session, args []string) (output.Format, *domain.TargetError) {
	format := s.Format
	if format == "" {
		format = output.FormatTable
	}

	var value string
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(io.Discard)
	outputFlag := &cli.StringFlag{
		Name:        "output",
		Aliases:     []string{"o"},
		Usage:       "output format: table, json, yaml",
		Destination: &value,
	}
	if err := outputFlag.Apply(set); err != nil {
		return "", domain.NewTargetError(name, "", "", err)
	}

	if err := set.Parse(args); err != nil {
		return "", domain.NewTargetError(name, "", "", domain.ErrInvalidArgument.WithDetails(err.Error()))
	}
	if rest := set.Args(); len(rest) > 0 {
		return "", domain.NewTargetError(name, "", "", domain.ErrInvalidArgument.WithDetails("unexpected argument '"+rest[0]+"'"))
	}
	if value == "" {
		return format, nil
	}

	f, err := output.ParseFormat(value)
	if err != nil {
		return "", domain.NewTargetError(name, "", "", err)
	}
	return f, nil
}

// render formats data, reporting formatter failures as a diagnostic.
func render(name string, format output.Format, data any) domain.Result {
	text, err := output.Render(format, data)
	if err != nil {
		return domain.ErrorResult(domain.NewTargetError(name, "", "", err))
	}
	return domain.TextResult(text)
}
