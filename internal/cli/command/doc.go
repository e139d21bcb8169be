// Package command defines the termsh command line.
//
// It uses urfave/cli/v2 for flag parsing. Without -c the shell starts an
// interactive session; with -c it runs one line and exits. Flags override
// the configuration file and TERMSH_* environment variables.
package command
