// Package output renders structured builtin results.
//
//   - formatter.go: Formatter interface, format parsing and Render
//   - table.go: aligned text tables and plain text reports
//   - json.go: indented JSON
//   - yaml.go: YAML via gopkg.in/yaml.v3
//
// The table format is the interactive default. JSON and YAML give
// machine-readable output of the same values for scripting with -c.
package output
