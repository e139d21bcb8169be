// Package config provides the termsh configuration.
//
//   - spec.go: CLIConfig struct (~/.termsh/config.yaml)
//   - default.go: default values and paths
//   - verify.go: validation
//   - loader.go: loading through confloader
//
// Sources in increasing precedence: defaults, the YAML file, TERMSH_*
// environment variables (TERMSH_EXEC_TIMEOUT sets exec.timeout) and
// command-line flags.
package config
