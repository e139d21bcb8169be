// Package confloader provides the configuration loading mechanism.
//
// It layers koanf providers so that later sources override earlier ones:
//
//  1. Default values (already present in the target struct)
//  2. Configuration file (YAML, optional)
//  3. Environment variables (TERMSH_SECTION_KEY)
//  4. Command-line flags (LoadMap)
//
// Watcher reports changes to the configuration file so a running shell
// can pick up reloadable settings.
package confloader
