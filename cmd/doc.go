// Package cmd implements the command-line interface for ticktoday.
//
// This package provides the following commands:
//   - today: Authenticate if needed and display the tasks due today
//   - auth: Run a fresh browser authorization and print the access token
//   - init: Create an example configuration file
//   - version: Display version information
//
// The today command is the default command when no subcommand is specified.
package cmd
