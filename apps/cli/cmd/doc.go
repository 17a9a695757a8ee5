// Package cmd implements the getman CLI commands using Cobra.
//
// Available commands:
//   - send: Send one request and print the formatted response
//   - interactive: Edit and send requests from a line-command screen
//   - init: Write a default configuration file
//   - version: Show getman version information
//   - completion: Generate shell completion scripts
package cmd
