// Package output renders executor results for the terminal.
//
// Supported output formats:
//   - Text: the plain response panel layout
//   - Console: the same layout with colours
//   - JSON: machine-readable document
package output
