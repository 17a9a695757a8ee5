// Package capture extracts single values from a response report.
//
// Supported query forms:
//   - status: the numeric status code
//   - header.<name>: a response header, case-insensitive
//   - body: the whole body
//   - body.<path>: a gjson path into a JSON body
package capture
