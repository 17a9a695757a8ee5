// Package http provides the HTTP client getman sends requests through.
//
// It wraps the standard library's http package with:
//   - Optional timeouts (none by default)
//   - Redirect handling
//   - Ordered header fields parsed from free text
//   - Response capture with the body fully read
package http
