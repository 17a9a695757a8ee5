// Package executor turns user-entered form state into a single HTTP exchange
// and renders the outcome as the text shown in the response panel.
//
// Execute is synchronous. Submit runs the same exchange on its own goroutine
// and hands back a Pending future, so an event loop can keep serving input
// while a request is in flight.
package executor
