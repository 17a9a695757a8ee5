package http

import (
	"strconv"
	"strings"
	"time"
)

type Response struct {
	StatusCode int
	Status     string
	Headers    []HeaderField
	Body       []byte
	// BodyErr is set when the body could not be read completely.
	BodyErr  error
	Duration time.Duration
}

// StatusLine returns the status as "200 OK", falling back to the bare code.
func (r *Response) StatusLine() string {
	if r.Status != "" {
		return r.Status
	}
	return strconv.Itoa(r.StatusCode)
}

func (r *Response) Header(key string) string {
	v, _ := Lookup(r.Headers, key)
	return v
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// DeclaresJSON reports whether the server labelled the body as JSON. The
// body is formatted by content, so this is only a hint.
func (r *Response) DeclaresJSON() bool {
	ct := strings.ToLower(r.ContentType())
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

func IsRedirect(code int) bool {
	return code >= 300 && code < 400
}

func IsClientError(code int) bool {
	return code >= 400 && code < 500
}

func IsServerError(code int) bool {
	return code >= 500
}
