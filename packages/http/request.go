package http

import (
	"time"
)

// Request describes one outbound call. It is built fresh for every send and
// never persisted.
type Request struct {
	Method  string
	URL     string
	Headers []HeaderField
	Body    string
	Timeout time.Duration
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method: method,
		URL:    requestURL,
	}
}

// AddHeader appends a header field. Later fields with the same name win when
// the request is sent.
func (r *Request) AddHeader(name, value string) *Request {
	r.Headers = append(r.Headers, HeaderField{Name: name, Value: value})
	return r
}

// AddHeaderBlock parses raw "Key: Value" lines and appends them.
func (r *Request) AddHeaderBlock(raw string) *Request {
	r.Headers = append(r.Headers, ParseHeaders(raw)...)
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}
