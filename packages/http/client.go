package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

type Client struct {
	httpClient     *http.Client
	transport      http.RoundTripper
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	defaultHeaders []HeaderField
	logger         zerolog.Logger
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		// TLS verification stays on the system defaults.
		c.transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        DefaultMaxIdleConns,
			MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
			IdleConnTimeout:     DefaultIdleConnTimeout,
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	c.httpClient = &http.Client{
		Transport:     c.transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}

	return c
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders = append(c.defaultHeaders, HeaderField{Name: key, Value: value})
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers []HeaderField) ClientOption {
	return func(c *Client) {
		c.defaultHeaders = append(c.defaultHeaders, headers...)
	}
}

// WithTransport replaces the round tripper, mostly for tests.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Do sends req and reads the whole response body. Transport failures are
// returned as errors; a failed body read is recorded on the response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	method, err := ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Body != "" {
		// Attached for every method, GET included.
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}

	for _, h := range c.defaultHeaders {
		setHeader(httpReq, h)
	}

	for _, h := range req.Headers {
		setHeader(httpReq, h)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", req.URL).
		Int("headers", len(httpReq.Header)).
		Int("body_bytes", len(req.Body)).
		Msg("sending request")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", req.URL).Msg("request failed")
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, readErr := io.ReadAll(httpResp.Body)
	duration := time.Since(start)

	c.logger.Debug().
		Int("status", httpResp.StatusCode).
		Dur("duration", duration).
		Int("body_bytes", len(respBody)).
		Msg("response received")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    headerFields(httpResp.Header),
		Body:       respBody,
		BodyErr:    readErr,
		Duration:   duration,
	}, nil
}

func setHeader(req *http.Request, h HeaderField) {
	if strings.EqualFold(h.Name, "Host") {
		req.Host = h.Value
		return
	}
	req.Header.Set(h.Name, h.Value)
}

// headerFields flattens h with names sorted so output is stable.
func headerFields(h http.Header) []HeaderField {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]HeaderField, 0, len(names))
	for _, name := range names {
		for _, v := range h[name] {
			fields = append(fields, HeaderField{Name: name, Value: v})
		}
	}
	return fields
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme.
// The executor does not call it; front ends use it to warn early.
func ValidateURL(rawURL string) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https are allowed)", req.URL.Scheme)
	}

	if req.URL.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
