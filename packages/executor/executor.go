package executor

import (
	"context"
	"errors"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/abdul-hamid-achik/getman/packages/http"
)

// ErrorPrefix starts every transport failure message.
const ErrorPrefix = "Error: "

// Doer sends a request. *http.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

type Executor struct {
	client Doer
	logger zerolog.Logger
}

type Option func(*Executor)

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New returns an executor sending through client. A nil client gets the
// package default.
func New(client Doer, opts ...Option) *Executor {
	if client == nil {
		client = http.NewClient()
	}
	e := &Executor{
		client: client,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run performs the exchange described by spec. It returns
// http.ErrInvalidMethod without any network I/O when the method is not
// supported, and the transport error when the exchange fails.
func (e *Executor) Run(ctx context.Context, spec *http.Request) (*Report, error) {
	if _, err := http.ParseMethod(spec.Method); err != nil {
		e.logger.Debug().Str("method", spec.Method).Msg("rejected method")
		return nil, err
	}

	resp, err := e.client.Do(ctx, spec)
	if err != nil {
		e.logger.Warn().Err(err).Str("method", spec.Method).Str("url", spec.URL).Msg("request failed")
		return nil, err
	}

	report := NewReport(resp)
	if resp.DeclaresJSON() && !report.IsJSON && resp.BodyErr == nil {
		e.logger.Debug().Str("content_type", resp.ContentType()).Msg("body labelled JSON did not parse, showing it raw")
	}
	return report, nil
}

// Execute performs the exchange and always returns display text: the
// rendered report, the invalid method marker, or "Error: " and the cause.
func (e *Executor) Execute(ctx context.Context, spec *http.Request) string {
	report, err := e.Run(ctx, spec)
	if err != nil {
		return ErrorText(err)
	}
	return report.String()
}

// ErrorText renders err the way Execute shows it.
func ErrorText(err error) string {
	if errors.Is(err, http.ErrInvalidMethod) {
		return http.ErrInvalidMethod.Error()
	}
	return ErrorPrefix + describe(err)
}

// describe drops the "Get \"url\":" wrapper net/http puts around transport
// errors; the URL is already on screen.
func describe(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
