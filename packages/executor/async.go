package executor

import (
	"context"

	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/getman/packages/http"
)

// Pending is a request running in the background.
type Pending struct {
	ID   uuid.UUID
	Spec *http.Request

	cancel context.CancelFunc
	done   chan struct{}
	report *Report
	err    error
}

// Submit starts the exchange on a new goroutine and returns immediately.
func (e *Executor) Submit(ctx context.Context, spec *http.Request) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{
		ID:     uuid.New(),
		Spec:   spec,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	logger := e.logger.With().Str("request_id", p.ID.String()).Logger()
	logger.Debug().Str("method", spec.Method).Str("url", spec.URL).Msg("submitted")

	go func() {
		defer close(p.done)
		defer cancel()
		p.report, p.err = e.Run(ctx, spec)
		logger.Debug().Bool("ok", p.err == nil).Msg("finished")
	}()

	return p
}

// Done is closed once the exchange has finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Cancel aborts the exchange if it is still running.
func (p *Pending) Cancel() {
	p.cancel()
}

// Wait blocks until the exchange finishes or ctx ends.
func (p *Pending) Wait(ctx context.Context) (*Report, error) {
	select {
	case <-p.done:
		return p.report, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Report returns the outcome. Only valid after Done is closed.
func (p *Pending) Report() (*Report, error) {
	<-p.done
	return p.report, p.err
}

// Text returns the display text, blocking until the exchange finishes.
func (p *Pending) Text() string {
	report, err := p.Report()
	if err != nil {
		return ErrorText(err)
	}
	return report.String()
}
