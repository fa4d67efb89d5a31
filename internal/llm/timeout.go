package llm

import (
	"context"
	"errors"
	"time"
)

// DefaultCallTimeout bounds a single provider call when no timeout is
// configured.
const DefaultCallTimeout = 60 * time.Second

// TimeoutProvider is a decorator that applies a fixed per-call deadline.
// A call that exceeds it fails with ErrTimeout. The decorator never
// retries; retry policy belongs to the caller.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider with a per-call deadline.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.inner.Generate(callCtx, req)
	if err != nil {
		// Only report a timeout when this decorator's deadline fired,
		// not when the parent context was cancelled.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &ErrTimeout{
				Model:   t.inner.ModelID(),
				Timeout: t.timeout,
				Err:     err,
			}
		}
		return nil, err
	}
	return resp, nil
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
