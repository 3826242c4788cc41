package transport

import (
	"context"
	"fmt"
	"net/url"
)

// RetrySender wraps a Sender with a bounded retry for gateways known to
// return transient, mischaracterized errors under load. No backoff: the
// failure mode it targets clears immediately or not at all. Timeouts and
// client errors are never retried.
type RetrySender struct {
	inner       Sender
	maxAttempts int
}

func NewRetrySender(inner Sender, maxAttempts int) *RetrySender {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetrySender{inner: inner, maxAttempts: maxAttempts}
}

func (r *RetrySender) Get(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	return retry(r, ctx, func(ctx context.Context) (*Response, error) {
		return r.inner.Get(ctx, rawURL, query)
	})
}

func (r *RetrySender) PostForm(ctx context.Context, rawURL string, form url.Values) (*Response, error) {
	return retry(r, ctx, func(ctx context.Context) (*Response, error) {
		return r.inner.PostForm(ctx, rawURL, form)
	})
}

func (r *RetrySender) PostXML(ctx context.Context, rawURL string, body []byte) (*Response, error) {
	return retry(r, ctx, func(ctx context.Context) (*Response, error) {
		return r.inner.PostXML(ctx, rawURL, body)
	})
}

func retry(r *RetrySender, ctx context.Context, operation func(ctx context.Context) (*Response, error)) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, &Error{Err: ctx.Err(), Timeout: ctx.Err() == context.DeadlineExceeded}
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		tErr, ok := IsTransportError(err)
		if !ok || !tErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}
