package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is wrapped into every STORE_UNAVAILABLE error a backend
// returns, so callers can tell an outage from a bad key or payload.
var ErrUnavailable = errors.New("store backend unavailable")

// retryPolicy bounds how often a backend call is repeated after a connection
// failure. The wait starts at delay and doubles after each failed attempt.
type retryPolicy struct {
	attempts int
	delay    time.Duration
}

// networkRetry is the policy of the Redis backend.
var networkRetry = retryPolicy{attempts: 3, delay: time.Second}

// run calls fn until it succeeds, fails with an error retry rejects, or the
// attempts are used up, and returns the last error. A context that ends
// during a wait returns the context's error instead.
func (p retryPolicy) run(ctx context.Context, retry func(error) bool, fn func() error) error {
	delay := p.delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || attempt >= p.attempts || !retry(err) {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
