// Package service contains the operations the presentation layer calls.
// Services validate inputs, enforce the route/stop/connection invariants in a
// fixed order, and run each operation inside one repo transaction.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pkordes/tourgraph/internal/domain"
)

// Option configures a service.
type Option func(*options)

type options struct {
	log       *slog.Logger
	retries   uint64
	retryBase time.Duration
}

// WithLogger sets the logger used for mutation and warning records.
// Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithReadRetry retries read operations up to attempts times when the store
// reports domain.ErrStoreUnavailable, waiting base, 2*base, 4*base, ...
// between tries. Mutations are never retried. attempts <= 0 or base <= 0
// disables retrying, which is the default.
func WithReadRetry(attempts int, base time.Duration) Option {
	return func(o *options) {
		if attempts <= 0 || base <= 0 {
			o.retries = 0
			return
		}
		o.retries = uint64(attempts)
		o.retryBase = base
	}
}

func newOptions(opts []Option) options {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// read runs fn, retrying with exponential backoff while it fails with a
// retryable error. Any other error stops immediately.
func (o options) read(ctx context.Context, fn func(ctx context.Context) error) error {
	if o.retries == 0 {
		return fn(ctx)
	}

	backoff := retry.WithMaxRetries(o.retries, retry.NewExponential(o.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if domain.Retryable(err) {
			o.log.WarnContext(ctx, "store unavailable, retrying read", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}
