// Package retry repeats a failing call with exponential backoff.
package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

const (
	backoffFactor = 2
	maxBackoff    = 10 * time.Second
	// jitterFraction spreads each wait by up to ±10%.
	jitterFraction = 0.1
)

// Policy says how often and how patiently a call is repeated.
// The zero value never retries.
type Policy struct {
	retries int
	backoff time.Duration
}

type Option func(*Policy)

// WithMaxRetries sets how many times a failed call is repeated; 0 disables retrying.
func WithMaxRetries(n int) Option {
	return func(p *Policy) { p.retries = n }
}

// WithInitialInterval sets the wait before the first repeat. Later waits double up to 10s.
func WithInitialInterval(d time.Duration) Option {
	return func(p *Policy) { p.backoff = d }
}

// New returns a policy of 2 retries starting at 500ms.
func New(opts ...Option) *Policy {
	p := &Policy{retries: 2, backoff: 500 * time.Millisecond}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds, returns a permanent error, retries run out
// or ctx is done.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	wait := p.backoff
	err := fn(ctx)
	for n := 0; err != nil && n < p.retries; n++ {
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jittered(wait)):
		}
		wait = min(wait*backoffFactor, maxBackoff)

		err = fn(ctx)
	}

	var perm *permanentError
	if errors.As(err, &perm) {
		return perm.err
	}
	return err
}

func jittered(d time.Duration) time.Duration {
	spread := (rand.Float64()*2 - 1) * jitterFraction * float64(d)
	return max(0, d+time.Duration(spread))
}

// DoWithData is Do for functions that also return a value.
func DoWithData[T any](ctx context.Context, p *Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}
