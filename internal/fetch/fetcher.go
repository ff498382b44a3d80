package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"github.com/finnews-io/finnews/internal/common"
)

// Guard is the outbound policy decision consulted before any network call.
// Implemented by policy.Guard.
type Guard interface {
	Check(rawURL string) error
}

// Producer performs exactly one upstream call and classifies its own result.
// Adapters must not retry internally; the fetcher owns the retry loop.
type Producer func(ctx context.Context) Outcome

// BackoffFactory returns a fresh delay strategy for one fetch. The fetcher
// never reuses a strategy across fetches.
type BackoffFactory func() backoff.BackOff

// Fetcher issues upstream calls through the guard and cache with bounded
// retries. One fetcher is constructed per provider so each carries its own
// TTL and retry tuning, while the cache and guard are shared.
type Fetcher struct {
	cache       *Cache
	guard       Guard
	ttl         time.Duration
	maxAttempts int
	newBackoff  BackoffFactory
	logger      *common.Logger
	group       singleflight.Group
	sleep       func(ctx context.Context, d time.Duration) error
}

// FetcherOption configures the fetcher
type FetcherOption func(*Fetcher)

// WithTTL sets the cache TTL applied to successful payloads.
func WithTTL(ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.ttl = ttl
	}
}

// WithMaxAttempts sets the attempt budget per fetch.
func WithMaxAttempts(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithBackoff sets the delay strategy factory.
func WithBackoff(factory BackoffFactory) FetcherOption {
	return func(f *Fetcher) {
		f.newBackoff = factory
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a fetcher over a shared cache and guard.
func NewFetcher(cache *Cache, guard Guard, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		cache:       cache,
		guard:       guard,
		ttl:         180 * time.Second,
		maxAttempts: 3,
		logger:      common.NewSilentLogger(),
		sleep:       sleepCtx,
	}
	f.newBackoff = func() backoff.BackOff {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 500 * time.Millisecond
		bo.MaxInterval = 10 * time.Second
		return bo
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// ExponentialBackoff returns a factory producing exponential delays starting
// at initial. Used by the app wiring to honor the configured first delay.
func ExponentialBackoff(initial time.Duration) BackoffFactory {
	return func() backoff.BackOff {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = initial
		bo.MaxInterval = 10 * time.Second
		return bo
	}
}

// Fetch resolves sig: cache hit short-circuits (the original fetch was
// already policy-checked), otherwise the guard is consulted and produce is
// invoked up to the attempt budget. Successful payloads are cached with the
// provider TTL before being returned. Concurrent fetches of the same
// signature are collapsed into a single upstream call; this changes resource
// usage only, never observable results.
func (f *Fetcher) Fetch(ctx context.Context, sig Signature, rawURL string, produce Producer) Outcome {
	if payload, ok := f.cache.Get(sig); ok {
		f.logger.Debug().Str("provider", sig.Provider()).Msg("Cache hit")
		return Success(payload)
	}

	if err := f.guard.Check(rawURL); err != nil {
		f.logger.Warn().Str("provider", sig.Provider()).Err(err).Msg("Request denied by policy")
		return Fatal(err.Error(), fmt.Errorf("%w: %v", ErrPolicyDenied, err))
	}

	v, _, _ := f.group.Do(sig.Key(), func() (interface{}, error) {
		return f.attempt(ctx, sig, produce), nil
	})
	return v.(Outcome)
}

// attempt runs the bounded retry loop. Only retryable failures consume
// further attempts; exhausting the budget surfaces the last retryable
// failure, never a silent success.
func (f *Fetcher) attempt(ctx context.Context, sig Signature, produce Producer) Outcome {
	bo := f.newBackoff()
	var last Outcome

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		out := produce(ctx)

		switch out.Class {
		case ClassSuccess:
			f.cache.Put(sig, out.Payload, f.ttl)
			return out

		case ClassFatal:
			f.logger.Warn().
				Str("provider", sig.Provider()).
				Str("reason", out.Reason).
				Msg("Fetch failed")
			return out

		case ClassRetryable:
			last = out
			f.logger.Debug().
				Str("provider", sig.Provider()).
				Int("attempt", attempt).
				Str("reason", out.Reason).
				Msg("Transient fetch failure")

			if attempt < f.maxAttempts {
				delay := bo.NextBackOff()
				if delay == backoff.Stop {
					delay = 0
				}
				if err := f.sleep(ctx, delay); err != nil {
					return Retryable("cancelled while backing off", err)
				}
			}
		}
	}

	last.Err = fmt.Errorf("%w after %d attempts: %s", ErrRetriesExhausted, f.maxAttempts, last.Reason)
	f.logger.Warn().
		Str("provider", sig.Provider()).
		Int("attempts", f.maxAttempts).
		Str("reason", last.Reason).
		Msg("Retries exhausted")
	return last
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
