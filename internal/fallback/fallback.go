// Package fallback implements the per-tool fallback chain: a primary adapter
// is tried once, and on missing credentials or exhausted retries a configured
// secondary adapter answers instead. This is a policy layer above the
// fetcher's retries; it never re-invokes an adapter.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/finnews-io/finnews/internal/fetch"
	"github.com/finnews-io/finnews/internal/models"
)

// Step is one adapter in a fallback chain.
type Step[T any] struct {
	// Name identifies the adapter in recorded attempts.
	Name string
	// Call invokes the adapter once. Retries, if any, happen inside the
	// fetcher the adapter uses.
	Call func(ctx context.Context) (T, error)
}

// Run invokes primary and, when it fails for a reason a secondary source can
// compensate for, invokes secondary. The returned attempt list records every
// adapter invocation in order, with a warning on each degraded step; callers
// must surface these, they are provenance rather than logging.
func Run[T any](ctx context.Context, primary Step[T], secondary *Step[T]) (T, []models.SourceAttempt, error) {
	var zero T

	result, err := primary.Call(ctx)
	if err == nil {
		attempts := []models.SourceAttempt{{Adapter: primary.Name, Outcome: models.AttemptSuccess}}
		return result, attempts, nil
	}

	attempt := models.SourceAttempt{Adapter: primary.Name}
	var reason string
	switch {
	case errors.Is(err, fetch.ErrMissingCredential):
		attempt.Outcome = models.AttemptMissingCredential
		reason = "primary unavailable: missing credential"
	case errors.Is(err, fetch.ErrRetriesExhausted):
		attempt.Outcome = models.AttemptRetriesExhausted
		reason = "primary exhausted retries"
	default:
		attempt.Outcome = models.AttemptFailed
	}

	if secondary == nil || reason == "" {
		// Nothing to fall back to, or the failure is one a secondary source
		// cannot compensate for (e.g. a policy denial).
		attempt.Warning = fmt.Sprintf("%s failed: %v", primary.Name, err)
		return zero, []models.SourceAttempt{attempt}, err
	}

	attempt.Warning = reason
	attempts := []models.SourceAttempt{attempt}

	result, secErr := secondary.Call(ctx)
	if secErr != nil {
		attempts = append(attempts, models.SourceAttempt{
			Adapter: secondary.Name,
			Outcome: models.AttemptFailed,
			Warning: fmt.Sprintf("%s failed: %v", secondary.Name, secErr),
		})
		return zero, attempts, errors.Join(err, secErr)
	}

	attempts = append(attempts, models.SourceAttempt{Adapter: secondary.Name, Outcome: models.AttemptSuccess})
	return result, attempts, nil
}

// Warnings collects the non-empty warnings from an attempt list, in order.
func Warnings(attempts []models.SourceAttempt) []string {
	var out []string
	for _, a := range attempts {
		if a.Warning != "" {
			out = append(out, a.Warning)
		}
	}
	return out
}
