// Package retry runs an operation under a fixed-attempt, fixed-backoff policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Decision tells Do what to do after a failed attempt.
type Decision int

const (
	// Retry waits for the backoff interval and tries again while attempts remain.
	Retry Decision = iota
	// Stop returns the error immediately without further attempts.
	Stop
)

// Classifier decides whether an attempt error is worth retrying.
type Classifier func(err error) Decision

// Policy is the retry policy shared by page fetches and asset downloads.
type Policy struct {
	Attempts int
	Backoff  time.Duration
	Classify Classifier

	// OnRetry is called before waiting for the next attempt.
	OnRetry func(attempt int, err error)
}

// RetryAll classifies every error as retryable.
func RetryAll(error) Decision {
	return Retry
}

// Do calls op until it succeeds, the classifier stops it, or the attempt budget
// is spent. It returns the number of attempts made and the last error. No backoff
// follows the final attempt.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) (int, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	classify := p.Classify
	if classify == nil {
		classify = RetryAll
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op(ctx, attempt)
		if lastErr == nil {
			return attempt, nil
		}

		if classify(lastErr) == Stop || attempt == attempts {
			return attempt, lastErr
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr)
		}

		if err := sleep(ctx, p.Backoff); err != nil {
			return attempt, errors.Join(lastErr, fmt.Errorf("retry cancelled: %w", err))
		}
	}

	return attempts, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
