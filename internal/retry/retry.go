// Package retry implements the exponential-backoff executor used around
// generation calls. A scored result below the quality threshold counts as an
// unsuccessful attempt, but exhausting attempts on a low score returns the
// most recent result instead of failing.
package retry

import (
	"context"
	"time"
)

// ScoredOperation produces a result and its quality score (0-10).
type ScoredOperation func(ctx context.Context) (string, float64, error)

// AttemptFunc is called before each backoff sleep with the attempt number
// that just finished and the delay about to be waited. Implementations must
// not panic; the executor does not guard against it.
type AttemptFunc func(attempt int, delay time.Duration)

// Executor retries scored operations with exponential backoff. A zero-value
// Executor is not usable; construct with New. One instance is stateless and
// safe to share across goroutines.
type Executor struct {
	MaxAttempts      int
	InitialDelay     time.Duration
	MaxDelay         time.Duration
	Multiplier       float64
	QualityThreshold float64
}

// New returns an Executor with the reference policy: 5 attempts, 1s initial
// delay, x2 multiplier, 30s cap, threshold 9.5.
func New() *Executor {
	return &Executor{
		MaxAttempts:      5,
		InitialDelay:     time.Second,
		MaxDelay:         30 * time.Second,
		Multiplier:       2.0,
		QualityThreshold: 9.5,
	}
}

// DelayFor returns the backoff delay associated with the given attempt
// number (1-based): min(initial * multiplier^(n-1), cap).
func (e *Executor) DelayFor(attempt int) time.Duration {
	delay := e.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * e.Multiplier)
		if delay > e.MaxDelay {
			return e.MaxDelay
		}
	}
	if delay > e.MaxDelay {
		return e.MaxDelay
	}
	return delay
}

// Do runs op until it yields a score at or above the quality threshold or
// attempts are exhausted. On exhaustion with a low score the most recent
// result is returned without error; on exhaustion with an error the error
// propagates. onAttempt may be nil.
func (e *Executor) Do(ctx context.Context, op ScoredOperation, onAttempt AttemptFunc) (string, float64, error) {
	for attempt := 1; ; attempt++ {
		value, score, err := op(ctx)
		if err == nil {
			if score >= e.QualityThreshold {
				return value, score, nil
			}
			if attempt >= e.MaxAttempts {
				// Out of attempts: best effort, not a failure.
				return value, score, nil
			}
		} else if attempt >= e.MaxAttempts {
			return "", 0, err
		}

		delay := e.DelayFor(attempt)
		if onAttempt != nil {
			onAttempt(attempt, delay)
		}
		select {
		case <-ctx.Done():
			return "", 0, ctx.Err()
		case <-time.After(delay):
		}
	}
}
