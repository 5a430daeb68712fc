package httpapi

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig controls the backoff schedule for retried calls.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig returns the schedule used when nothing is configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     5,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     32 * time.Second,
		Multiplier:     2.0,
	}
}

// Backoff computes the wait before the given attempt:
// min(initial * multiplier^attempt, max) with ±25% jitter.
func Backoff(attempt int, config RetryConfig) time.Duration {
	wait := float64(config.InitialBackoff) * math.Pow(config.Multiplier, float64(attempt))
	if wait > float64(config.MaxBackoff) {
		wait = float64(config.MaxBackoff)
	}

	jitterRange := 0.25 * wait
	wait += (rand.Float64() * 2 * jitterRange) - jitterRange

	if wait > float64(config.MaxBackoff) {
		wait = float64(config.MaxBackoff)
	}
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

// Retryable reports whether err is a retryable API error. Anything that
// is not a typed *Error is treated as permanent.
func Retryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}

// Operation is a single attempt of a retried call.
type Operation func(ctx context.Context) error

// Retry runs the operation until it succeeds, fails permanently, the
// retry budget is spent, or the context is cancelled.
func Retry(ctx context.Context, operation Operation, config RetryConfig) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !Retryable(err) || attempt >= config.MaxRetries {
			return err
		}

		select {
		case <-time.After(Backoff(attempt, config)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
