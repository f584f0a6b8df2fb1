package utils

import (
	"fmt"
	"time"
)

// RetryConfig retries startup infrastructure calls (Redis ping, schema
// creation) with doubling delays. Scheduled fetches are never retried
// within a tick, so nothing in the pipeline path uses this.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do runs fn until it succeeds or MaxAttempts is exhausted, doubling
// the delay between attempts. Returns the last error wrapped with the
// operation name.
func (r *RetryConfig) Do(op string, fn func() error) error {
	delay := r.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= r.MaxAttempts {
			return fmt.Errorf("%s failed after %d attempts: %w", op, r.MaxAttempts, err)
		}
		r.Logger.Warn("%s attempt %d/%d failed: %v (next try in %v)",
			op, attempt, r.MaxAttempts, err, delay)
		time.Sleep(delay)
		delay *= 2
	}
}
