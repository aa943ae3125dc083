package worker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy defines exponential backoff parameters.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultStartupPolicy is used when opening the store and pinging redis at boot.
var DefaultStartupPolicy = RetryPolicy{
	MaxRetries:    5,
	InitialDelay:  500 * time.Millisecond,
	MaxDelay:      10 * time.Second,
	BackoffFactor: 2,
}

// NextDelay returns delay for a given attempt (1-based) with clamping.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}

	delay := float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1))
	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}

// Do calls fn until it succeeds, the retries are used up or ctx is done.
// fn runs once plus MaxRetries more times at most.
func Do(ctx context.Context, policy RetryPolicy, logger *zerolog.Logger, name string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= policy.MaxRetries {
			return fmt.Errorf("%s failed after %d attempts: %w", name, attempt+1, err)
		}

		delay := policy.NextDelay(attempt + 1)
		if logger != nil {
			logger.Warn().
				Err(err).
				Str("operation", name).
				Int("attempt", attempt+1).
				Dur("retry_in", delay).
				Msg("Operation failed, retrying")
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s aborted: %w", name, ctx.Err())
		case <-timer.C:
		}
	}
}
