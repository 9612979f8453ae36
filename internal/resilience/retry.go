// Package resilience provides retry with exponential backoff for the
// upstream clients (search, model, CRM). Only errors classified transient
// are retried; everything else surfaces immediately.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Backoff describes the retry schedule. The zero value is usable: Normalize
// fills in the defaults (3 attempts, 500ms base, 30s cap, factor 2).
type Backoff struct {
	// Attempts is the total number of tries including the first.
	Attempts int

	// Base is the delay before the first retry.
	Base time.Duration

	// Cap bounds the computed delay.
	Cap time.Duration

	// Factor scales the delay after each attempt.
	Factor float64

	// Jitter is the random spread applied to each delay, as a fraction
	// (0.25 means ±25%).
	Jitter float64
}

// Normalize returns b with zero fields replaced by defaults.
func (b Backoff) Normalize() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = 3
	}
	if b.Base <= 0 {
		b.Base = 500 * time.Millisecond
	}
	if b.Cap <= 0 {
		b.Cap = 30 * time.Second
	}
	if b.Factor <= 0 {
		b.Factor = 2.0
	}
	if b.Jitter < 0 {
		b.Jitter = 0
	}
	return b
}

func (b Backoff) delay(attempt int) time.Duration {
	d := float64(b.Base) * math.Pow(b.Factor, float64(attempt))
	if d > float64(b.Cap) {
		d = float64(b.Cap)
	}
	if b.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * b.Jitter
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// Retry runs fn under the backoff schedule, retrying transient errors until
// the attempts are exhausted or the context ends. The op label appears in the
// retry log lines.
func Retry[T any](ctx context.Context, b Backoff, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	b = b.Normalize()

	var zero T
	var lastErr error
	for attempt := 0; attempt < b.Attempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsTransient(err) || attempt >= b.Attempts-1 {
			break
		}

		zap.L().Warn("resilience: retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		timer := time.NewTimer(b.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}
