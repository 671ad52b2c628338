// Package rate provides a token bucket rate limiter for controlling request rates.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter implements a token bucket rate limiter that controls the rate of operations.
// It supports both blocking (Wait) and non-blocking (Allow) modes.
type Limiter struct {
	rate   float64    // tokens per second
	burst  int        // maximum burst size (bucket capacity)
	mu     sync.Mutex // protects the following fields
	tokens float64    // current number of tokens
	last   time.Time  // last time tokens were updated
}

// New creates a new rate limiter with the specified rate (requests per second)
// and burst size.
//
// Example:
//
//	limiter := rate.New(10, 5) // 10 req/s, burst of 5
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst), // start with full bucket
		last:   time.Now(),
	}
}

// NewInterval creates a limiter that spaces operations at least d apart,
// including before the first one. Used for courtesy delays against public
// endpoints (geocoding, knowledge base, search providers).
func NewInterval(d time.Duration) *Limiter {
	if d <= 0 {
		d = time.Millisecond
	}
	return &Limiter{
		rate:   1.0 / d.Seconds(),
		burst:  1,
		tokens: 0, // empty bucket so the first Wait also delays
		last:   time.Now(),
	}
}

// Wait blocks until the limiter allows an operation to proceed or the context
// is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		waitTime := l.waitDuration()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
			// re-check on next iteration
		}
	}
}

// Allow reports whether an operation can proceed immediately.
// It consumes one token from the bucket if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())

	if l.tokens >= 1 {
		l.tokens--
		return true
	}

	return false
}

// Tokens returns the current number of available tokens.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	return l.tokens
}

// Reset refills the bucket to full capacity.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens = float64(l.burst)
	l.last = time.Now()
}

// advance updates the number of tokens based on elapsed time.
// Must be called with l.mu held.
func (l *Limiter) advance(now time.Time) {
	elapsed := now.Sub(l.last).Seconds()

	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}

	l.last = now
}

// waitDuration calculates how long to wait for the next token.
func (l *Limiter) waitDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())

	if l.tokens >= 1 {
		return 0
	}

	tokensNeeded := 1.0 - l.tokens
	secondsNeeded := tokensNeeded / l.rate

	return time.Duration(secondsNeeded * float64(time.Second))
}
