// ratelimit.go is a courtesy client-side throttle for the REST façade.
//
// spec.md documents no published rate limit for this exchange (unlike the
// teacher's Polymarket CLOB, whose limits internal/exchange/ratelimit.go
// encodes numerically) — this adapts the *mechanism*, a continuously
// refilling token bucket, rather than inventing exchange-specific numbers
// that appear nowhere in spec.md or original_source/. NewClient installs
// DefaultRequestLimiter on every Client; the limiter is not settable from
// outside this package.
package rest

import (
	"context"
	"sync"
	"time"
)

// RequestLimiter implements a token-bucket rate limiter with continuous
// refill, throttling outbound REST calls. Callers block in Wait() until a
// token is available or the context is cancelled.
type RequestLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64 // tokens refilled per second
	lastTime time.Time
}

// NewRequestLimiter creates a rate limiter with the given capacity and
// refill rate.
func NewRequestLimiter(capacity, ratePerSecond float64) *RequestLimiter {
	return &RequestLimiter{
		tokens:   capacity,
		capacity: capacity,
		rate:     ratePerSecond,
		lastTime: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (tb *RequestLimiter) Wait(ctx context.Context) error {
	for {
		tb.mu.Lock()
		now := time.Now()
		elapsed := now.Sub(tb.lastTime).Seconds()
		tb.tokens += elapsed * tb.rate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastTime = now

		if tb.tokens >= 1 {
			tb.tokens--
			tb.mu.Unlock()
			return nil
		}

		wait := time.Duration((1 - tb.tokens) / tb.rate * float64(time.Second))
		tb.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// DefaultRequestLimiter is a conservative default: 20 requests burst, 10/s
// sustained. NewClient uses it for every Client.
func DefaultRequestLimiter() *RequestLimiter {
	return NewRequestLimiter(20, 10)
}
