// Package ratelimit provides rate limiting for workspace API calls using a
// token bucket algorithm.
//
// One Gate instance is shared by every call site that talks to the workspace
// endpoints (panel open, manual refresh, poll tick, post-operation refresh),
// so the minimum spacing between issued requests holds no matter which
// trigger fired. The instance is injected explicitly rather than reached
// through package state; tests construct a fresh Gate per case.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Gate implements a token bucket rate limiter.
// It allows bursts up to the bucket capacity, then refills at a fixed rate.
type Gate struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens added per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewGate creates a gate that refills at tokensPerSecond and allows bursts
// up to burstSize requests.
func NewGate(tokensPerSecond, burstSize float64) *Gate {
	return &Gate{
		tokens:     burstSize, // start full
		maxTokens:  burstSize,
		refillRate: tokensPerSecond,
		lastRefill: time.Now(),
	}
}

// NewWorkspaceGate creates the gate shared by all workspace API calls.
// See constants.go for the scope rates.
func NewWorkspaceGate() *Gate {
	return NewGate(WorkspaceRatePerSec, WorkspaceBurstCapacity)
}

// Allow attempts to pass the gate without blocking. It is used by refresh
// triggers: a trigger that arrives while the bucket is empty is dropped, so
// a burst of triggers inside one spacing window collapses to a single
// issued request. The next poll tick picks up whatever the dropped trigger
// would have fetched.
func (g *Gate) Allow() bool {
	return g.tryAcquire()
}

// Wait blocks until a token is available or the context is cancelled. File
// operations use Wait rather than Allow: they must eventually run, spaced,
// not be silently dropped.
func (g *Gate) Wait(ctx context.Context) error {
	for {
		if g.tryAcquire() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.timeUntilNextToken()):
		}
	}
}

// tryAcquire refills the bucket for elapsed time and consumes one token if
// available.
func (g *Gate) tryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	g.tokens += now.Sub(g.lastRefill).Seconds() * g.refillRate
	if g.tokens > g.maxTokens {
		g.tokens = g.maxTokens
	}
	g.lastRefill = now

	if g.tokens >= 1.0 {
		g.tokens -= 1.0
		return true
	}
	return false
}

func (g *Gate) timeUntilNextToken() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	needed := 1.0 - g.tokens
	if needed <= 0 {
		return 0
	}
	return time.Duration(needed / g.refillRate * float64(time.Second))
}

// Tokens returns the current token count after refill. Test hook.
func (g *Gate) Tokens() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	tokens := g.tokens + time.Since(g.lastRefill).Seconds()*g.refillRate
	if tokens > g.maxTokens {
		tokens = g.maxTokens
	}
	return tokens
}

// Drain empties the bucket. Test hook for exercising the empty-bucket path
// without sleeping through the burst capacity.
func (g *Gate) Drain() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens = 0
	g.lastRefill = time.Now()
}
