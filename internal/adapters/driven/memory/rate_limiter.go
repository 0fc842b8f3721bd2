package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure RateLimiter implements the port
var _ driven.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a process-local sliding-window limiter. Expired
// admissions are pruned lazily on each call instead of by a background
// sweep. State is lost on restart and not shared between replicas; use
// the Redis limiter for multi-instance deployments.
type RateLimiter struct {
	mu         sync.Mutex
	admissions map[string][]time.Time

	// now is swappable in tests
	now func() time.Time
}

// NewRateLimiter creates an in-memory rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		admissions: make(map[string][]time.Time),
		now:        time.Now,
	}
}

// TryAdmit records a new admission for userID unless limit admissions
// already happened within the trailing window.
func (l *RateLimiter) TryAdmit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(userID, now.Add(-window))
	if len(recent) >= limit {
		return false, nil
	}
	l.admissions[userID] = append(recent, now)
	return true, nil
}

// CountRecent returns the number of admissions for userID within the
// trailing window.
func (l *RateLimiter) CountRecent(ctx context.Context, userID string, window time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.prune(userID, l.now().Add(-window))), nil
}

// Ping always succeeds: the backend is this process.
func (l *RateLimiter) Ping(ctx context.Context) error {
	return nil
}

// prune drops admissions at or before cutoff and returns what remains.
// Callers must hold the mutex.
func (l *RateLimiter) prune(userID string, cutoff time.Time) []time.Time {
	entries := l.admissions[userID]
	recent := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	if len(recent) == 0 {
		delete(l.admissions, userID)
		return nil
	}
	l.admissions[userID] = recent
	return recent
}
