package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure MockRateLimiter implements RateLimiter
var _ driven.RateLimiter = (*MockRateLimiter)(nil)

// MockRateLimiter is a mock implementation of RateLimiter for testing.
// It tracks admissions in memory with real timestamps.
type MockRateLimiter struct {
	mu         sync.Mutex
	admissions map[string][]time.Time

	// Custom behavior hooks (optional)
	TryAdmitFn func(userID string, limit int, window time.Duration) (bool, error)
}

// NewMockRateLimiter creates a new MockRateLimiter
func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{
		admissions: make(map[string][]time.Time),
	}
}

func (m *MockRateLimiter) TryAdmit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error) {
	if m.TryAdmitFn != nil {
		return m.TryAdmitFn(userID, limit, window)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	recent := m.pruneLocked(userID, window)
	if len(recent) >= limit {
		return false, nil
	}
	m.admissions[userID] = append(recent, time.Now())
	return true, nil
}

func (m *MockRateLimiter) CountRecent(ctx context.Context, userID string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pruneLocked(userID, window)), nil
}

func (m *MockRateLimiter) Ping(ctx context.Context) error {
	return nil
}

func (m *MockRateLimiter) pruneLocked(userID string, window time.Duration) []time.Time {
	cutoff := time.Now().Add(-window)
	var recent []time.Time
	for _, at := range m.admissions[userID] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}
	m.admissions[userID] = recent
	return recent
}

// Helper methods for testing

func (m *MockRateLimiter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admissions = make(map[string][]time.Time)
}
