package driven

import (
	"context"
	"time"
)

// RateLimiter caps how many crawl jobs a user may start in a trailing
// window. Implementations track distinct job admissions, not pages.
type RateLimiter interface {
	// TryAdmit records a new crawl job for the user if fewer than limit
	// jobs were admitted within the trailing window. Returns true when
	// the job was admitted.
	TryAdmit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error)

	// CountRecent returns how many jobs the user was admitted for within
	// the trailing window
	CountRecent(ctx context.Context, userID string, window time.Duration) (int, error)

	// Ping checks if the limiter backend is healthy
	Ping(ctx context.Context) error
}
