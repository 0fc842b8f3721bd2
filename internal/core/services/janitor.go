package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driving"
)

// janitorLockName coordinates sweeps across instances.
const janitorLockName = "janitor"

// Ensure janitor implements Janitor
var _ driving.Janitor = (*janitor)(nil)

// janitor periodically marks documents stuck in processing as failed.
// A client disconnecting mid-import leaves its in-flight page in
// processing forever; the sweep turns such rows into failure records so
// the URL becomes eligible for re-import.
//
// For multi-instance deployments, configure a DistributedLock so only
// one instance sweeps per cycle.
type janitor struct {
	documentStore driven.DocumentStore
	lock          driven.DistributedLock
	logger        *slog.Logger

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	interval   time.Duration
	staleAfter time.Duration

	// Lock configuration
	lockTTL      time.Duration
	lockRequired bool
}

// JanitorConfig holds configuration for the janitor.
type JanitorConfig struct {
	DocumentStore driven.DocumentStore
	Lock          driven.DistributedLock // Optional: multi-instance coordination
	Logger        *slog.Logger
	SweepInterval time.Duration // How often to sweep (default: 1m)
	StaleAfter    time.Duration // Processing age that counts as abandoned (default: 10m)
	LockTTL       time.Duration // TTL for the distributed lock (default: 2x sweep interval)
	LockRequired  bool          // If true, skip the sweep when the lock cannot be acquired
}

// NewJanitor creates a new janitor.
func NewJanitor(cfg JanitorConfig) driving.Janitor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.SweepInterval
	if interval == 0 {
		interval = time.Minute
	}

	staleAfter := cfg.StaleAfter
	if staleAfter == 0 {
		staleAfter = 10 * time.Minute
	}

	lockTTL := cfg.LockTTL
	if lockTTL == 0 {
		lockTTL = 2 * interval
	}

	lockRequired := cfg.LockRequired
	if cfg.Lock != nil && !cfg.LockRequired {
		// A provided lock defaults to required for safety
		lockRequired = true
	}

	return &janitor{
		documentStore: cfg.DocumentStore,
		lock:          cfg.Lock,
		logger:        logger,
		interval:      interval,
		staleAfter:    staleAfter,
		lockTTL:       lockTTL,
		lockRequired:  lockRequired,
	}
}

// Start begins the sweep loop.
// It runs until Stop is called or the context is cancelled.
func (j *janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = true
	j.stopCh = make(chan struct{})
	j.doneCh = make(chan struct{})
	j.mu.Unlock()

	j.logger.Info("janitor starting", "sweep_interval", j.interval, "stale_after", j.staleAfter)

	go j.run(ctx)

	return nil
}

// Stop gracefully stops the janitor, waiting for an in-flight sweep.
func (j *janitor) Stop(ctx context.Context) error {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return nil
	}
	close(j.stopCh)
	j.mu.Unlock()

	select {
	case <-j.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	j.mu.Lock()
	j.running = false
	j.mu.Unlock()

	j.logger.Info("janitor stopped")
	return nil
}

// run is the main sweep loop.
func (j *janitor) run(ctx context.Context) {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Sweep immediately on start
	j.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor context cancelled")
			return
		case <-j.stopCh:
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// sweep marks abandoned processing documents as failed.
// If a distributed lock is configured, it acquires the lock first so
// multiple instances do not sweep the same rows.
func (j *janitor) sweep(ctx context.Context) {
	if j.lock != nil {
		acquired, err := j.lock.Acquire(ctx, janitorLockName, j.lockTTL)
		if err != nil {
			j.logger.Warn("failed to acquire janitor lock", "error", err)
			if j.lockRequired {
				return // Skip this cycle
			}
		} else if !acquired {
			j.logger.Debug("janitor lock held by another instance, skipping cycle")
			return
		} else {
			defer func() {
				if err := j.lock.Release(ctx, janitorLockName); err != nil {
					j.logger.Warn("failed to release janitor lock", "error", err)
				}
			}()
		}
	}

	count, err := j.documentStore.FailStaleProcessing(ctx, j.staleAfter)
	if err != nil {
		j.logger.Error("failed to sweep stale documents", "error", err)
		return
	}

	if count > 0 {
		j.logger.Info("marked stale documents failed", "count", count)
	}
}
