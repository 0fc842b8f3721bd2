package domain

import "sync"

// RuntimeConfig tracks which services are available at runtime.
// This is determined at startup and can be updated dynamically when
// embedding credentials change. Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	RateLimitBackend string // "redis" or "memory"

	// Dynamic capability flag (updated when the embedding service changes)
	embeddingAvailable bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(rateLimitBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		RateLimitBackend: rateLimitBackend,
	}
}

// EmbeddingAvailable returns whether a deployment-default embedding
// service is available
func (c *RuntimeConfig) EmbeddingAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingAvailable
}

// SetEmbeddingAvailable updates the embedding availability flag
func (c *RuntimeConfig) SetEmbeddingAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
}

// CanDoSemanticSearch returns true if semantic search is possible
// without per-user credentials
func (c *RuntimeConfig) CanDoSemanticSearch() bool {
	return c.EmbeddingAvailable()
}
