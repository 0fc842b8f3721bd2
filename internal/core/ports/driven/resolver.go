package driven

import "context"

// Resolver performs DNS resolution for URL validation.
// Abstracted so tests can fake lookups without touching the network.
type Resolver interface {
	// LookupHost resolves a hostname to its IP addresses
	LookupHost(ctx context.Context, host string) ([]string, error)
}
