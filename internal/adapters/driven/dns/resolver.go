package dns

import (
	"context"
	"net"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure Resolver implements the port
var _ driven.Resolver = (*Resolver)(nil)

// Resolver adapts the standard library resolver to the Resolver port.
type Resolver struct {
	resolver *net.Resolver
}

// NewResolver creates a resolver backed by the system DNS configuration.
func NewResolver() *Resolver {
	return &Resolver{resolver: net.DefaultResolver}
}

// LookupHost resolves a hostname to its IP addresses.
func (r *Resolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return r.resolver.LookupHost(ctx, host)
}
