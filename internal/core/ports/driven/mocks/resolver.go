package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure MockResolver implements Resolver
var _ driven.Resolver = (*MockResolver)(nil)

// MockResolver is a fake DNS resolver for testing
type MockResolver struct {
	mu    sync.RWMutex
	hosts map[string][]string
}

// NewMockResolver creates a resolver with a fixed host table
func NewMockResolver(hosts map[string][]string) *MockResolver {
	if hosts == nil {
		hosts = make(map[string][]string)
	}
	return &MockResolver{hosts: hosts}
}

func (m *MockResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ips, ok := m.hosts[host]
	if !ok {
		return nil, fmt.Errorf("lookup %s: no such host", host)
	}
	return ips, nil
}

// SetHost adds or replaces a host entry
func (m *MockResolver) SetHost(host string, ips []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hosts[host] = ips
}
