package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure MockPlanService implements PlanService
var _ driven.PlanService = (*MockPlanService)(nil)

// MockPlanService is a mock implementation of PlanService for testing.
// It allows every user on the default plan unless configured otherwise.
type MockPlanService struct {
	mu     sync.RWMutex
	access map[string]*domain.PlanAccess
	err    error
}

// NewMockPlanService creates a new MockPlanService
func NewMockPlanService() *MockPlanService {
	return &MockPlanService{
		access: make(map[string]*domain.PlanAccess),
	}
}

func (m *MockPlanService) CheckAccess(ctx context.Context, userID string) (*domain.PlanAccess, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if access, ok := m.access[userID]; ok {
		copied := *access
		return &copied, nil
	}
	return &domain.PlanAccess{Allowed: true, Plan: domain.DefaultPlan()}, nil
}

// Helper methods for testing

// SetAccess overrides the answer for one user.
func (m *MockPlanService) SetAccess(userID string, access *domain.PlanAccess) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access[userID] = access
}

// SetErr makes CheckAccess fail for every user.
func (m *MockPlanService) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
