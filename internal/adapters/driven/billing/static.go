package billing

import (
	"context"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Ensure StaticPlanService implements the port
var _ driven.PlanService = (*StaticPlanService)(nil)

// StaticPlanService grants every user the same plan. Self-hosted
// deployments have no billing backend; limits come straight from
// configuration.
type StaticPlanService struct {
	plan domain.Plan
}

// NewStaticPlanService creates a plan service that always answers with
// the given plan. A zero-value plan falls back to the default limits.
func NewStaticPlanService(plan domain.Plan) *StaticPlanService {
	if plan.Tier == "" {
		plan = domain.DefaultPlan()
	}
	return &StaticPlanService{plan: plan}
}

// CheckAccess allows everyone under the configured plan.
func (s *StaticPlanService) CheckAccess(ctx context.Context, userID string) (*domain.PlanAccess, error) {
	return &domain.PlanAccess{Allowed: true, Plan: s.plan}, nil
}
