package driven

import (
	"context"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

// PlanService is the billing collaborator. It answers whether a user's
// subscription allows imports and what limits apply.
type PlanService interface {
	// CheckAccess returns the user's plan access decision and limits
	CheckAccess(ctx context.Context, userID string) (*domain.PlanAccess, error)
}
