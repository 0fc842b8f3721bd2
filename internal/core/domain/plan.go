package domain

// Plan captures the import limits granted by a billing tier
type Plan struct {
	Tier               string `json:"tier"`
	DocumentLimit      int    `json:"document_limit"`       // Total documents a user may hold
	DailyDocumentLimit int    `json:"daily_document_limit"` // Documents per UTC calendar day
	MaxPagesPerImport  int    `json:"max_pages_per_import"` // Hard ceiling per crawl job
	ImportsPerHour     int    `json:"imports_per_hour"`     // Distinct crawl jobs per trailing hour
}

// PlanAccess is the billing collaborator's answer for one user
type PlanAccess struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Plan    Plan   `json:"plan"`
}

// DefaultPlan returns the self-hosted deployment's limits
func DefaultPlan() Plan {
	return Plan{
		Tier:               "self-hosted",
		DocumentLimit:      1000,
		DailyDocumentLimit: 200,
		MaxPagesPerImport:  50,
		ImportsPerHour:     10,
	}
}

// EffectiveBudget computes how many pages a crawl may index given the
// requested maximum and the user's remaining capacity. Zero or negative
// remaining capacity in either dimension means the import must be
// rejected outright rather than partially crawled.
func (p Plan) EffectiveBudget(requested, usedTotal, usedToday int) int {
	budget := requested
	if budget <= 0 || budget > p.MaxPagesPerImport {
		budget = p.MaxPagesPerImport
	}
	if remaining := p.DocumentLimit - usedTotal; remaining < budget {
		budget = remaining
	}
	if remainingDaily := p.DailyDocumentLimit - usedToday; remainingDaily < budget {
		budget = remainingDaily
	}
	return budget
}
