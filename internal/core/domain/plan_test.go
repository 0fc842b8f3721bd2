package domain

import "testing"

func TestDefaultPlan(t *testing.T) {
	plan := DefaultPlan()

	if plan.Tier != "self-hosted" {
		t.Errorf("expected tier self-hosted, got %s", plan.Tier)
	}
	if plan.DocumentLimit != 1000 {
		t.Errorf("expected DocumentLimit 1000, got %d", plan.DocumentLimit)
	}
	if plan.DailyDocumentLimit != 200 {
		t.Errorf("expected DailyDocumentLimit 200, got %d", plan.DailyDocumentLimit)
	}
	if plan.MaxPagesPerImport != 50 {
		t.Errorf("expected MaxPagesPerImport 50, got %d", plan.MaxPagesPerImport)
	}
	if plan.ImportsPerHour != 10 {
		t.Errorf("expected ImportsPerHour 10, got %d", plan.ImportsPerHour)
	}
}

func TestPlan_EffectiveBudget(t *testing.T) {
	plan := Plan{
		DocumentLimit:      100,
		DailyDocumentLimit: 20,
		MaxPagesPerImport:  50,
	}

	tests := []struct {
		name      string
		requested int
		usedTotal int
		usedToday int
		expected  int
	}{
		{"requested within all limits", 10, 0, 0, 10},
		{"zero requested defaults to ceiling", 0, 0, 0, 20}, // Daily limit caps the ceiling
		{"requested above ceiling clamps to ceiling", 200, 0, 0, 20},
		{"total quota caps budget", 50, 95, 0, 5},
		{"daily quota caps budget", 50, 0, 18, 2},
		{"tighter of the two quotas wins", 50, 97, 18, 2},
		{"total quota exhausted", 10, 100, 0, 0},
		{"total quota overdrawn goes negative", 10, 105, 0, -5},
		{"daily quota exhausted", 10, 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plan.EffectiveBudget(tt.requested, tt.usedTotal, tt.usedToday)
			if got != tt.expected {
				t.Errorf("expected budget %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestPlanAccess(t *testing.T) {
	access := &PlanAccess{
		Allowed: false,
		Reason:  "subscription lapsed",
		Plan:    DefaultPlan(),
	}

	if access.Allowed {
		t.Error("expected Allowed to be false")
	}
	if access.Reason != "subscription lapsed" {
		t.Errorf("expected reason 'subscription lapsed', got %s", access.Reason)
	}
}
