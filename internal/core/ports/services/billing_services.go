package services

import (
	"context"

	"github.com/tallyops/psa_backend/internal/dto"
)

// BillingCalculatorSvc computes invoice line items and totals from approved,
// billable source records. It never mutates anything; the invoice lifecycle
// consumes its output.
type BillingCalculatorSvc interface {
	// ComputeTimeAndMaterials aggregates approved billable time (grouped by
	// hourly rate) and approved billable expenses (markup applied per expense)
	// for the period.
	ComputeTimeAndMaterials(ctx context.Context, projectID string, period dto.BillingPeriod) (*dto.BillingComputation, error)

	// ComputeFixedFee bills the full budget, or round(totalAmount*pct/100)
	// when a percentage is given. Always exactly one line item.
	ComputeFixedFee(ctx context.Context, projectID string, percentage *float64) (*dto.BillingComputation, error)

	// ComputeMilestone bills a completed, not-yet-invoiced milestone.
	ComputeMilestone(ctx context.Context, milestoneID string) (*dto.BillingComputation, error)

	// ComputeRecurring bills the retainer base amount plus an overage line when
	// hours consumed in the period exceed the included allowance.
	ComputeRecurring(ctx context.Context, projectID string, period dto.BillingPeriod) (*dto.BillingComputation, error)
}
