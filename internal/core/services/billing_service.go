package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
	"github.com/tallyops/psa_backend/internal/utils/money"
)

// billingService computes invoice line items from approved billable work.
// It is read-only: the invoice lifecycle persists its output.
type billingService struct {
	timeEntryRepo portsrepo.TimeEntryReader
	expenseRepo   portsrepo.ExpenseReader
	milestoneRepo portsrepo.MilestoneReader
	budgetRepo    portsrepo.BudgetRepository
	userRepo      portsrepo.UserReader
}

// NewBillingService creates a new BillingService.
func NewBillingService(
	timeEntryRepo portsrepo.TimeEntryReader,
	expenseRepo portsrepo.ExpenseReader,
	milestoneRepo portsrepo.MilestoneReader,
	budgetRepo portsrepo.BudgetRepository,
	userRepo portsrepo.UserReader,
) portssvc.BillingCalculatorSvc {
	return &billingService{
		timeEntryRepo: timeEntryRepo,
		expenseRepo:   expenseRepo,
		milestoneRepo: milestoneRepo,
		budgetRepo:    budgetRepo,
		userRepo:      userRepo,
	}
}

var _ portssvc.BillingCalculatorSvc = (*billingService)(nil)

// ComputeTimeAndMaterials aggregates approved billable time entries, grouped
// by the performing user's hourly bill rate, plus approved billable expenses
// with markup applied per expense. Entries already locked to an invoice never
// reach this because approved-and-uninvoiced is what the repository returns.
func (s *billingService) ComputeTimeAndMaterials(ctx context.Context, projectID string, period dto.BillingPeriod) (*dto.BillingComputation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, err := s.timeEntryRepo.ListApprovedTimeEntriesInPeriod(ctx, projectID, period.From, period.To, true)
	if err != nil {
		logger.Error("Failed to list approved time entries for billing", "error", err)
		return nil, fmt.Errorf("failed to retrieve time entries: %w", err)
	}

	// Resolve bill rates for every user who logged time.
	userIDs := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.UserID]; !ok {
			seen[e.UserID] = struct{}{}
			userIDs = append(userIDs, e.UserID)
		}
	}

	var users map[string]domain.User
	if len(userIDs) > 0 {
		users, err = s.userRepo.FindUsersByIDs(ctx, userIDs)
		if err != nil {
			logger.Error("Failed to resolve bill rates for billing", "error", err)
			return nil, fmt.Errorf("failed to resolve bill rates: %w", err)
		}
	}

	// Group hours by bill rate so work at the same rate folds into one line.
	type rateGroup struct {
		hours float64
		ids   []string
	}
	groups := make(map[int64]*rateGroup)
	for _, e := range entries {
		user, ok := users[e.UserID]
		if !ok {
			return nil, fmt.Errorf("%w: user %s for time entry %s", apperrors.ErrNotFound, e.UserID, e.TimeEntryID)
		}
		g, ok := groups[user.BillRate]
		if !ok {
			g = &rateGroup{}
			groups[user.BillRate] = g
		}
		g.hours += e.Hours
		g.ids = append(g.ids, e.TimeEntryID)
	}

	rates := make([]int64, 0, len(groups))
	for rate := range groups {
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i] < rates[j] })

	var lines []domain.InvoiceLineItem
	var subtotal int64
	for _, rate := range rates {
		g := groups[rate]
		amount := money.HoursTimesRate(g.hours, rate)
		lines = append(lines, domain.InvoiceLineItem{
			LineItemID:   uuid.NewString(),
			Description:  fmt.Sprintf("Professional services: %.2f hours", g.hours),
			Quantity:     g.hours,
			Rate:         rate,
			Amount:       amount,
			TimeEntryIDs: g.ids,
		})
		subtotal += amount
	}

	expenses, err := s.expenseRepo.ListApprovedExpensesInPeriod(ctx, projectID, period.From, period.To, true)
	if err != nil {
		logger.Error("Failed to list approved expenses for billing", "error", err)
		return nil, fmt.Errorf("failed to retrieve expenses: %w", err)
	}

	for _, exp := range expenses {
		billed := money.ApplyMarkup(exp.Amount, exp.MarkupRate)
		desc := exp.Description
		if desc == "" {
			desc = fmt.Sprintf("Expense: %s", exp.Type)
		}
		lines = append(lines, domain.InvoiceLineItem{
			LineItemID:  uuid.NewString(),
			Description: desc,
			Quantity:    1,
			Rate:        billed,
			Amount:      billed,
			ExpenseIDs:  []string{exp.ExpenseID},
		})
		subtotal += billed
	}

	logger.Debug("Time and materials computed", "lines", len(lines), "subtotal", subtotal)
	return &dto.BillingComputation{LineItems: lines, Subtotal: subtotal}, nil
}

// ComputeFixedFee bills the project's fixed-fee budget, in full or as a
// percentage of it. The result is always exactly one line item.
func (s *billingService) ComputeFixedFee(ctx context.Context, projectID string, percentage *float64) (*dto.BillingComputation, error) {
	budget, err := s.budgetRepo.FindBudgetByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget for project %s: %w", projectID, err)
	}
	if budget.Type != domain.BudgetFixedFee {
		return nil, fmt.Errorf("%w: project budget type is %s, expected %s", apperrors.ErrValidation, budget.Type, domain.BudgetFixedFee)
	}

	amount := budget.TotalAmount
	description := "Fixed fee"
	if percentage != nil {
		if *percentage <= 0 || *percentage > 100 {
			return nil, fmt.Errorf("%w: fixed fee percentage must be in (0, 100]", apperrors.ErrValidation)
		}
		amount = money.PercentOf(budget.TotalAmount, *percentage)
		description = fmt.Sprintf("Fixed fee (%.0f%% of total)", *percentage)
	}

	line := domain.InvoiceLineItem{
		LineItemID:  uuid.NewString(),
		Description: description,
		Quantity:    1,
		Rate:        amount,
		Amount:      amount,
	}
	return &dto.BillingComputation{LineItems: []domain.InvoiceLineItem{line}, Subtotal: amount}, nil
}

// ComputeMilestone bills a completed milestone that has not been invoiced
// before. A milestone already carrying an invoice id fails with
// ErrAlreadyInvoiced no matter the state of that invoice.
func (s *billingService) ComputeMilestone(ctx context.Context, milestoneID string) (*dto.BillingComputation, error) {
	milestone, err := s.milestoneRepo.FindMilestoneByID(ctx, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to find milestone %s: %w", milestoneID, err)
	}

	if milestone.InvoiceID != nil {
		return nil, fmt.Errorf("%w: milestone %s is already on invoice %s", apperrors.ErrAlreadyInvoiced, milestoneID, *milestone.InvoiceID)
	}
	if milestone.CompletedAt == nil {
		return nil, fmt.Errorf("%w: milestone %s is not completed", apperrors.ErrInvalidState, milestoneID)
	}

	line := domain.InvoiceLineItem{
		LineItemID:  uuid.NewString(),
		Description: fmt.Sprintf("Milestone: %s", milestone.Name),
		Quantity:    1,
		Rate:        milestone.Amount,
		Amount:      milestone.Amount,
		MilestoneID: &milestone.MilestoneID,
	}
	return &dto.BillingComputation{LineItems: []domain.InvoiceLineItem{line}, Subtotal: milestone.Amount}, nil
}

// ComputeRecurring bills the retainer base amount plus an overage line when
// approved hours in the period exceed the included allowance. Usage at or
// under the allowance yields the base line only, never a credit.
func (s *billingService) ComputeRecurring(ctx context.Context, projectID string, period dto.BillingPeriod) (*dto.BillingComputation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	budget, err := s.budgetRepo.FindBudgetByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget for project %s: %w", projectID, err)
	}
	if budget.Type != domain.BudgetRetainer {
		return nil, fmt.Errorf("%w: project budget type is %s, expected %s", apperrors.ErrValidation, budget.Type, domain.BudgetRetainer)
	}

	entries, err := s.timeEntryRepo.ListApprovedTimeEntriesInPeriod(ctx, projectID, period.From, period.To, false)
	if err != nil {
		logger.Error("Failed to list approved time entries for retainer billing", "error", err)
		return nil, fmt.Errorf("failed to retrieve time entries: %w", err)
	}

	usedHours := 0.0
	entryIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		usedHours += e.Hours
		entryIDs = append(entryIDs, e.TimeEntryID)
	}

	lines := []domain.InvoiceLineItem{{
		LineItemID:  uuid.NewString(),
		Description: fmt.Sprintf("Retainer (%.0f hours included)", budget.IncludedHours),
		Quantity:    1,
		Rate:        budget.RetainerAmount,
		Amount:      budget.RetainerAmount,
	}}
	subtotal := budget.RetainerAmount

	if usedHours > budget.IncludedHours {
		overage := usedHours - budget.IncludedHours
		amount := money.HoursTimesRate(overage, budget.OverageRate)
		lines = append(lines, domain.InvoiceLineItem{
			LineItemID:   uuid.NewString(),
			Description:  fmt.Sprintf("Overage: %.2f hours beyond retainer", overage),
			Quantity:     overage,
			Rate:         budget.OverageRate,
			Amount:       amount,
			TimeEntryIDs: entryIDs,
		})
		subtotal += amount
	}

	logger.Debug("Recurring billing computed", "used_hours", usedHours, "subtotal", subtotal)
	return &dto.BillingComputation{LineItems: lines, Subtotal: subtotal}, nil
}
