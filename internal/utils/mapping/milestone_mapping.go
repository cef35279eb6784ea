package mapping

import (
	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/models"
)

// ToModelMilestone converts a domain Milestone to a model Milestone
func ToModelMilestone(d domain.Milestone) models.Milestone {
	return models.Milestone{
		MilestoneID:    d.MilestoneID,
		OrganizationID: d.OrganizationID,
		ProjectID:      d.ProjectID,
		Name:           d.Name,
		Amount:         d.Amount,
		Percentage:     d.Percentage,
		DueDate:        d.DueDate,
		CompletedAt:    nullTime(d.CompletedAt),
		InvoiceID:      nullString(d.InvoiceID),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMilestone converts a model Milestone to a domain Milestone
func ToDomainMilestone(m models.Milestone) domain.Milestone {
	return domain.Milestone{
		MilestoneID:    m.MilestoneID,
		OrganizationID: m.OrganizationID,
		ProjectID:      m.ProjectID,
		Name:           m.Name,
		Amount:         m.Amount,
		Percentage:     m.Percentage,
		DueDate:        m.DueDate,
		CompletedAt:    timePtr(m.CompletedAt),
		InvoiceID:      stringPtr(m.InvoiceID),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMilestoneSlice converts a slice of model Milestones to a slice of domain Milestones
func ToDomainMilestoneSlice(ms []models.Milestone) []domain.Milestone {
	ds := make([]domain.Milestone, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMilestone(m)
	}
	return ds
}

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:       d.BudgetID,
		OrganizationID: d.OrganizationID,
		ProjectID:      d.ProjectID,
		BudgetType:     string(d.Type),
		TotalAmount:    d.TotalAmount,
		RetainerAmount: d.RetainerAmount,
		IncludedHours:  d.IncludedHours,
		OverageRate:    d.OverageRate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:       m.BudgetID,
		OrganizationID: m.OrganizationID,
		ProjectID:      m.ProjectID,
		Type:           domain.BudgetType(m.BudgetType),
		TotalAmount:    m.TotalAmount,
		RetainerAmount: m.RetainerAmount,
		IncludedHours:  m.IncludedHours,
		OverageRate:    m.OverageRate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
