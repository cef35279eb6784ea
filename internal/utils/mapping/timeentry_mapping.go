package mapping

import (
	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/models"
)

// ToModelTimeEntry converts a domain TimeEntry to a model TimeEntry
func ToModelTimeEntry(d domain.TimeEntry) models.TimeEntry {
	return models.TimeEntry{
		TimeEntryID:       d.TimeEntryID,
		OrganizationID:    d.OrganizationID,
		ProjectID:         d.ProjectID,
		UserID:            d.UserID,
		EntryDate:         d.Date,
		Hours:             d.Hours,
		Billable:          d.Billable,
		Description:       d.Description,
		Status:            string(d.Status),
		ApprovedBy:        nullString(d.ApprovedBy),
		ApprovedAt:        nullTime(d.ApprovedAt),
		RejectionComments: nullString(d.RejectionComments),
		InvoiceID:         nullString(d.InvoiceID),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTimeEntry converts a model TimeEntry to a domain TimeEntry
func ToDomainTimeEntry(m models.TimeEntry) domain.TimeEntry {
	return domain.TimeEntry{
		TimeEntryID:       m.TimeEntryID,
		OrganizationID:    m.OrganizationID,
		ProjectID:         m.ProjectID,
		UserID:            m.UserID,
		Date:              m.EntryDate,
		Hours:             m.Hours,
		Billable:          m.Billable,
		Description:       m.Description,
		Status:            domain.ApprovalStatus(m.Status),
		ApprovedBy:        stringPtr(m.ApprovedBy),
		ApprovedAt:        timePtr(m.ApprovedAt),
		RejectionComments: stringPtr(m.RejectionComments),
		InvoiceID:         stringPtr(m.InvoiceID),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTimeEntrySlice converts a slice of model TimeEntries to a slice of domain TimeEntries
func ToDomainTimeEntrySlice(ms []models.TimeEntry) []domain.TimeEntry {
	ds := make([]domain.TimeEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTimeEntry(m)
	}
	return ds
}
