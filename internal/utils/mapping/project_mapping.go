package mapping

import (
	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/models"
)

// ToModelProject converts a domain Project to a model Project
func ToModelProject(d domain.Project) models.Project {
	return models.Project{
		ProjectID:      d.ProjectID,
		OrganizationID: d.OrganizationID,
		CompanyID:      d.CompanyID,
		DealID:         nullString(d.DealID),
		Name:           d.Name,
		Status:         string(d.Status),
		BudgetID:       nullString(d.BudgetID),
		ManagerUserID:  d.ManagerUserID,
		StartDate:      d.StartDate,
		EndDate:        nullTime(d.EndDate),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProject converts a model Project to a domain Project
func ToDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:      m.ProjectID,
		OrganizationID: m.OrganizationID,
		CompanyID:      m.CompanyID,
		DealID:         stringPtr(m.DealID),
		Name:           m.Name,
		Status:         domain.ProjectStatus(m.Status),
		BudgetID:       stringPtr(m.BudgetID),
		ManagerUserID:  m.ManagerUserID,
		StartDate:      m.StartDate,
		EndDate:        timePtr(m.EndDate),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProjectSlice converts a slice of model Projects to a slice of domain Projects
func ToDomainProjectSlice(ms []models.Project) []domain.Project {
	ds := make([]domain.Project, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProject(m)
	}
	return ds
}

// ToModelTask converts a domain Task to a model Task
func ToModelTask(d domain.Task) models.Task {
	return models.Task{
		TaskID:         d.TaskID,
		OrganizationID: d.OrganizationID,
		ProjectID:      d.ProjectID,
		Name:           d.Name,
		Status:         string(d.Status),
		AssigneeUserID: nullString(d.AssigneeUserID),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTask converts a model Task to a domain Task
func ToDomainTask(m models.Task) domain.Task {
	return domain.Task{
		TaskID:         m.TaskID,
		OrganizationID: m.OrganizationID,
		ProjectID:      m.ProjectID,
		Name:           m.Name,
		Status:         domain.TaskStatus(m.Status),
		AssigneeUserID: stringPtr(m.AssigneeUserID),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBooking converts a domain Booking to a model Booking
func ToModelBooking(d domain.Booking) models.Booking {
	return models.Booking{
		BookingID:      d.BookingID,
		OrganizationID: d.OrganizationID,
		ProjectID:      d.ProjectID,
		UserID:         d.UserID,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		HoursPerDay:    d.HoursPerDay,
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBooking converts a model Booking to a domain Booking
func ToDomainBooking(m models.Booking) domain.Booking {
	return domain.Booking{
		BookingID:      m.BookingID,
		OrganizationID: m.OrganizationID,
		ProjectID:      m.ProjectID,
		UserID:         m.UserID,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		HoursPerDay:    m.HoursPerDay,
		Status:         domain.BookingStatus(m.Status),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
