package models

import (
	"database/sql"
	"time"
)

// Project represents a delivery engagement row.
type Project struct {
	ProjectID      string         `db:"project_id"`
	OrganizationID string         `db:"organization_id"`
	CompanyID      string         `db:"company_id"`
	DealID         sql.NullString `db:"deal_id"`
	Name           string         `db:"name"`
	Status         string         `db:"status"`
	BudgetID       sql.NullString `db:"budget_id"`
	ManagerUserID  string         `db:"manager_user_id"`
	StartDate      time.Time      `db:"start_date"`
	EndDate        sql.NullTime   `db:"end_date"`
	AuditFields
}

// Task represents a project task row.
type Task struct {
	TaskID         string         `db:"task_id"`
	OrganizationID string         `db:"organization_id"`
	ProjectID      string         `db:"project_id"`
	Name           string         `db:"name"`
	Status         string         `db:"status"`
	AssigneeUserID sql.NullString `db:"assignee_user_id"`
	AuditFields
}

// Booking represents a resource booking row.
type Booking struct {
	BookingID      string    `db:"booking_id"`
	OrganizationID string    `db:"organization_id"`
	ProjectID      string    `db:"project_id"`
	UserID         string    `db:"user_id"`
	StartDate      time.Time `db:"start_date"`
	EndDate        time.Time `db:"end_date"`
	HoursPerDay    float64   `db:"hours_per_day"`
	Status         string    `db:"status"`
	AuditFields
}
