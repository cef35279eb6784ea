package domain

import "time"

// ProjectStatus is the delivery state of a project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "PLANNING"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// Project represents a delivery engagement, usually created from a won deal.
type Project struct {
	ProjectID      string        `json:"projectID"`      // Primary Key (e.g., UUID)
	OrganizationID string        `json:"organizationID"` // FK -> organizations.organization_id (Not Null)
	CompanyID      string        `json:"companyID"`
	DealID         *string       `json:"dealID,omitempty"` // Originating deal, when created from one
	Name           string        `json:"name"`
	Status         ProjectStatus `json:"status"`
	BudgetID       *string       `json:"budgetID,omitempty"`
	ManagerUserID  string        `json:"managerUserID"`
	StartDate      time.Time     `json:"startDate"`
	EndDate        *time.Time    `json:"endDate,omitempty"` // Planned end
	AuditFields
}

// TaskStatus is the state of a project task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
	TaskOnHold     TaskStatus = "ON_HOLD"
)

// BlocksClosure reports whether a task in this status prevents project closure.
// Only DONE and ON_HOLD tasks are acceptable at close time.
func (s TaskStatus) BlocksClosure() bool {
	return s != TaskDone && s != TaskOnHold
}

// Task is a unit of project work tracked for the closure checklist.
type Task struct {
	TaskID         string     `json:"taskID"` // Primary Key (e.g., UUID)
	OrganizationID string     `json:"organizationID"`
	ProjectID      string     `json:"projectID"` // FK -> projects.project_id (Not Null)
	Name           string     `json:"name"`
	Status         TaskStatus `json:"status"`
	AssigneeUserID *string    `json:"assigneeUserID,omitempty"`
	AuditFields
}

// BookingStatus is the state of a resource booking.
type BookingStatus string

const (
	BookingScheduled BookingStatus = "SCHEDULED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is a scheduled resource allocation on a project. Future bookings are
// reported by the closure checklist and cancelled only by an explicit call.
type Booking struct {
	BookingID      string        `json:"bookingID"` // Primary Key (e.g., UUID)
	OrganizationID string        `json:"organizationID"`
	ProjectID      string        `json:"projectID"` // FK -> projects.project_id (Not Null)
	UserID         string        `json:"userID"`
	StartDate      time.Time     `json:"startDate"`
	EndDate        time.Time     `json:"endDate"`
	HoursPerDay    float64       `json:"hoursPerDay"`
	Status         BookingStatus `json:"status"`
	AuditFields
}
