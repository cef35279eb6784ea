package dto

import (
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// --- Project DTOs ---

// CreateProjectRequest defines data for creating a new project. DealID, when
// set, links the project to the WON deal it originated from.
type CreateProjectRequest struct {
	Name          string     `json:"name" binding:"required"`
	CompanyID     string     `json:"companyID" binding:"required"`
	DealID        *string    `json:"dealID"`
	ManagerUserID string     `json:"managerUserID" binding:"required"`
	StartDate     time.Time  `json:"startDate" binding:"required"`
	EndDate       *time.Time `json:"endDate"`
}

// ListProjectsParams defines query parameters for listing projects.
type ListProjectsParams struct {
	Status    *domain.ProjectStatus `form:"status"`
	Limit     int                   `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string                `form:"nextToken"`
}

// ProjectResponse defines data returned for a project.
type ProjectResponse struct {
	ProjectID     string               `json:"projectID"`
	Name          string               `json:"name"`
	CompanyID     string               `json:"companyID"`
	DealID        *string              `json:"dealID,omitempty"`
	BudgetID      *string              `json:"budgetID,omitempty"`
	ManagerUserID string               `json:"managerUserID"`
	Status        domain.ProjectStatus `json:"status"`
	StartDate     time.Time            `json:"startDate"`
	EndDate       *time.Time           `json:"endDate,omitempty"`
}

// ListProjectsResponse wraps a page of projects.
type ListProjectsResponse struct {
	Projects  []ProjectResponse `json:"projects"`
	NextToken string            `json:"nextToken,omitempty"`
}

// ToProjectResponse converts domain.Project to DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:     p.ProjectID,
		Name:          p.Name,
		CompanyID:     p.CompanyID,
		DealID:        p.DealID,
		BudgetID:      p.BudgetID,
		ManagerUserID: p.ManagerUserID,
		Status:        p.Status,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
	}
}

// ToListProjectsResponse converts a page of projects to the list DTO.
func ToListProjectsResponse(projects []domain.Project, nextToken string) *ListProjectsResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, ToProjectResponse(&projects[i]))
	}
	return &ListProjectsResponse{Projects: out, NextToken: nextToken}
}

// --- Task DTOs ---

// CreateTaskRequest defines data for creating a project task.
type CreateTaskRequest struct {
	ProjectID      string  `json:"projectID" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	AssigneeUserID *string `json:"assigneeUserID"`
}

// TaskResponse defines data returned for a task.
type TaskResponse struct {
	TaskID         string            `json:"taskID"`
	ProjectID      string            `json:"projectID"`
	Name           string            `json:"name"`
	AssigneeUserID *string           `json:"assigneeUserID,omitempty"`
	Status         domain.TaskStatus `json:"status"`
}

// ToTaskResponse converts domain.Task to DTO.
func ToTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:         t.TaskID,
		ProjectID:      t.ProjectID,
		Name:           t.Name,
		AssigneeUserID: t.AssigneeUserID,
		Status:         t.Status,
	}
}

// --- Booking DTOs ---

// CreateBookingRequest defines data for booking a user onto a project.
type CreateBookingRequest struct {
	ProjectID   string    `json:"projectID" binding:"required"`
	UserID      string    `json:"userID" binding:"required"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	HoursPerDay float64   `json:"hoursPerDay" binding:"required,gt=0,lte=24"`
}

// BookingResponse defines data returned for a booking.
type BookingResponse struct {
	BookingID   string               `json:"bookingID"`
	ProjectID   string               `json:"projectID"`
	UserID      string               `json:"userID"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     time.Time            `json:"endDate"`
	HoursPerDay float64              `json:"hoursPerDay"`
	Status      domain.BookingStatus `json:"status"`
}

// ToBookingResponse converts domain.Booking to DTO.
func ToBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:   b.BookingID,
		ProjectID:   b.ProjectID,
		UserID:      b.UserID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		HoursPerDay: b.HoursPerDay,
		Status:      b.Status,
	}
}

// --- Milestone DTOs ---

// CreateMilestoneRequest defines data for creating a milestone.
type CreateMilestoneRequest struct {
	ProjectID  string    `json:"projectID" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Amount     int64     `json:"amount" binding:"required,gt=0"`
	Percentage float64   `json:"percentage" binding:"min=0,max=100"`
	DueDate    time.Time `json:"dueDate" binding:"required"`
}

// MilestoneResponse defines data returned for a milestone.
type MilestoneResponse struct {
	MilestoneID string     `json:"milestoneID"`
	ProjectID   string     `json:"projectID"`
	Name        string     `json:"name"`
	Amount      int64      `json:"amount"`
	Percentage  float64    `json:"percentage"`
	DueDate     time.Time  `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	InvoiceID   *string    `json:"invoiceID,omitempty"`
}

// ToMilestoneResponse converts domain.Milestone to DTO.
func ToMilestoneResponse(m *domain.Milestone) MilestoneResponse {
	return MilestoneResponse{
		MilestoneID: m.MilestoneID,
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Amount:      m.Amount,
		Percentage:  m.Percentage,
		DueDate:     m.DueDate,
		CompletedAt: m.CompletedAt,
		InvoiceID:   m.InvoiceID,
	}
}

// --- Budget DTOs ---

// CreateBudgetRequest defines data for attaching a budget to a project.
// RetainerAmount, IncludedHours and OverageRate only apply to RETAINER.
type CreateBudgetRequest struct {
	ProjectID      string            `json:"projectID" binding:"required"`
	Type           domain.BudgetType `json:"type" binding:"required"`
	TotalAmount    int64             `json:"totalAmount" binding:"required,gt=0"`
	RetainerAmount int64             `json:"retainerAmount" binding:"min=0"`
	IncludedHours  float64           `json:"includedHours" binding:"min=0"`
	OverageRate    int64             `json:"overageRate" binding:"min=0"`
}

// BudgetResponse defines data returned for a budget.
type BudgetResponse struct {
	BudgetID       string            `json:"budgetID"`
	ProjectID      string            `json:"projectID"`
	Type           domain.BudgetType `json:"type"`
	TotalAmount    int64             `json:"totalAmount"`
	RetainerAmount int64             `json:"retainerAmount,omitempty"`
	IncludedHours  float64           `json:"includedHours,omitempty"`
	OverageRate    int64             `json:"overageRate,omitempty"`
}

// ToBudgetResponse converts domain.Budget to DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:       b.BudgetID,
		ProjectID:      b.ProjectID,
		Type:           b.Type,
		TotalAmount:    b.TotalAmount,
		RetainerAmount: b.RetainerAmount,
		IncludedHours:  b.IncludedHours,
		OverageRate:    b.OverageRate,
	}
}

// --- Financials DTOs ---

// BudgetBurnResponse reports budget consumption from approved internal cost.
// BurnPercentage is a whole-number percentage rounded half away from zero.
type BudgetBurnResponse struct {
	ProjectID      string  `json:"projectID"`
	BudgetAmount   int64   `json:"budgetAmount"`
	ConsumedCost   int64   `json:"consumedCost"`
	BurnPercentage int64   `json:"burnPercentage"`
	ApprovedHours  float64 `json:"approvedHours"`
	OverBudget     bool    `json:"overBudget"`
}

// ProjectMetricsResponse aggregates a project's financial outcome as of a
// chosen date. Revenue counts PAID invoices only.
type ProjectMetricsResponse struct {
	ProjectID        string  `json:"projectID"`
	Revenue          int64   `json:"revenue"`
	Cost             int64   `json:"cost"`
	Profit           int64   `json:"profit"`
	MarginPercentage int64   `json:"marginPercentage"`
	TotalHours       float64 `json:"totalHours"`
	DurationDays     int     `json:"durationDays"`
}

// ClosureChecklistResponse evaluates whether a project can be closed.
// CanClose reflects the hard gates only; warnings never block.
type ClosureChecklistResponse struct {
	ProjectID            string   `json:"projectID"`
	CanClose             bool     `json:"canClose"`
	OpenTasks            int      `json:"openTasks"`
	UnapprovedTimeCount  int      `json:"unapprovedTimeCount"`
	UnapprovedExpenses   int      `json:"unapprovedExpenses"`
	UninvoicedBillables  int      `json:"uninvoicedBillables"`
	UninvoicedMilestones int      `json:"uninvoicedMilestones"`
	UnpaidInvoices       int      `json:"unpaidInvoices"`
	UnpaidAmount         int64    `json:"unpaidAmount"`
	FutureBookings       int      `json:"futureBookings"`
	Warnings             []string `json:"warnings"`
}
