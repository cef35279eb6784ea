package repositories

import (
	"context"
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByID retrieves a specific project by its ID.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjectsByOrganization retrieves a paginated list of projects using
	// token-based pagination.
	ListProjectsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Project, *string, error)
}

// ProjectWriter defines write operations for project data
type ProjectWriter interface {
	// SaveProject persists a new project.
	SaveProject(ctx context.Context, project domain.Project) error

	// UpdateProject updates an existing project's details, including its status.
	UpdateProject(ctx context.Context, project domain.Project) error
}

// TaskRepository defines operations for project tasks.
type TaskRepository interface {
	// FindTaskByID retrieves a specific task by its ID.
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)

	// ListTasksByProject retrieves all tasks for a project.
	ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error)

	// SaveTask persists a new task.
	SaveTask(ctx context.Context, task domain.Task) error

	// UpdateTask updates an existing task.
	UpdateTask(ctx context.Context, task domain.Task) error
}

// BookingRepository defines operations for resource bookings.
type BookingRepository interface {
	// ListBookingsByProject retrieves all bookings for a project.
	ListBookingsByProject(ctx context.Context, projectID string) ([]domain.Booking, error)

	// SaveBooking persists a new booking.
	SaveBooking(ctx context.Context, booking domain.Booking) error

	// CancelBookings marks the given bookings CANCELLED.
	CancelBookings(ctx context.Context, bookingIDs []string, updatedBy string, updatedAt time.Time) error
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
	TaskRepository
	BookingRepository
}
