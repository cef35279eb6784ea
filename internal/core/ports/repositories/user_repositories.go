package repositories

import (
	"context"
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, for authentication.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsersByIDs retrieves multiple users keyed by id, for rate lookups.
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshTokenHash stores the hash and expiry of the user's current
	// refresh token; empty hash clears it (logout).
	UpdateRefreshTokenHash(ctx context.Context, userID string, tokenHash string, expiryTime *time.Time) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// MarkUserDeleted marks a user as deleted (soft delete).
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
