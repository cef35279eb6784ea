package domain

import "time"

// AuthProviderType identifies how a user authenticates.
type AuthProviderType string

const (
	ProviderLocal  AuthProviderType = "LOCAL"
	ProviderGoogle AuthProviderType = "GOOGLE"
)

// User represents a person who books time and expenses, reviews submissions,
// or manages projects.
type User struct {
	UserID       string           `json:"userID"` // Primary Key (e.g., UUID)
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"`
	AuthProvider AuthProviderType `json:"authProvider"`
	// CostRate is the internal hourly cost of the user in minor currency units
	// per hour, used for budget burn. BillRate is the default client-facing
	// hourly rate used for time-and-materials billing.
	CostRate int64 `json:"costRate"`
	BillRate int64 `json:"billRate"`

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}
