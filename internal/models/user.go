package models

import (
	"database/sql"
	"time"
)

// User represents a user row. Rates are stored in minor currency units.
type User struct {
	UserID       string `json:"userID" db:"user_id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	AuthProvider string `json:"authProvider" db:"auth_provider"`
	CostRate     int64  `json:"costRate" db:"cost_rate"`
	BillRate     int64  `json:"billRate" db:"bill_rate"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
