package models

import (
	"database/sql"
	"time"
)

// Organization represents a tenant row.
type Organization struct {
	OrganizationID      string         `db:"organization_id"`
	Name                string         `db:"name"`
	Description         string         `db:"description"`
	DefaultCurrencyCode sql.NullString `db:"default_currency_code"`
	IsActive            bool           `db:"is_active"`
	AuditFields
}

// UserOrganization represents the membership join row between users and organizations.
type UserOrganization struct {
	UserID         string    `db:"user_id"`
	OrganizationID string    `db:"organization_id"`
	Role           string    `db:"role"`
	JoinedAt       time.Time `db:"joined_at"`
	// UserName is joined in from users for list views; not a column on the join table.
	UserName string `db:"user_name"`
}

// Company represents a client company row.
type Company struct {
	CompanyID      string `db:"company_id"`
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	BillingEmail   string `db:"billing_email"`
	AuditFields
}
