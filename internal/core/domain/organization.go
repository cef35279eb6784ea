package domain

import "time"

// Organization represents an isolated tenant containing companies, deals,
// projects, invoices, and activity records.
type Organization struct {
	OrganizationID      string  `json:"organizationID"` // Primary Key (e.g., UUID)
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"` // e.g. "USD"
	IsActive            bool    `json:"isActive"`
	AuditFields
}

// OrganizationRole defines the possible roles a user can have within an organization.
type OrganizationRole string

const (
	RoleAdmin    OrganizationRole = "ADMIN"
	RoleManager  OrganizationRole = "MANAGER" // May approve submissions and manage projects
	RoleMember   OrganizationRole = "MEMBER"
	RoleReadOnly OrganizationRole = "READONLY"
	RoleRemoved  OrganizationRole = "REMOVED" // For users who have been removed from the organization
)

// UserOrganization represents the membership of a User in an Organization.
type UserOrganization struct {
	UserID         string           `json:"userID"`
	UserName       string           `json:"userName"`
	OrganizationID string           `json:"organizationID"`
	Role           OrganizationRole `json:"role"`
	JoinedAt       time.Time        `json:"joinedAt"`
}

// Company represents a client company an organization sells to and bills.
type Company struct {
	CompanyID      string `json:"companyID"` // Primary Key (e.g., UUID)
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	BillingEmail   string `json:"billingEmail"`
	AuditFields
}
