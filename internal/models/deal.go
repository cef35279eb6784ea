package models

import "time"

// Deal represents a sales pipeline row. Stage values come from the domain
// stage graph; the column itself is a plain varchar.
type Deal struct {
	DealID         string     `db:"deal_id"`
	OrganizationID string     `db:"organization_id"`
	CompanyID      string     `db:"company_id"`
	Name           string     `db:"name"`
	Stage          string     `db:"stage"`
	Value          int64      `db:"value"` // Minor currency units
	Probability    float64    `db:"probability"`
	OwnerUserID    string     `db:"owner_user_id"`
	StageChangedAt *time.Time `db:"stage_changed_at"`
	AuditFields
}
