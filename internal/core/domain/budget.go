package domain

// BudgetType determines how a project is billed.
type BudgetType string

const (
	BudgetTimeAndMaterials BudgetType = "TIME_AND_MATERIALS"
	BudgetFixedFee         BudgetType = "FIXED_FEE"
	BudgetMilestone        BudgetType = "MILESTONE"
	BudgetRetainer         BudgetType = "RETAINER"
)

// Budget holds the financial envelope of a project. The retainer fields are
// only meaningful for BudgetRetainer budgets.
type Budget struct {
	BudgetID       string     `json:"budgetID"`       // Primary Key (e.g., UUID)
	OrganizationID string     `json:"organizationID"` // FK -> organizations.organization_id (Not Null)
	ProjectID      string     `json:"projectID"`      // FK -> projects.project_id (Not Null)
	Type           BudgetType `json:"type"`
	TotalAmount    int64      `json:"totalAmount"` // Minor currency units

	// Retainer plan: base amount billed per period, hours included in it,
	// and the per-hour rate charged beyond the allowance.
	RetainerAmount int64   `json:"retainerAmount"`
	IncludedHours  float64 `json:"includedHours"`
	OverageRate    int64   `json:"overageRate"` // Minor units per hour

	AuditFields
}
