package models

// Budget represents a project budget row. The retainer columns are zero for
// non-retainer budgets.
type Budget struct {
	BudgetID       string  `db:"budget_id"`
	OrganizationID string  `db:"organization_id"`
	ProjectID      string  `db:"project_id"`
	BudgetType     string  `db:"budget_type"`
	TotalAmount    int64   `db:"total_amount"`
	RetainerAmount int64   `db:"retainer_amount"`
	IncludedHours  float64 `db:"included_hours"`
	OverageRate    int64   `db:"overage_rate"`
	AuditFields
}
