package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OrganizationRepo OrganizationRepositoryFacade
	UserRepo         UserRepositoryFacade
	DealRepo         DealRepositoryFacade
	ProjectRepo      ProjectRepositoryFacade
	TimeEntryRepo    TimeEntryRepositoryFacade
	ExpenseRepo      ExpenseRepositoryFacade
	MilestoneRepo    MilestoneRepositoryFacade
	BudgetRepo       BudgetRepository
	InvoiceRepo      InvoiceRepositoryWithTx
}
