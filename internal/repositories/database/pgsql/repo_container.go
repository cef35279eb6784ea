package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	organizationRepo := newPgxOrganizationRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	dealRepo := newPgxDealRepository(dbPool)
	projectRepo := newPgxProjectRepository(dbPool)
	timeEntryRepo := newPgxTimeEntryRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)
	milestoneRepo := newPgxMilestoneRepository(dbPool)
	budgetRepo := newPgxBudgetRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool, timeEntryRepo, expenseRepo, milestoneRepo)

	return portsrepo.RepositoryProvider{
		OrganizationRepo: organizationRepo,
		UserRepo:         userRepo,
		DealRepo:         dealRepo,
		ProjectRepo:      projectRepo,
		TimeEntryRepo:    timeEntryRepo,
		ExpenseRepo:      expenseRepo,
		MilestoneRepo:    milestoneRepo,
		BudgetRepo:       budgetRepo,
		InvoiceRepo:      invoiceRepo,
	}
}
