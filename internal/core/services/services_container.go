package services

import (
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Organization service first since every scoped service authorizes through it.
	container.Organization = NewOrganizationService(repos.OrganizationRepo)

	container.User = NewUserService(repos.UserRepo)
	container.Deal = NewDealService(repos.DealRepo, container.Organization)
	container.TimeEntry = NewTimeEntryService(repos.TimeEntryRepo, repos.ProjectRepo, container.Organization)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.ProjectRepo, container.Organization)

	container.Billing = NewBillingService(
		repos.TimeEntryRepo,
		repos.ExpenseRepo,
		repos.MilestoneRepo,
		repos.BudgetRepo,
		repos.UserRepo,
	)

	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.ProjectRepo,
		container.Billing,
		container.Organization,
	)

	container.Project = NewProjectService(
		repos.ProjectRepo,
		repos.MilestoneRepo,
		repos.BudgetRepo,
		repos.DealRepo,
		repos.TimeEntryRepo,
		repos.ExpenseRepo,
		repos.InvoiceRepo,
		repos.UserRepo,
		container.Organization,
	)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
