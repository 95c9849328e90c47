package services

import (
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. Every writer service shares one BaseService so
// all mutations funnel through the same audit recorder and checkpointer.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	base := BaseService{
		Checkpointer: repos.Checkpointer,
		Audit:        NewSlogAuditRecorder(),
	}

	container := &portssvc.ServiceContainer{
		Checkpointer: repos.Checkpointer,
	}

	container.Currency = NewCurrencyService(repos.CurrencyRepo, base)
	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo, base)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.CurrencyRepo, base)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.JournalRepo, repos.CurrencyRepo, base)
	container.Import = NewImportService(repos.AccountRepo, repos.CurrencyRepo, container.Journal, base)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.CurrencySvcFacade = (*currencyService)(nil)
	_ portssvc.AccountSvcFacade  = (*accountService)(nil)
	_ portssvc.JournalSvcFacade  = (*journalService)(nil)
)
