package services

import (
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Currency     CurrencySvcFacade
	Account      AccountSvcFacade
	Journal      JournalSvcFacade
	Reporting    ReportingService
	Import       ImportService
	Checkpointer portsrepo.Checkpointer
}
