package memstore

import (
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all repositories over one shared store. The
// caller supplies the checkpointer so the same single-flighted instance also
// serves the timer loop and the shutdown checkpoint.
func NewRepositoryProvider(store *Store, checkpointer *Checkpointer) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo: newMemCurrencyRepository(store),
		AccountRepo:  newMemAccountRepository(store),
		JournalRepo:  newMemJournalRepository(store),
		Checkpointer: checkpointer,
	}
}
