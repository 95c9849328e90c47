package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
	"github.com/openbooks-app/openbooks_backend/internal/utils/accounting"
)

type memAccountRepository struct {
	store *Store
}

// newMemAccountRepository creates a GL/sub-account repository over the store.
func newMemAccountRepository(store *Store) portsrepo.AccountRepositoryFacade {
	return &memAccountRepository{store: store}
}

var _ portsrepo.AccountRepositoryFacade = (*memAccountRepository)(nil)

// SaveGLAccount persists a new GL account, enforcing account number
// uniqueness across GL accounts.
func (r *memAccountRepository) SaveGLAccount(ctx context.Context, account domain.GLAccount) error {
	return r.store.update(func(img *image) error {
		for _, existing := range img.GLAccounts {
			if existing.AccountNumber == account.AccountNumber {
				return fmt.Errorf("GL account number %s: %w", account.AccountNumber, apperrors.ErrDuplicate)
			}
		}
		img.GLAccounts[account.AccountID] = account
		return nil
	})
}

// UpdateGLAccount replaces an existing GL account.
func (r *memAccountRepository) UpdateGLAccount(ctx context.Context, account domain.GLAccount) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.GLAccounts[account.AccountID]; !exists {
			return fmt.Errorf("GL account %s: %w", account.AccountID, apperrors.ErrNotFound)
		}
		img.GLAccounts[account.AccountID] = account
		return nil
	})
}

// DeleteGLAccount removes a GL account unless sub-accounts still reference
// it. Deletion never cascades.
func (r *memAccountRepository) DeleteGLAccount(ctx context.Context, accountID string) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.GLAccounts[accountID]; !exists {
			return fmt.Errorf("GL account %s: %w", accountID, apperrors.ErrNotFound)
		}
		for _, sub := range img.SubAccounts {
			if sub.GLAccountID == accountID {
				return fmt.Errorf("GL account is parent of sub-account %s: %w", sub.AccountNumber, apperrors.ErrConflict)
			}
		}
		delete(img.GLAccounts, accountID)
		return nil
	})
}

func (r *memAccountRepository) FindGLAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error) {
	var account *domain.GLAccount
	r.store.view(func(img *image) {
		if a, ok := img.GLAccounts[accountID]; ok {
			account = &a
		}
	})
	if account == nil {
		return nil, fmt.Errorf("GL account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return account, nil
}

func (r *memAccountRepository) FindGLAccountByNumber(ctx context.Context, accountNumber string) (*domain.GLAccount, error) {
	var account *domain.GLAccount
	r.store.view(func(img *image) {
		for _, a := range img.GLAccounts {
			if a.AccountNumber == accountNumber {
				account = &a
				return
			}
		}
	})
	if account == nil {
		return nil, fmt.Errorf("GL account number %s: %w", accountNumber, apperrors.ErrNotFound)
	}
	return account, nil
}

// ListGLAccounts retrieves all GL accounts in natural account number order.
func (r *memAccountRepository) ListGLAccounts(ctx context.Context) ([]domain.GLAccount, error) {
	accounts := []domain.GLAccount{}
	r.store.view(func(img *image) {
		for _, a := range img.GLAccounts {
			accounts = append(accounts, a)
		}
	})
	sort.Slice(accounts, func(i, j int) bool {
		return accounting.NaturalLess(accounts[i].AccountNumber, accounts[j].AccountNumber)
	})
	return accounts, nil
}

// SaveSubAccount persists a new sub-account, enforcing account number
// uniqueness across sub-accounts and that the parent GL account and
// currency exist.
func (r *memAccountRepository) SaveSubAccount(ctx context.Context, account domain.SubAccount) error {
	return r.store.update(func(img *image) error {
		for _, existing := range img.SubAccounts {
			if existing.AccountNumber == account.AccountNumber {
				return fmt.Errorf("sub-account number %s: %w", account.AccountNumber, apperrors.ErrDuplicate)
			}
		}
		if _, ok := img.GLAccounts[account.GLAccountID]; !ok {
			return fmt.Errorf("parent GL account %s: %w", account.GLAccountID, apperrors.ErrNotFound)
		}
		if _, ok := img.Currencies[account.CurrencyCode]; !ok {
			return fmt.Errorf("currency %s: %w", account.CurrencyCode, apperrors.ErrNotFound)
		}
		img.SubAccounts[account.AccountID] = account
		return nil
	})
}

// UpdateSubAccount replaces an existing sub-account.
func (r *memAccountRepository) UpdateSubAccount(ctx context.Context, account domain.SubAccount) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.SubAccounts[account.AccountID]; !exists {
			return fmt.Errorf("sub-account %s: %w", account.AccountID, apperrors.ErrNotFound)
		}
		if _, ok := img.GLAccounts[account.GLAccountID]; !ok {
			return fmt.Errorf("parent GL account %s: %w", account.GLAccountID, apperrors.ErrNotFound)
		}
		img.SubAccounts[account.AccountID] = account
		return nil
	})
}

// DeleteSubAccount removes a sub-account unless journal entries still
// reference either leg.
func (r *memAccountRepository) DeleteSubAccount(ctx context.Context, accountID string) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.SubAccounts[accountID]; !exists {
			return fmt.Errorf("sub-account %s: %w", accountID, apperrors.ErrNotFound)
		}
		for _, entry := range img.Entries {
			if entry.DebitAccountID == accountID || entry.CreditAccountID == accountID {
				return fmt.Errorf("sub-account is referenced by journal entry %s: %w", entry.EntryID, apperrors.ErrConflict)
			}
		}
		delete(img.SubAccounts, accountID)
		return nil
	})
}

func (r *memAccountRepository) FindSubAccountByID(ctx context.Context, accountID string) (*domain.SubAccount, error) {
	var account *domain.SubAccount
	r.store.view(func(img *image) {
		if a, ok := img.SubAccounts[accountID]; ok {
			account = &a
		}
	})
	if account == nil {
		return nil, fmt.Errorf("sub-account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return account, nil
}

func (r *memAccountRepository) FindSubAccountByNumber(ctx context.Context, accountNumber string) (*domain.SubAccount, error) {
	var account *domain.SubAccount
	r.store.view(func(img *image) {
		for _, a := range img.SubAccounts {
			if a.AccountNumber == accountNumber {
				account = &a
				return
			}
		}
	})
	if account == nil {
		return nil, fmt.Errorf("sub-account number %s: %w", accountNumber, apperrors.ErrNotFound)
	}
	return account, nil
}

// ListSubAccounts retrieves all sub-accounts in natural account number order.
func (r *memAccountRepository) ListSubAccounts(ctx context.Context) ([]domain.SubAccount, error) {
	accounts := []domain.SubAccount{}
	r.store.view(func(img *image) {
		for _, a := range img.SubAccounts {
			accounts = append(accounts, a)
		}
	})
	sort.Slice(accounts, func(i, j int) bool {
		return accounting.NaturalLess(accounts[i].AccountNumber, accounts[j].AccountNumber)
	})
	return accounts, nil
}
