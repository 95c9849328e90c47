package repositories

import (
	"context"

	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
)

// GLAccountReader defines read operations for GL account data
type GLAccountReader interface {
	FindGLAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error)
	FindGLAccountByNumber(ctx context.Context, accountNumber string) (*domain.GLAccount, error)
	ListGLAccounts(ctx context.Context) ([]domain.GLAccount, error)
}

// GLAccountWriter defines write operations for GL account data
type GLAccountWriter interface {
	SaveGLAccount(ctx context.Context, account domain.GLAccount) error
	UpdateGLAccount(ctx context.Context, account domain.GLAccount) error

	// DeleteGLAccount removes a GL account. It fails with ErrConflict while
	// sub-accounts still reference it; deletion never cascades.
	DeleteGLAccount(ctx context.Context, accountID string) error
}

// SubAccountReader defines read operations for sub-account data
type SubAccountReader interface {
	FindSubAccountByID(ctx context.Context, accountID string) (*domain.SubAccount, error)
	FindSubAccountByNumber(ctx context.Context, accountNumber string) (*domain.SubAccount, error)
	ListSubAccounts(ctx context.Context) ([]domain.SubAccount, error)
}

// SubAccountWriter defines write operations for sub-account data
type SubAccountWriter interface {
	SaveSubAccount(ctx context.Context, account domain.SubAccount) error
	UpdateSubAccount(ctx context.Context, account domain.SubAccount) error

	// DeleteSubAccount removes a sub-account. It fails with ErrConflict
	// while journal entries still reference either leg.
	DeleteSubAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	GLAccountReader
	GLAccountWriter
	SubAccountReader
	SubAccountWriter
}
