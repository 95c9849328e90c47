package services

import (
	"context"

	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
)

// GLAccountSvc defines operations on GL (type) accounts.
type GLAccountSvc interface {
	CreateGLAccount(ctx context.Context, req dto.CreateGLAccountRequest) (*domain.GLAccount, error)
	GetGLAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error)
	ListGLAccounts(ctx context.Context) ([]domain.GLAccount, error)
	UpdateGLAccount(ctx context.Context, accountID string, req dto.UpdateGLAccountRequest) (*domain.GLAccount, error)
	DeleteGLAccount(ctx context.Context, accountID string) error
}

// SubAccountSvc defines operations on sub-accounts, the accounts journal
// entries post to.
type SubAccountSvc interface {
	CreateSubAccount(ctx context.Context, req dto.CreateSubAccountRequest) (*domain.SubAccount, error)
	GetSubAccountByID(ctx context.Context, accountID string) (*domain.SubAccount, error)
	ListSubAccounts(ctx context.Context) ([]domain.SubAccount, error)
	UpdateSubAccount(ctx context.Context, accountID string, req dto.UpdateSubAccountRequest) (*domain.SubAccount, error)
	DeleteSubAccount(ctx context.Context, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	GLAccountSvc
	SubAccountSvc
}
