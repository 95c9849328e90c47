package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
)

// accountService provides GL and sub-account operations, enforcing account
// number uniqueness and the referential rules around deletion.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyReader, base BaseService) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService:  base,
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateGLAccount persists a new GL account. The account type must belong
// to the closed set; it determines the normal balance side for every
// sub-account under this GL account.
func (s *accountService) CreateGLAccount(ctx context.Context, req dto.CreateGLAccountRequest) (*domain.GLAccount, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.GLAccount{
		AccountID:     uuid.NewString(),
		AccountNumber: req.AccountNumber,
		Name:          req.Name,
		AccountType:   req.AccountType,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveGLAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create GL account: %w", err)
	}

	s.LogInfo(ctx, "GL account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	if err := s.FinishMutation(ctx, "create", "gl_account", account.AccountID); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetGLAccountByID retrieves a GL account.
func (s *accountService) GetGLAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error) {
	return s.accountRepo.FindGLAccountByID(ctx, accountID)
}

// ListGLAccounts retrieves all GL accounts.
func (s *accountService) ListGLAccounts(ctx context.Context) ([]domain.GLAccount, error) {
	return s.accountRepo.ListGLAccounts(ctx)
}

// UpdateGLAccount applies partial updates. Account number and type are
// immutable once assigned.
func (s *accountService) UpdateGLAccount(ctx context.Context, accountID string, req dto.UpdateGLAccountRequest) (*domain.GLAccount, error) {
	account, err := s.accountRepo.FindGLAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateGLAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update GL account: %w", err)
	}

	s.LogInfo(ctx, "GL account updated", slog.String("account_id", accountID))
	if err := s.FinishMutation(ctx, "update", "gl_account", accountID); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteGLAccount removes a GL account with no remaining sub-accounts.
func (s *accountService) DeleteGLAccount(ctx context.Context, accountID string) error {
	if err := s.accountRepo.DeleteGLAccount(ctx, accountID); err != nil {
		return err
	}

	s.LogInfo(ctx, "GL account deleted", slog.String("account_id", accountID))
	return s.FinishMutation(ctx, "delete", "gl_account", accountID)
}

// CreateSubAccount persists a new sub-account after resolving its currency
// and parent GL account.
func (s *accountService) CreateSubAccount(ctx context.Context, req dto.CreateSubAccountRequest) (*domain.SubAccount, error) {
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.FindGLAccountByID(ctx, req.GLAccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.SubAccount{
		AccountID:     uuid.NewString(),
		AccountNumber: req.AccountNumber,
		Name:          req.Name,
		CurrencyCode:  req.CurrencyCode,
		GLAccountID:   req.GLAccountID,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveSubAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create sub-account: %w", err)
	}

	s.LogInfo(ctx, "Sub-account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	if err := s.FinishMutation(ctx, "create", "sub_account", account.AccountID); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetSubAccountByID retrieves a sub-account.
func (s *accountService) GetSubAccountByID(ctx context.Context, accountID string) (*domain.SubAccount, error) {
	return s.accountRepo.FindSubAccountByID(ctx, accountID)
}

// ListSubAccounts retrieves all sub-accounts.
func (s *accountService) ListSubAccounts(ctx context.Context) ([]domain.SubAccount, error) {
	return s.accountRepo.ListSubAccounts(ctx)
}

// UpdateSubAccount applies partial updates. Account number, currency and
// parent GL account are immutable once assigned.
func (s *accountService) UpdateSubAccount(ctx context.Context, accountID string, req dto.UpdateSubAccountRequest) (*domain.SubAccount, error) {
	account, err := s.accountRepo.FindSubAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateSubAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update sub-account: %w", err)
	}

	s.LogInfo(ctx, "Sub-account updated", slog.String("account_id", accountID))
	if err := s.FinishMutation(ctx, "update", "sub_account", accountID); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteSubAccount removes a sub-account no journal entry references.
func (s *accountService) DeleteSubAccount(ctx context.Context, accountID string) error {
	if err := s.accountRepo.DeleteSubAccount(ctx, accountID); err != nil {
		return err
	}

	s.LogInfo(ctx, "Sub-account deleted", slog.String("account_id", accountID))
	return s.FinishMutation(ctx, "delete", "sub_account", accountID)
}
