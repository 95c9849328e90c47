package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
)

// currencyService provides currency operations, enforcing the 3-letter code
// key and the at-most-one-default invariant.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade, base BaseService) portssvc.CurrencySvcFacade {
	return &currencyService{
		BaseService:  base,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// validCurrencyCode reports whether code is exactly three uppercase letters.
func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// CreateCurrency persists a new currency. When the request flags it default,
// the previous default is cleared in the same logical operation.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	if !validCurrencyCode(req.CurrencyCode) {
		return nil, fmt.Errorf("%w: currency code must be three uppercase letters, got %q", apperrors.ErrValidation, req.CurrencyCode)
	}
	if !req.RateToUSD.IsPositive() {
		return nil, fmt.Errorf("%w: rateToUSD must be positive, got %s", apperrors.ErrValidation, req.RateToUSD)
	}

	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Name:         req.Name,
		Symbol:       req.Symbol,
		RateToUSD:    req.RateToUSD,
		IsDefault:    req.IsDefault,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_code", currency.CurrencyCode))
	if err := s.FinishMutation(ctx, "create", "currency", currency.CurrencyCode); err != nil {
		return nil, err
	}
	return &currency, nil
}

// UpdateCurrency applies partial updates. A rate change also recomputes the
// stored reporting-currency amount of every journal entry in this currency,
// atomically with the rate itself.
func (s *currencyService) UpdateCurrency(ctx context.Context, currencyCode string, req dto.UpdateCurrencyRequest) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		currency.Name = *req.Name
	}
	if req.Symbol != nil {
		currency.Symbol = *req.Symbol
	}
	if req.RateToUSD != nil {
		if !req.RateToUSD.IsPositive() {
			return nil, fmt.Errorf("%w: rateToUSD must be positive, got %s", apperrors.ErrValidation, req.RateToUSD)
		}
		currency.RateToUSD = *req.RateToUSD
	}
	if req.IsDefault != nil {
		currency.IsDefault = *req.IsDefault
	}
	currency.LastUpdatedAt = time.Now().UTC()

	if err := s.currencyRepo.UpdateCurrency(ctx, *currency); err != nil {
		return nil, fmt.Errorf("failed to update currency: %w", err)
	}

	s.LogInfo(ctx, "Currency updated", slog.String("currency_code", currencyCode))
	if err := s.FinishMutation(ctx, "update", "currency", currencyCode); err != nil {
		return nil, err
	}
	return currency, nil
}

// DeleteCurrency removes a currency that no account or entry references.
func (s *currencyService) DeleteCurrency(ctx context.Context, currencyCode string) error {
	if err := s.currencyRepo.DeleteCurrency(ctx, currencyCode); err != nil {
		return err
	}

	s.LogInfo(ctx, "Currency deleted", slog.String("currency_code", currencyCode))
	return s.FinishMutation(ctx, "delete", "currency", currencyCode)
}

// GetCurrencyByCode retrieves a specific currency by its code.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
}

// ListCurrencies retrieves all available currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
