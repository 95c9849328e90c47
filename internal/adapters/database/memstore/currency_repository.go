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

type memCurrencyRepository struct {
	store *Store
}

// newMemCurrencyRepository creates a currency repository over the store.
func newMemCurrencyRepository(store *Store) portsrepo.CurrencyRepositoryFacade {
	return &memCurrencyRepository{store: store}
}

var _ portsrepo.CurrencyRepositoryFacade = (*memCurrencyRepository)(nil)

// SaveCurrency persists a new currency. When the new currency is flagged
// default, the previous default is cleared inside the same store update so
// the single-default rule holds at every observable point.
func (r *memCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.Currencies[currency.CurrencyCode]; exists {
			return fmt.Errorf("currency %s: %w", currency.CurrencyCode, apperrors.ErrDuplicate)
		}
		if currency.IsDefault {
			clearDefaultCurrency(img)
		}
		img.Currencies[currency.CurrencyCode] = currency
		return nil
	})
}

// UpdateCurrency replaces an existing currency, applying the same
// single-default rule as SaveCurrency. A rate change recomputes the stored
// reporting-currency amount of every entry in this currency inside the same
// store update, so no reader observes the new rate with stale amounts.
func (r *memCurrencyRepository) UpdateCurrency(ctx context.Context, currency domain.Currency) error {
	return r.store.update(func(img *image) error {
		previous, exists := img.Currencies[currency.CurrencyCode]
		if !exists {
			return fmt.Errorf("currency %s: %w", currency.CurrencyCode, apperrors.ErrNotFound)
		}
		if currency.IsDefault {
			clearDefaultCurrency(img)
		}
		img.Currencies[currency.CurrencyCode] = currency

		if !previous.RateToUSD.Equal(currency.RateToUSD) {
			for id, entry := range img.Entries {
				if entry.CurrencyCode != currency.CurrencyCode {
					continue
				}
				entry.AmountInUSD = accounting.ConvertToUSD(entry.Amount, currency.RateToUSD)
				img.Entries[id] = entry
			}
		}
		return nil
	})
}

// DeleteCurrency removes a currency unless a sub-account or journal entry
// still references it.
func (r *memCurrencyRepository) DeleteCurrency(ctx context.Context, currencyCode string) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.Currencies[currencyCode]; !exists {
			return fmt.Errorf("currency %s: %w", currencyCode, apperrors.ErrNotFound)
		}
		for _, sub := range img.SubAccounts {
			if sub.CurrencyCode == currencyCode {
				return fmt.Errorf("currency %s is used by sub-account %s: %w", currencyCode, sub.AccountNumber, apperrors.ErrConflict)
			}
		}
		for _, entry := range img.Entries {
			if entry.CurrencyCode == currencyCode {
				return fmt.Errorf("currency %s is used by journal entry %s: %w", currencyCode, entry.EntryID, apperrors.ErrConflict)
			}
		}
		delete(img.Currencies, currencyCode)
		return nil
	})
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *memCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	var currency *domain.Currency
	r.store.view(func(img *image) {
		if c, ok := img.Currencies[currencyCode]; ok {
			currency = &c
		}
	})
	if currency == nil {
		return nil, fmt.Errorf("currency %s: %w", currencyCode, apperrors.ErrNotFound)
	}
	return currency, nil
}

// ListCurrencies retrieves all currencies ordered by code.
func (r *memCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies := []domain.Currency{}
	r.store.view(func(img *image) {
		for _, c := range img.Currencies {
			currencies = append(currencies, c)
		}
	})
	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i].CurrencyCode < currencies[j].CurrencyCode
	})
	return currencies, nil
}

// clearDefaultCurrency unsets IsDefault everywhere. Caller holds the write lock.
func clearDefaultCurrency(img *image) {
	for code, c := range img.Currencies {
		if c.IsDefault {
			c.IsDefault = false
			img.Currencies[code] = c
		}
	}
}
