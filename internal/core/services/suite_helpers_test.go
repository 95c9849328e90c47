package services_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/openbooks-app/openbooks_backend/internal/adapters/database/memstore"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/core/services"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
)

// testEnv wires the full service container over a store backed by a file in
// the test's temp directory, so service tests run the same code paths the
// server does, checkpoints included.
type testEnv struct {
	ctx      context.Context
	path     string
	services *portssvc.ServiceContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.json")
	store, err := memstore.Open(path)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	checkpointer := memstore.NewCheckpointer(store, logger)
	repos := memstore.NewRepositoryProvider(store, checkpointer)

	return &testEnv{
		ctx:      context.Background(),
		path:     path,
		services: services.NewServiceContainer(repos),
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func (e *testEnv) seedCurrency(t *testing.T, code, rate string, isDefault bool) *domain.Currency {
	t.Helper()
	currency, err := e.services.Currency.CreateCurrency(e.ctx, dto.CreateCurrencyRequest{
		CurrencyCode: code,
		Name:         code + " currency",
		Symbol:       code[:1],
		RateToUSD:    mustDecimal(t, rate),
		IsDefault:    isDefault,
	})
	require.NoError(t, err)
	return currency
}

func (e *testEnv) seedGLAccount(t *testing.T, number, name string, accountType domain.AccountType) *domain.GLAccount {
	t.Helper()
	account, err := e.services.Account.CreateGLAccount(e.ctx, dto.CreateGLAccountRequest{
		AccountNumber: number,
		Name:          name,
		AccountType:   accountType,
	})
	require.NoError(t, err)
	return account
}

func (e *testEnv) seedSubAccount(t *testing.T, number, name, currencyCode, glAccountID string) *domain.SubAccount {
	t.Helper()
	account, err := e.services.Account.CreateSubAccount(e.ctx, dto.CreateSubAccountRequest{
		AccountNumber: number,
		Name:          name,
		CurrencyCode:  currencyCode,
		GLAccountID:   glAccountID,
	})
	require.NoError(t, err)
	return account
}

func (e *testEnv) seedEntry(t *testing.T, date time.Time, amount, currencyCode, debitID, creditID, description string) *domain.JournalEntry {
	t.Helper()
	entry, err := e.services.Journal.CreateEntry(e.ctx, dto.CreateEntryRequest{
		EntryDate:       date,
		Amount:          mustDecimal(t, amount),
		CurrencyCode:    currencyCode,
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Description:     description,
	})
	require.NoError(t, err)
	return entry
}

// chart is the small standard chart of accounts most service tests share.
type chart struct {
	checking *domain.SubAccount // 1001, Cash
	payable  *domain.SubAccount // 2001, AccountsPayable
	capital  *domain.SubAccount // 3001, Equity
	sales    *domain.SubAccount // 4001, Profit
	rent     *domain.SubAccount // 5001, Loss
	opening  *domain.SubAccount // 9001, OpeningBalance
}

func (e *testEnv) seedChart(t *testing.T) chart {
	t.Helper()
	e.seedCurrency(t, "USD", "1", true)

	cash := e.seedGLAccount(t, "1000", "Cash", domain.Cash)
	payable := e.seedGLAccount(t, "2000", "Accounts payable", domain.AccountsPayable)
	equity := e.seedGLAccount(t, "3000", "Equity", domain.Equity)
	profit := e.seedGLAccount(t, "4000", "Revenue", domain.Profit)
	loss := e.seedGLAccount(t, "5000", "Expenses", domain.Loss)
	opening := e.seedGLAccount(t, "9000", "Opening balances", domain.OpeningBalance)

	return chart{
		checking: e.seedSubAccount(t, "1001", "Main checking", "USD", cash.AccountID),
		payable:  e.seedSubAccount(t, "2001", "Supplier payable", "USD", payable.AccountID),
		capital:  e.seedSubAccount(t, "3001", "Owner capital", "USD", equity.AccountID),
		sales:    e.seedSubAccount(t, "4001", "Product sales", "USD", profit.AccountID),
		rent:     e.seedSubAccount(t, "5001", "Office rent", "USD", loss.AccountID),
		opening:  e.seedSubAccount(t, "9001", "Opening balance", "USD", opening.AccountID),
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
