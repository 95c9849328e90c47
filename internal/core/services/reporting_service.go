package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/utils/accounting"
)

// balanceEpsilon is the tolerance for the balanced checks. Totals carry the
// entry-level rounding only, so a well-formed book differs from zero by at
// most accumulated half-cent noise.
var balanceEpsilon = decimal.NewFromFloat(0.01)

// reportingService derives the four read-only report views from the journal.
// Balances are computed in the reporting currency; opening-balance accounts
// participate in balance arithmetic but are filtered out here, at the report
// boundary.
type reportingService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	journalRepo  portsrepo.JournalReader
	currencyRepo portsrepo.CurrencyReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalReader, currencyRepo portsrepo.CurrencyReader, base BaseService) portssvc.ReportingService {
	return &reportingService{
		BaseService:  base,
		accountRepo:  accountRepo,
		journalRepo:  journalRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// accountView pairs a sub-account with its GL type for balance computation.
type accountView struct {
	account domain.SubAccount
	glType  domain.AccountType
}

// loadAccounts resolves every sub-account to its GL type. Inactive accounts
// are included: they can still hold balances.
func (s *reportingService) loadAccounts(ctx context.Context) ([]accountView, error) {
	glAccounts, err := s.accountRepo.ListGLAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list GL accounts: %w", err)
	}
	typeByID := make(map[string]domain.AccountType, len(glAccounts))
	for _, gl := range glAccounts {
		typeByID[gl.AccountID] = gl.AccountType
	}

	subAccounts, err := s.accountRepo.ListSubAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-accounts: %w", err)
	}

	views := make([]accountView, 0, len(subAccounts))
	for _, sub := range subAccounts {
		glType, ok := typeByID[sub.GLAccountID]
		if !ok {
			return nil, fmt.Errorf("sub-account %s references missing GL account %s", sub.AccountNumber, sub.GLAccountID)
		}
		views = append(views, accountView{account: sub, glType: glType})
	}
	return views, nil
}

// displayRate resolves the divisor that re-expresses reporting-currency
// amounts in the requested display currency. An empty code means no
// conversion.
func (s *reportingService) displayRate(ctx context.Context, displayCurrency string) (decimal.Decimal, error) {
	if displayCurrency == "" {
		return decimal.NewFromInt(1), nil
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, displayCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	return currency.RateToUSD, nil
}

// convert re-expresses a reporting-currency amount for display. rate is the
// display currency's rate to the reporting currency.
func convert(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.Equal(decimal.NewFromInt(1)) {
		return amount
	}
	return amount.Div(rate)
}

// BalanceSheet generates a balance sheet as of a date. Retained earnings is
// cumulative Profit minus Loss up to the same date, folded into the equity
// side of the balanced check.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time, displayCurrency string) (*domain.BalanceSheetReport, error) {
	rate, err := s.displayRate(ctx, displayCurrency)
	if err != nil {
		return nil, err
	}
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	to := accounting.EndOfDay(asOf)
	entries, err := s.journalRepo.ListEntries(ctx, portsrepo.EntryFilter{To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	report := &domain.BalanceSheetReport{
		AsOf:         asOf,
		CurrencyCode: displayCurrency,
		Assets:       []domain.AccountBalance{},
		Liabilities:  []domain.AccountBalance{},
		Equity:       []domain.AccountBalance{},
	}
	totalAssets, totalLiabilities, totalEquity := decimal.Zero, decimal.Zero, decimal.Zero
	retained := decimal.Zero

	for _, view := range accounts {
		if view.glType == domain.OpeningBalance {
			continue
		}
		balance, err := accounting.Balance(entries, view.account.AccountID, view.glType)
		if err != nil {
			return nil, err
		}

		row := domain.AccountBalance{
			AccountID:     view.account.AccountID,
			AccountNumber: view.account.AccountNumber,
			Name:          view.account.Name,
			AccountType:   view.glType,
			Balance:       convert(balance, rate),
		}

		switch view.glType {
		case domain.Asset, domain.Cash, domain.AccountsReceivable:
			report.Assets = append(report.Assets, row)
			totalAssets = totalAssets.Add(balance)
		case domain.AccountsPayable:
			report.Liabilities = append(report.Liabilities, row)
			totalLiabilities = totalLiabilities.Add(balance)
		case domain.Equity:
			report.Equity = append(report.Equity, row)
			totalEquity = totalEquity.Add(balance)
		case domain.Profit:
			retained = retained.Add(balance)
		case domain.Loss:
			retained = retained.Sub(balance)
		}
	}

	// The balanced check runs on reporting-currency totals; display
	// conversion happens after, so the epsilon keeps its meaning.
	diff := totalAssets.Sub(totalLiabilities.Add(totalEquity).Add(retained))
	report.Balanced = diff.Abs().LessThan(balanceEpsilon)
	report.TotalAssets = convert(totalAssets, rate)
	report.TotalLiabilities = convert(totalLiabilities, rate)
	report.TotalEquity = convert(totalEquity.Add(retained), rate)
	report.RetainedEarnings = convert(retained, rate)

	s.LogInfo(ctx, "Balance sheet generated",
		slog.String("as_of", asOf.Format(time.DateOnly)),
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)),
		slog.Bool("balanced", report.Balanced))
	return report, nil
}

// ProfitAndLoss generates a profit and loss report over an inclusive date
// range at day granularity.
func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to time.Time, displayCurrency string) (*domain.PAndLReport, error) {
	rate, err := s.displayRate(ctx, displayCurrency)
	if err != nil {
		return nil, err
	}
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	start := accounting.StartOfDay(from)
	end := accounting.EndOfDay(to)
	entries, err := s.journalRepo.ListEntries(ctx, portsrepo.EntryFilter{From: &start, To: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	report := &domain.PAndLReport{
		From:         from,
		To:           to,
		CurrencyCode: displayCurrency,
		Revenue:      []domain.AccountBalance{},
		Expenses:     []domain.AccountBalance{},
	}
	totalRevenue, totalExpenses := decimal.Zero, decimal.Zero

	for _, view := range accounts {
		if view.glType != domain.Profit && view.glType != domain.Loss {
			continue
		}
		balance, err := accounting.Balance(entries, view.account.AccountID, view.glType)
		if err != nil {
			return nil, err
		}

		row := domain.AccountBalance{
			AccountID:     view.account.AccountID,
			AccountNumber: view.account.AccountNumber,
			Name:          view.account.Name,
			AccountType:   view.glType,
			Balance:       convert(balance, rate),
		}
		if view.glType == domain.Profit {
			report.Revenue = append(report.Revenue, row)
			totalRevenue = totalRevenue.Add(balance)
		} else {
			report.Expenses = append(report.Expenses, row)
			totalExpenses = totalExpenses.Add(balance)
		}
	}

	report.TotalRevenue = convert(totalRevenue, rate)
	report.TotalExpenses = convert(totalExpenses, rate)
	report.NetIncome = convert(totalRevenue.Sub(totalExpenses), rate)

	s.LogInfo(ctx, "Profit and loss generated",
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.Int("revenue_accounts", len(report.Revenue)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// TrialBalance generates a trial balance as of a date: every account with a
// balance beyond the epsilon, the signed balance mapped onto its debit or
// credit column by normal side, rows in natural account number order.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time, displayCurrency string) (*domain.TrialBalanceReport, error) {
	rate, err := s.displayRate(ctx, displayCurrency)
	if err != nil {
		return nil, err
	}
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	to := accounting.EndOfDay(asOf)
	entries, err := s.journalRepo.ListEntries(ctx, portsrepo.EntryFilter{To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	report := &domain.TrialBalanceReport{
		AsOf:         asOf,
		CurrencyCode: displayCurrency,
		Rows:         []domain.TrialBalanceRow{},
	}
	totalDebit, totalCredit := decimal.Zero, decimal.Zero

	for _, view := range accounts {
		if view.glType == domain.OpeningBalance {
			continue
		}
		balance, err := accounting.Balance(entries, view.account.AccountID, view.glType)
		if err != nil {
			return nil, err
		}
		if balance.Abs().LessThanOrEqual(balanceEpsilon) {
			continue
		}

		side, _ := view.glType.NormalSide()
		row := domain.TrialBalanceRow{
			AccountID:     view.account.AccountID,
			AccountNumber: view.account.AccountNumber,
			Name:          view.account.Name,
			AccountType:   view.glType,
			Debit:         decimal.Zero,
			Credit:        decimal.Zero,
		}

		// A positive balance lands on the account's normal side; a negative
		// balance flips to the opposite column as an absolute value.
		onNormalSide := balance.IsPositive()
		if (side == domain.DebitNormal) == onNormalSide {
			row.Debit = convert(balance.Abs(), rate)
			totalDebit = totalDebit.Add(balance.Abs())
		} else {
			row.Credit = convert(balance.Abs(), rate)
			totalCredit = totalCredit.Add(balance.Abs())
		}
		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return accounting.NaturalLess(report.Rows[i].AccountNumber, report.Rows[j].AccountNumber)
	})

	report.Balanced = totalDebit.Sub(totalCredit).Abs().LessThan(balanceEpsilon)
	report.TotalDebit = convert(totalDebit, rate)
	report.TotalCredit = convert(totalCredit, rate)

	s.LogInfo(ctx, "Trial balance generated",
		slog.String("as_of", asOf.Format(time.DateOnly)),
		slog.Int("row_count", len(report.Rows)),
		slog.Bool("balanced", report.Balanced))
	return report, nil
}

// AccountLedger generates the per-account running-balance view. Entries are
// fetched newest-first, replayed oldest-first to accumulate the running
// balance, and returned in chronological order.
func (s *reportingService) AccountLedger(ctx context.Context, accountID string, from, to *time.Time) (*domain.AccountLedgerReport, error) {
	account, err := s.accountRepo.FindSubAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	glAccount, err := s.accountRepo.FindGLAccountByID(ctx, account.GLAccountID)
	if err != nil {
		return nil, err
	}
	// Opening-balance accounts are excluded from every report view.
	if glAccount.AccountType == domain.OpeningBalance {
		return nil, fmt.Errorf("%w: account %s is an opening balance account and has no ledger view", apperrors.ErrValidation, account.AccountNumber)
	}

	filter := portsrepo.EntryFilter{AccountID: accountID}
	if from != nil {
		start := accounting.StartOfDay(*from)
		filter.From = &start
	}
	if to != nil {
		end := accounting.EndOfDay(*to)
		filter.To = &end
	}
	entries, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	// Reverse the newest-first fetch order so the replay runs chronologically.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	report := &domain.AccountLedgerReport{
		Account: *account,
		From:    from,
		To:      to,
		Lines:   make([]domain.LedgerLine, 0, len(entries)),
	}

	running := decimal.Zero
	for _, entry := range entries {
		signed, err := accounting.SignedAmount(entry, accountID, glAccount.AccountType)
		if err != nil {
			return nil, err
		}
		running = running.Add(signed)

		line := domain.LedgerLine{
			Entry:          entry,
			Debit:          decimal.Zero,
			Credit:         decimal.Zero,
			RunningBalance: running,
		}
		if entry.DebitAccountID == accountID {
			line.Debit = entry.AmountInUSD
		} else {
			line.Credit = entry.AmountInUSD
		}
		report.Lines = append(report.Lines, line)
	}
	report.FinalBalance = running

	s.LogInfo(ctx, "Account ledger generated",
		slog.String("account_id", accountID),
		slog.Int("line_count", len(report.Lines)))
	return report, nil
}
