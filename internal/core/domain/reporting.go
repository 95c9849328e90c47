package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is a sub-account with its signed balance for report views.
type AccountBalance struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
}

// BalanceSheetReport partitions account balances as of a single date.
// RetainedEarnings is cumulative Profit minus Loss up to AsOf, folded into
// the equity side of the Balanced check.
type BalanceSheetReport struct {
	AsOf             time.Time        `json:"asOf"`
	CurrencyCode     string           `json:"currencyCode"`
	Assets           []AccountBalance `json:"assets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	Equity           []AccountBalance `json:"equity"`
	TotalAssets      decimal.Decimal  `json:"totalAssets"`
	TotalLiabilities decimal.Decimal  `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal  `json:"totalEquity"`
	RetainedEarnings decimal.Decimal  `json:"retainedEarnings"`
	Balanced         bool             `json:"balanced"`
}

// PAndLReport represents a profit and loss report over a date range.
type PAndLReport struct {
	From          time.Time        `json:"from"`
	To            time.Time        `json:"to"`
	CurrencyCode  string           `json:"currencyCode"`
	Revenue       []AccountBalance `json:"revenue"`
	Expenses      []AccountBalance `json:"expenses"`
	TotalRevenue  decimal.Decimal  `json:"totalRevenue"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	NetIncome     decimal.Decimal  `json:"netIncome"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account with a non-zero balance as of a
// date, the signed balance mapped onto its debit or credit column.
type TrialBalanceReport struct {
	AsOf         time.Time         `json:"asOf"`
	CurrencyCode string            `json:"currencyCode"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebit   decimal.Decimal   `json:"totalDebit"`
	TotalCredit  decimal.Decimal   `json:"totalCredit"`
	Balanced     bool              `json:"balanced"`
}

// LedgerLine annotates one journal entry with its debit amount, credit
// amount, and the running balance immediately after the entry.
type LedgerLine struct {
	Entry          JournalEntry    `json:"entry"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedgerReport is the per-account running-balance ledger view, lines
// in chronological order.
type AccountLedgerReport struct {
	Account      SubAccount      `json:"account"`
	From         *time.Time      `json:"from,omitempty"`
	To           *time.Time      `json:"to,omitempty"`
	Lines        []LedgerLine    `json:"lines"`
	FinalBalance decimal.Decimal `json:"finalBalance"`
}
