package services

import (
	"context"
	"time"

	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
)

// ReportingService derives the four read-only report views from the journal.
// Balances are computed in the reporting currency; a non-empty, non-default
// displayCurrency re-expresses report amounts by dividing by that currency's
// rate at the boundary.
type ReportingService interface {
	BalanceSheet(ctx context.Context, asOf time.Time, displayCurrency string) (*domain.BalanceSheetReport, error)
	ProfitAndLoss(ctx context.Context, from, to time.Time, displayCurrency string) (*domain.PAndLReport, error)
	TrialBalance(ctx context.Context, asOf time.Time, displayCurrency string) (*domain.TrialBalanceReport, error)
	AccountLedger(ctx context.Context, accountID string, from, to *time.Time) (*domain.AccountLedgerReport, error)
}
