package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
)

// csvHeader is the required column order of an import file.
var csvHeader = []string{"date", "debit_account", "credit_account", "amount", "currency", "description", "category", "comment"}

// importService runs the two-phase batch import: validate every row against
// one snapshot of accounts and currencies, then commit all rows in input
// order, or commit nothing.
type importService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	journal      portssvc.JournalWriterSvc
}

// NewImportService creates a new ImportService committing through the given
// journal writer so imported rows pass the full entry contract.
func NewImportService(accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyReader, journal portssvc.JournalWriterSvc, base BaseService) portssvc.ImportService {
	return &importService{
		BaseService:  base,
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
		journal:      journal,
	}
}

var _ portssvc.ImportService = (*importService)(nil)

// ParseCSV reads a header-prefixed CSV document into import rows. Structural
// problems (bad header, wrong column count, unparseable cell) abort the parse;
// business validation is ImportRows' job.
func (s *importService) ParseCSV(r io.Reader) ([]dto.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("import file is empty: %w", apperrors.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", apperrors.ErrValidation)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("expected %d header columns, got %d: %w", len(csvHeader), len(header), apperrors.ErrValidation)
	}
	for i, want := range csvHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return nil, fmt.Errorf("header column %d must be %q, got %q: %w", i+1, want, header[i], apperrors.ErrValidation)
		}
	}

	var rows []dto.ImportRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", line, err, apperrors.ErrValidation)
		}

		entryDate, err := time.Parse(time.DateOnly, strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q, want YYYY-MM-DD: %w", line, record[0], apperrors.ErrValidation)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, record[3], apperrors.ErrValidation)
		}

		rows = append(rows, dto.ImportRow{
			EntryDate:           entryDate,
			DebitAccountNumber:  strings.TrimSpace(record[1]),
			CreditAccountNumber: strings.TrimSpace(record[2]),
			Amount:              amount,
			CurrencyCode:        strings.ToUpper(strings.TrimSpace(record[4])),
			Description:         strings.TrimSpace(record[5]),
			Category:            strings.TrimSpace(record[6]),
			Comment:             strings.TrimSpace(record[7]),
		})
	}
	return rows, nil
}

// importSnapshot is the immutable lookup state phase one validates against.
type importSnapshot struct {
	accountsByNumber map[string]domain.SubAccount
	currencies       map[string]domain.Currency
}

func (s *importService) snapshot(ctx context.Context) (*importSnapshot, error) {
	accounts, err := s.accountRepo.ListSubAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-accounts: %w", err)
	}
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}

	snap := &importSnapshot{
		accountsByNumber: make(map[string]domain.SubAccount, len(accounts)),
		currencies:       make(map[string]domain.Currency, len(currencies)),
	}
	for _, a := range accounts {
		snap.accountsByNumber[a.AccountNumber] = a
	}
	for _, c := range currencies {
		snap.currencies[c.CurrencyCode] = c
	}
	return snap, nil
}

// validateRow reports every problem with one row, not just the first.
func validateRow(snap *importSnapshot, row dto.ImportRow) []string {
	var reasons []string

	if row.EntryDate.IsZero() {
		reasons = append(reasons, "entry date is required")
	}
	if !row.Amount.IsPositive() {
		reasons = append(reasons, fmt.Sprintf("amount must be positive, got %s", row.Amount))
	}
	if _, ok := snap.currencies[row.CurrencyCode]; !ok {
		reasons = append(reasons, fmt.Sprintf("unknown currency %q", row.CurrencyCode))
	}

	debit, debitOK := snap.accountsByNumber[row.DebitAccountNumber]
	if !debitOK {
		reasons = append(reasons, fmt.Sprintf("unknown debit account %q", row.DebitAccountNumber))
	}
	credit, creditOK := snap.accountsByNumber[row.CreditAccountNumber]
	if !creditOK {
		reasons = append(reasons, fmt.Sprintf("unknown credit account %q", row.CreditAccountNumber))
	}
	if debitOK && creditOK && debit.AccountID == credit.AccountID {
		reasons = append(reasons, fmt.Sprintf("debit and credit are the same account %q", row.DebitAccountNumber))
	}
	if row.Description == "" {
		reasons = append(reasons, "description is required")
	}
	return reasons
}

// ImportRows runs the two-phase protocol. Phase one validates every row
// against one snapshot and collects the complete error report. Phase two runs
// only when phase one found nothing, committing rows in input order through
// the journal entry contract.
func (s *importService) ImportRows(ctx context.Context, rows []dto.ImportRow) (*dto.ImportSummary, error) {
	summary := &dto.ImportSummary{
		Attempted: len(rows),
		Errors:    []dto.ImportRowError{},
	}
	if len(rows) == 0 {
		return summary, nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		for _, reason := range validateRow(snap, row) {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: i + 1, Reason: reason})
		}
	}
	if len(summary.Errors) > 0 {
		failed := make(map[int]struct{})
		for _, e := range summary.Errors {
			failed[e.Row] = struct{}{}
		}
		summary.Failed = len(failed)
		s.LogWarn(ctx, "Import rejected in validation phase",
			slog.Int("attempted", summary.Attempted),
			slog.Int("failed_rows", summary.Failed),
			slog.Int("error_count", len(summary.Errors)))
		return summary, nil
	}

	for i, row := range rows {
		_, err := s.journal.CreateEntry(ctx, dto.CreateEntryRequest{
			EntryDate:       row.EntryDate,
			Amount:          row.Amount,
			CurrencyCode:    row.CurrencyCode,
			DebitAccountID:  snap.accountsByNumber[row.DebitAccountNumber].AccountID,
			CreditAccountID: snap.accountsByNumber[row.CreditAccountNumber].AccountID,
			Description:     row.Description,
			Category:        row.Category,
			Comment:         row.Comment,
		})
		if err != nil {
			// Phase one vouched for every row, so a commit failure is a bug
			// or an infrastructure fault, not a data problem.
			return nil, fmt.Errorf("commit failed at row %d after %d rows written: %w", i+1, summary.Succeeded, err)
		}
		summary.Succeeded++
	}

	s.LogInfo(ctx, "Import committed",
		slog.Int("attempted", summary.Attempted),
		slog.Int("succeeded", summary.Succeeded))
	return summary, nil
}
