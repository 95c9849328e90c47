package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
	"github.com/openbooks-app/openbooks_backend/internal/utils/accounting"
)

var (
	// ErrSameAccountLegs means the debit and credit legs reference the same account.
	ErrSameAccountLegs = fmt.Errorf("%w: debit and credit legs must differ", apperrors.ErrInvariant)
	// ErrNonPositiveAmount means the entry amount is zero or negative.
	ErrNonPositiveAmount = fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
)

// journalService is the admission layer for journal entries: it validates
// the double-entry invariants, derives the reporting-currency amount once at
// write time, and triggers the durability checkpoint after every mutation.
type journalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.SubAccountReader
	currencyRepo portsrepo.CurrencyReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.SubAccountReader, currencyRepo portsrepo.CurrencyReader, base BaseService) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService:  base,
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateEntry runs the admission checks in contract order: positive
// amount, currency exists, distinct legs, debit account exists, credit
// account exists. It returns the resolved currency so the caller can derive
// the reporting-currency amount without a second lookup.
func (s *journalService) validateEntry(ctx context.Context, amount decimal.Decimal, currencyCode, debitAccountID, creditAccountID string) (*domain.Currency, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, err
	}
	if debitAccountID == creditAccountID {
		return nil, ErrSameAccountLegs
	}
	if _, err := s.accountRepo.FindSubAccountByID(ctx, debitAccountID); err != nil {
		return nil, fmt.Errorf("debit leg: %w", err)
	}
	if _, err := s.accountRepo.FindSubAccountByID(ctx, creditAccountID); err != nil {
		return nil, fmt.Errorf("credit leg: %w", err)
	}
	return currency, nil
}

// CreateEntry admits a new journal entry. On success the entry is stored
// with AmountInUSD derived from the currency's current rate, and the store
// is checkpointed.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*domain.JournalEntry, error) {
	currency, err := s.validateEntry(ctx, req.Amount, req.CurrencyCode, req.DebitAccountID, req.CreditAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       req.EntryDate,
		Amount:          req.Amount,
		CurrencyCode:    req.CurrencyCode,
		AmountInUSD:     accounting.ConvertToUSD(req.Amount, currency.RateToUSD),
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Description:     req.Description,
		Category:        req.Category,
		Comment:         req.Comment,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry created", slog.String("entry_id", entry.EntryID))
	if err := s.FinishMutation(ctx, "create", "journal_entry", entry.EntryID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEntryByID retrieves a journal entry.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, entryID)
}

// ListEntries retrieves journal entries in reverse-chronological order,
// optionally narrowed to an account and a date range at day granularity.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.JournalEntry, error) {
	filter := portsrepo.EntryFilter{AccountID: params.AccountID}
	if params.From != nil {
		from := accounting.StartOfDay(*params.From)
		filter.From = &from
	}
	if params.To != nil {
		to := accounting.EndOfDay(*params.To)
		filter.To = &to
	}
	return s.journalRepo.ListEntries(ctx, filter)
}

// UpdateEntry applies partial updates, re-running the full admission checks
// on the merged entry. AmountInUSD is recomputed only when the amount or
// the currency changed.
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	amountChanged := false
	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.Amount != nil {
		entry.Amount = *req.Amount
		amountChanged = true
	}
	if req.CurrencyCode != nil && *req.CurrencyCode != entry.CurrencyCode {
		entry.CurrencyCode = *req.CurrencyCode
		amountChanged = true
	}
	if req.DebitAccountID != nil {
		entry.DebitAccountID = *req.DebitAccountID
	}
	if req.CreditAccountID != nil {
		entry.CreditAccountID = *req.CreditAccountID
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Category != nil {
		entry.Category = *req.Category
	}
	if req.Comment != nil {
		entry.Comment = *req.Comment
	}

	currency, err := s.validateEntry(ctx, entry.Amount, entry.CurrencyCode, entry.DebitAccountID, entry.CreditAccountID)
	if err != nil {
		return nil, err
	}
	if amountChanged {
		entry.AmountInUSD = accounting.ConvertToUSD(entry.Amount, currency.RateToUSD)
	}
	entry.LastUpdatedAt = time.Now().UTC()

	if err := s.journalRepo.UpdateEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID))
	if err := s.FinishMutation(ctx, "update", "journal_entry", entryID); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes an entry; its attachments are removed in the same
// step.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string) error {
	if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		return err
	}

	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID))
	return s.FinishMutation(ctx, "delete", "journal_entry", entryID)
}

// AddAttachment binds an uploaded file to an existing entry.
func (s *journalService) AddAttachment(ctx context.Context, entryID string, req dto.AddAttachmentRequest) (*domain.Attachment, error) {
	if _, err := s.journalRepo.FindEntryByID(ctx, entryID); err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: attachment is empty", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	attachment := domain.Attachment{
		AttachmentID: uuid.NewString(),
		EntryID:      entryID,
		FileName:     req.FileName,
		MediaType:    req.MediaType,
		SizeBytes:    int64(len(req.Data)),
		Data:         req.Data,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.journalRepo.SaveAttachment(ctx, attachment); err != nil {
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	s.LogInfo(ctx, "Attachment added", slog.String("entry_id", entryID), slog.String("attachment_id", attachment.AttachmentID))
	if err := s.FinishMutation(ctx, "create", "attachment", attachment.AttachmentID); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// GetAttachmentByID retrieves a single attachment including its bytes.
func (s *journalService) GetAttachmentByID(ctx context.Context, attachmentID string) (*domain.Attachment, error) {
	return s.journalRepo.FindAttachmentByID(ctx, attachmentID)
}

// ListAttachments retrieves the attachments of an entry.
func (s *journalService) ListAttachments(ctx context.Context, entryID string) ([]domain.Attachment, error) {
	if _, err := s.journalRepo.FindEntryByID(ctx, entryID); err != nil {
		return nil, err
	}
	return s.journalRepo.ListAttachmentsByEntry(ctx, entryID)
}

// DeleteAttachment removes a single attachment.
func (s *journalService) DeleteAttachment(ctx context.Context, attachmentID string) error {
	if err := s.journalRepo.DeleteAttachment(ctx, attachmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	s.LogInfo(ctx, "Attachment deleted", slog.String("attachment_id", attachmentID))
	return s.FinishMutation(ctx, "delete", "attachment", attachmentID)
}
