package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
)

type memJournalRepository struct {
	store *Store
}

// newMemJournalRepository creates a journal repository over the store.
func newMemJournalRepository(store *Store) portsrepo.JournalRepositoryFacade {
	return &memJournalRepository{store: store}
}

var _ portsrepo.JournalRepositoryFacade = (*memJournalRepository)(nil)

// checkEntry enforces the storage-level integrity rules that back up the
// service validation: positive amount, distinct legs, resolvable references.
func checkEntry(img *image, entry domain.JournalEntry) error {
	if !entry.Amount.IsPositive() {
		return fmt.Errorf("entry amount %s is not positive: %w", entry.Amount, apperrors.ErrInvariant)
	}
	if entry.DebitAccountID == entry.CreditAccountID {
		return fmt.Errorf("entry debits and credits the same account %s: %w", entry.DebitAccountID, apperrors.ErrInvariant)
	}
	if _, ok := img.SubAccounts[entry.DebitAccountID]; !ok {
		return fmt.Errorf("debit account %s: %w", entry.DebitAccountID, apperrors.ErrNotFound)
	}
	if _, ok := img.SubAccounts[entry.CreditAccountID]; !ok {
		return fmt.Errorf("credit account %s: %w", entry.CreditAccountID, apperrors.ErrNotFound)
	}
	if _, ok := img.Currencies[entry.CurrencyCode]; !ok {
		return fmt.Errorf("currency %s: %w", entry.CurrencyCode, apperrors.ErrNotFound)
	}
	return nil
}

// SaveEntry persists a new journal entry after the integrity checks pass.
func (r *memJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.Entries[entry.EntryID]; exists {
			return fmt.Errorf("entry %s: %w", entry.EntryID, apperrors.ErrDuplicate)
		}
		if err := checkEntry(img, entry); err != nil {
			return err
		}
		img.Entries[entry.EntryID] = entry
		return nil
	})
}

// UpdateEntry replaces an existing journal entry after the same integrity
// checks as SaveEntry.
func (r *memJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.Entries[entry.EntryID]; !exists {
			return fmt.Errorf("entry %s: %w", entry.EntryID, apperrors.ErrNotFound)
		}
		if err := checkEntry(img, entry); err != nil {
			return err
		}
		img.Entries[entry.EntryID] = entry
		return nil
	})
}

// DeleteEntry removes an entry and cascades to its attachments in the same
// store update.
func (r *memJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.Entries[entryID]; !exists {
			return fmt.Errorf("entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		delete(img.Entries, entryID)
		for id, att := range img.Attachments {
			if att.EntryID == entryID {
				delete(img.Attachments, id)
			}
		}
		return nil
	})
}

func (r *memJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	r.store.view(func(img *image) {
		if e, ok := img.Entries[entryID]; ok {
			entry = &e
		}
	})
	if entry == nil {
		return nil, fmt.Errorf("entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	return entry, nil
}

// ListEntries returns matching entries in reverse-chronological order, ties
// broken by creation time and then entry ID so the order is stable.
func (r *memJournalRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	entries := []domain.JournalEntry{}
	r.store.view(func(img *image) {
		for _, e := range img.Entries {
			if filter.AccountID != "" && e.DebitAccountID != filter.AccountID && e.CreditAccountID != filter.AccountID {
				continue
			}
			if filter.From != nil && e.EntryDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && e.EntryDate.After(*filter.To) {
				continue
			}
			entries = append(entries, e)
		}
	})
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.After(entries[j].EntryDate)
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].EntryID > entries[j].EntryID
	})
	return entries, nil
}

// SaveAttachment persists an attachment for an existing entry.
func (r *memJournalRepository) SaveAttachment(ctx context.Context, attachment domain.Attachment) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.Attachments[attachment.AttachmentID]; exists {
			return fmt.Errorf("attachment %s: %w", attachment.AttachmentID, apperrors.ErrDuplicate)
		}
		if _, ok := img.Entries[attachment.EntryID]; !ok {
			return fmt.Errorf("entry %s: %w", attachment.EntryID, apperrors.ErrNotFound)
		}
		img.Attachments[attachment.AttachmentID] = attachment
		return nil
	})
}

func (r *memJournalRepository) FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.Attachment, error) {
	var attachment *domain.Attachment
	r.store.view(func(img *image) {
		if a, ok := img.Attachments[attachmentID]; ok {
			attachment = &a
		}
	})
	if attachment == nil {
		return nil, fmt.Errorf("attachment %s: %w", attachmentID, apperrors.ErrNotFound)
	}
	return attachment, nil
}

// ListAttachmentsByEntry retrieves an entry's attachments ordered by
// creation time.
func (r *memJournalRepository) ListAttachmentsByEntry(ctx context.Context, entryID string) ([]domain.Attachment, error) {
	attachments := []domain.Attachment{}
	r.store.view(func(img *image) {
		for _, a := range img.Attachments {
			if a.EntryID == entryID {
				attachments = append(attachments, a)
			}
		}
	})
	sort.Slice(attachments, func(i, j int) bool {
		if !attachments[i].CreatedAt.Equal(attachments[j].CreatedAt) {
			return attachments[i].CreatedAt.Before(attachments[j].CreatedAt)
		}
		return attachments[i].AttachmentID < attachments[j].AttachmentID
	})
	return attachments, nil
}

// DeleteAttachment removes a single attachment.
func (r *memJournalRepository) DeleteAttachment(ctx context.Context, attachmentID string) error {
	return r.store.update(func(img *image) error {
		if _, exists := img.Attachments[attachmentID]; !exists {
			return fmt.Errorf("attachment %s: %w", attachmentID, apperrors.ErrNotFound)
		}
		delete(img.Attachments, attachmentID)
		return nil
	})
}
