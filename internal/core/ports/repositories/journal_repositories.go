package repositories

import (
	"context"
	"time"

	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
)

// EntryFilter narrows ListEntries. A nil bound leaves that side open; the
// date bounds are compared as given, so callers apply day granularity.
type EntryFilter struct {
	AccountID string // matches either leg when non-empty
	From      *time.Time
	To        *time.Time
}

// JournalReader defines read operations for journal entries
type JournalReader interface {
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns matching entries in reverse-chronological order.
	ListEntries(ctx context.Context, filter EntryFilter) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry removes an entry and cascades to its attachments.
	DeleteEntry(ctx context.Context, entryID string) error
}

// AttachmentRepository defines operations for journal entry attachments
type AttachmentRepository interface {
	SaveAttachment(ctx context.Context, attachment domain.Attachment) error
	FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.Attachment, error)
	ListAttachmentsByEntry(ctx context.Context, entryID string) ([]domain.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	AttachmentRepository
}
