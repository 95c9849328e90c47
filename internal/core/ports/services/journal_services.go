package services

import (
	"context"

	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.JournalEntry, error)
}

// JournalWriterSvc defines write operations for journal entries. Every
// successful mutation checkpoints the store and records an audit event.
type JournalWriterSvc interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*domain.JournalEntry, error)
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, entryID string) error
}

// AttachmentSvc defines operations for files bound to journal entries.
type AttachmentSvc interface {
	AddAttachment(ctx context.Context, entryID string, req dto.AddAttachmentRequest) (*domain.Attachment, error)
	GetAttachmentByID(ctx context.Context, attachmentID string) (*domain.Attachment, error)
	ListAttachments(ctx context.Context, entryID string) ([]domain.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	AttachmentSvc
}
