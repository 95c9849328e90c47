package dto

import (
	"time"

	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest defines the data needed to admit a journal entry.
type CreateEntryRequest struct {
	EntryDate       time.Time       `json:"entryDate" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode    string          `json:"currencyCode" binding:"required,uppercase,len=3"`
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	CreditAccountID string          `json:"creditAccountID" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	Category        string          `json:"category,omitempty"`
	Comment         string          `json:"comment,omitempty"`
}

// UpdateEntryRequest defines the partially updatable entry fields. Changing
// Amount or CurrencyCode recomputes the stored reporting-currency amount.
type UpdateEntryRequest struct {
	EntryDate       *time.Time       `json:"entryDate,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	CurrencyCode    *string          `json:"currencyCode,omitempty"`
	DebitAccountID  *string          `json:"debitAccountID,omitempty"`
	CreditAccountID *string          `json:"creditAccountID,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Comment         *string          `json:"comment,omitempty"`
}

// ListEntriesParams narrows entry listing.
type ListEntriesParams struct {
	AccountID string     `form:"accountID"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID         string          `json:"entryID"`
	EntryDate       time.Time       `json:"entryDate"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	AmountInUSD     decimal.Decimal `json:"amountInUSD"`
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Description     string          `json:"description"`
	Category        string          `json:"category,omitempty"`
	Comment         string          `json:"comment,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO
func ToEntryResponse(entry *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:         entry.EntryID,
		EntryDate:       entry.EntryDate,
		Amount:          entry.Amount,
		CurrencyCode:    entry.CurrencyCode,
		AmountInUSD:     entry.AmountInUSD,
		DebitAccountID:  entry.DebitAccountID,
		CreditAccountID: entry.CreditAccountID,
		Description:     entry.Description,
		Category:        entry.Category,
		Comment:         entry.Comment,
		CreatedAt:       entry.CreatedAt,
		LastUpdatedAt:   entry.LastUpdatedAt,
	}
}

// ToEntryResponses converts a slice of entries to response DTOs
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		res[i] = ToEntryResponse(&entry)
	}
	return res
}

// AddAttachmentRequest carries an uploaded file for a journal entry.
type AddAttachmentRequest struct {
	FileName  string
	MediaType string
	Data      []byte
}

// AttachmentResponse defines the attachment metadata returned to callers.
// File bytes are served separately.
type AttachmentResponse struct {
	AttachmentID string    `json:"attachmentID"`
	EntryID      string    `json:"entryID"`
	FileName     string    `json:"fileName"`
	MediaType    string    `json:"mediaType"`
	SizeBytes    int64     `json:"sizeBytes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToAttachmentResponse converts a domain.Attachment to AttachmentResponse DTO
func ToAttachmentResponse(att *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		AttachmentID: att.AttachmentID,
		EntryID:      att.EntryID,
		FileName:     att.FileName,
		MediaType:    att.MediaType,
		SizeBytes:    att.SizeBytes,
		CreatedAt:    att.CreatedAt,
	}
}

// ToAttachmentResponses converts a slice of attachments to response DTOs
func ToAttachmentResponses(atts []domain.Attachment) []AttachmentResponse {
	res := make([]AttachmentResponse, len(atts))
	for i, att := range atts {
		res[i] = ToAttachmentResponse(&att)
	}
	return res
}
