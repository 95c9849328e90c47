package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one double-entry transaction: exactly one debit leg and one
// credit leg, both referencing sub-accounts. AmountInUSD is derived at write
// time from Amount and the entry currency's rate and is never recomputed on
// read.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`   // Primary Key (UUID)
	EntryDate       time.Time       `json:"entryDate"` // Date the event occurred
	Amount          decimal.Decimal `json:"amount"`    // Always positive, in CurrencyCode
	CurrencyCode    string          `json:"currencyCode"`
	AmountInUSD     decimal.Decimal `json:"amountInUSD"` // round2(Amount * rate), half-up
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Description     string          `json:"description"`
	Category        string          `json:"category,omitempty"`
	Comment         string          `json:"comment,omitempty"`
	AuditFields
}

// Attachment is a binary file bound to exactly one journal entry. Deleting
// the entry removes its attachments.
type Attachment struct {
	AttachmentID string `json:"attachmentID"` // Primary Key (UUID)
	EntryID      string `json:"entryID"`      // FK -> journal_entries.entry_id
	FileName     string `json:"fileName"`
	MediaType    string `json:"mediaType"`
	SizeBytes    int64  `json:"sizeBytes"`
	Data         []byte `json:"data"`
	AuditFields
}
