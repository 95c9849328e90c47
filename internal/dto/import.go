package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ImportRow is one externally supplied transaction row. Accounts are
// referenced by business account number, not internal ID.
type ImportRow struct {
	EntryDate           time.Time       `json:"entryDate"`
	DebitAccountNumber  string          `json:"debitAccountNumber"`
	CreditAccountNumber string          `json:"creditAccountNumber"`
	Amount              decimal.Decimal `json:"amount"`
	CurrencyCode        string          `json:"currencyCode"`
	Description         string          `json:"description"`
	Category            string          `json:"category,omitempty"`
	Comment             string          `json:"comment,omitempty"`
}

// ImportRowError attributes a validation failure to its 1-based row number.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e ImportRowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Reason)
}

// ImportSummary reports the outcome of a batch import. The batch is atomic:
// Succeeded is either Attempted or zero.
type ImportSummary struct {
	Attempted int              `json:"attempted"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Errors    []ImportRowError `json:"errors"`
}
