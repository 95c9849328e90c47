package domain

// AccountType defines the fundamental accounting type of a GL account.
type AccountType string

const (
	Asset              AccountType = "ASSET"
	Cash               AccountType = "CASH"
	AccountsReceivable AccountType = "ACCOUNTS_RECEIVABLE"
	Equity             AccountType = "EQUITY"
	AccountsPayable    AccountType = "ACCOUNTS_PAYABLE"
	Profit             AccountType = "PROFIT"
	Loss               AccountType = "LOSS"
	OpeningBalance     AccountType = "OPENING_BALANCE"
)

// NormalSide is the posting side on which an account type's balance grows.
type NormalSide string

const (
	DebitNormal  NormalSide = "DEBIT"
	CreditNormal NormalSide = "CREDIT"
)

// normalSides maps every account type to its normal balance side. Opening
// balance accounts follow debit-normal arithmetic but are filtered out of
// every report view.
var normalSides = map[AccountType]NormalSide{
	Asset:              DebitNormal,
	Cash:               DebitNormal,
	AccountsReceivable: DebitNormal,
	Loss:               DebitNormal,
	OpeningBalance:     DebitNormal,
	Equity:             CreditNormal,
	AccountsPayable:    CreditNormal,
	Profit:             CreditNormal,
}

// NormalSide returns the normal balance side for the account type.
// The bool is false for an unknown type.
func (t AccountType) NormalSide() (NormalSide, bool) {
	side, ok := normalSides[t]
	return side, ok
}

// IsValid reports whether the account type belongs to the closed set.
func (t AccountType) IsValid() bool {
	_, ok := normalSides[t]
	return ok
}

// GLAccount is a top-level general-ledger category account. Monetary activity
// is never posted against it directly; it classifies its sub-accounts for
// reporting and determines their normal balance side.
type GLAccount struct {
	AccountID     string      `json:"accountID"`     // Primary Key (UUID)
	AccountNumber string      `json:"accountNumber"` // Unique business key (e.g., "1000")
	Name          string      `json:"name"`
	AccountType   AccountType `json:"accountType"`
	IsActive      bool        `json:"isActive"`
	AuditFields
}

// SubAccount is the account journal entries actually post to. It belongs to
// exactly one GL account and carries its own currency.
type SubAccount struct {
	AccountID     string `json:"accountID"`     // Primary Key (UUID)
	AccountNumber string `json:"accountNumber"` // Unique business key (e.g., "1001")
	Name          string `json:"name"`
	CurrencyCode  string `json:"currencyCode"` // FK -> currencies.code
	GLAccountID   string `json:"glAccountID"`  // FK -> gl_accounts.account_id
	IsActive      bool   `json:"isActive"`
	AuditFields
}
