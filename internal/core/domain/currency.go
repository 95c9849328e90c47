package domain

import "github.com/shopspring/decimal"

// Currency represents a supported currency in the domain.
// RateToUSD is maintained manually: 1 unit of this currency equals RateToUSD
// units of the reporting currency.
type Currency struct {
	CurrencyCode string          `json:"currencyCode"` // Primary Key (e.g., "USD")
	Name         string          `json:"name"`         // e.g., "US Dollar"
	Symbol       string          `json:"symbol"`       // e.g., "$"
	RateToUSD    decimal.Decimal `json:"rateToUSD"`
	IsDefault    bool            `json:"isDefault"` // At most one currency is the default at any time
	AuditFields
}
