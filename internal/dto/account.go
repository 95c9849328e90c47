package dto

import (
	"time"

	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
)

// CreateGLAccountRequest defines the data needed to create a GL account.
// The accounttype tag is a custom validator registered at startup.
type CreateGLAccountRequest struct {
	AccountNumber string             `json:"accountNumber" binding:"required"`
	Name          string             `json:"name" binding:"required"`
	AccountType   domain.AccountType `json:"accountType" binding:"required,accounttype"`
}

// UpdateGLAccountRequest defines the partially updatable GL account fields.
// The account number and type are immutable once assigned.
type UpdateGLAccountRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// GLAccountResponse defines the data returned for a GL account.
type GLAccountResponse struct {
	AccountID     string             `json:"accountID"`
	AccountNumber string             `json:"accountNumber"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// ToGLAccountResponse converts a domain.GLAccount to GLAccountResponse DTO
func ToGLAccountResponse(acc *domain.GLAccount) GLAccountResponse {
	return GLAccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// CreateSubAccountRequest defines the data needed to create a sub-account.
type CreateSubAccountRequest struct {
	AccountNumber string `json:"accountNumber" binding:"required"`
	Name          string `json:"name" binding:"required"`
	CurrencyCode  string `json:"currencyCode" binding:"required,uppercase,len=3"`
	GLAccountID   string `json:"glAccountID" binding:"required"`
}

// UpdateSubAccountRequest defines the partially updatable sub-account fields.
type UpdateSubAccountRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// SubAccountResponse defines the data returned for a sub-account.
type SubAccountResponse struct {
	AccountID     string    `json:"accountID"`
	AccountNumber string    `json:"accountNumber"`
	Name          string    `json:"name"`
	CurrencyCode  string    `json:"currencyCode"`
	GLAccountID   string    `json:"glAccountID"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToSubAccountResponse converts a domain.SubAccount to SubAccountResponse DTO
func ToSubAccountResponse(acc *domain.SubAccount) SubAccountResponse {
	return SubAccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		Name:          acc.Name,
		CurrencyCode:  acc.CurrencyCode,
		GLAccountID:   acc.GLAccountID,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}
