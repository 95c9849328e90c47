package services

import (
	"context"
	"io"

	"github.com/openbooks-app/openbooks_backend/internal/dto"
)

// ImportService commits an externally supplied batch of transaction rows
// all-or-nothing: every row is validated against a consistent snapshot of
// accounts and currencies before any row is written.
type ImportService interface {
	// ParseCSV reads header-prefixed CSV rows into import rows.
	ParseCSV(r io.Reader) ([]dto.ImportRow, error)

	// ImportRows runs the two-phase validate-then-commit protocol.
	ImportRows(ctx context.Context, rows []dto.ImportRow) (*dto.ImportSummary, error)
}
