package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/middleware"
)

// importHandler handles HTTP requests for batch transaction import.
type importHandler struct {
	importService portssvc.ImportService
}

// newImportHandler creates a new importHandler.
func newImportHandler(is portssvc.ImportService) *importHandler {
	return &importHandler{
		importService: is,
	}
}

// registerImportRoutes registers the import endpoint.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportService) {
	h := newImportHandler(importService)
	rg.POST("/import", h.importCSV)
}

// importCSV godoc
// @Summary Import journal entries from CSV
// @Description Parses a CSV body (columns: date, debit_account, credit_account, amount, currency, description, category, comment), validates every row, and commits all rows or none. The response reports per-row errors.
// @Tags import
// @Accept  text/csv
// @Produce  json
// @Success 200 {object} dto.ImportSummary
// @Failure 400 {object} map[string]string "Structurally invalid CSV"
// @Failure 422 {object} dto.ImportSummary "Rows rejected in validation"
// @Router /import [post]
func (h *importHandler) importCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.importService.ParseCSV(c.Request.Body)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Rejected structurally invalid import file", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to read import file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read import file"})
		return
	}

	summary, err := h.importService.ImportRows(c.Request.Context(), rows)
	if err != nil {
		logger.Error("Import failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}

	if summary.Failed > 0 {
		c.JSON(http.StatusUnprocessableEntity, summary)
		return
	}
	c.JSON(http.StatusOK, summary)
}
