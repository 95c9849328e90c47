package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/middleware"
)

// reportingHandler handles HTTP requests for the derived report views.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers the report endpoints.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/profit-and-loss", h.profitAndLoss)
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/ledger/:accountID", h.accountLedger)
	}
}

// parseDateParam reads a YYYY-MM-DD query parameter, defaulting when absent.
func parseDateParam(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid '" + name + "' date, want YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

// respondReportError maps reporting service errors onto HTTP statuses.
func respondReportError(c *gin.Context, logger *slog.Logger, err error, report string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Report target not found", slog.String("report", report), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Invalid report request", slog.String("report", report), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Error("Failed to generate report", slog.String("report", report), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
}

// balanceSheet godoc
// @Summary Balance sheet
// @Description Assets, liabilities, and equity as of a date, with retained earnings folded into equity and a balanced flag
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Param   currency query string false "Display currency code, defaults to the reporting currency"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Display currency not found"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf, c.Query("currency"))
	if err != nil {
		respondReportError(c, logger, err, "balance_sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

// profitAndLoss godoc
// @Summary Profit and loss
// @Description Revenue and expense balances over an inclusive date range
// @Tags reports
// @Produce  json
// @Param   from query string true "Inclusive start date (YYYY-MM-DD)"
// @Param   to query string false "Inclusive end date (YYYY-MM-DD), defaults to today"
// @Param   currency query string false "Display currency code"
// @Success 200 {object} domain.PAndLReport
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if c.Query("from") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'from' date is required"})
		return
	}
	from, ok := parseDateParam(c, "from", time.Time{})
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to", time.Now())
	if !ok {
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' must not precede 'from'"})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), from, to, c.Query("currency"))
	if err != nil {
		respondReportError(c, logger, err, "profit_and_loss")
		return
	}
	c.JSON(http.StatusOK, report)
}

// trialBalance godoc
// @Summary Trial balance
// @Description Every account with a non-zero balance as of a date, in natural account number order
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Param   currency query string false "Display currency code"
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := parseDateParam(c, "asOf", time.Now())
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf, c.Query("currency"))
	if err != nil {
		respondReportError(c, logger, err, "trial_balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

// accountLedger godoc
// @Summary Account ledger
// @Description Chronological entries touching one sub-account with a running balance after each
// @Tags reports
// @Produce  json
// @Param   accountID path string true "Sub-account ID"
// @Param   from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   to query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} domain.AccountLedgerReport
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /reports/ledger/{accountID} [get]
func (h *reportingHandler) accountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var from, to *time.Time
	if c.Query("from") != "" {
		t, ok := parseDateParam(c, "from", time.Time{})
		if !ok {
			return
		}
		from = &t
	}
	if c.Query("to") != "" {
		t, ok := parseDateParam(c, "to", time.Time{})
		if !ok {
			return
		}
		to = &t
	}

	report, err := h.reportingService.AccountLedger(c.Request.Context(), accountID, from, to)
	if err != nil {
		respondReportError(c, logger, err, "account_ledger")
		return
	}
	c.JSON(http.StatusOK, report)
}
