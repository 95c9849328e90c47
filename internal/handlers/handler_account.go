package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
	"github.com/openbooks-app/openbooks_backend/internal/middleware"
)

// accountHandler handles HTTP requests for GL accounts and sub-accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes for the chart of accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	glAccounts := rg.Group("/gl-accounts")
	{
		glAccounts.POST("", h.createGLAccount)
		glAccounts.GET("", h.listGLAccounts)
		glAccounts.GET("/:accountID", h.getGLAccount)
		glAccounts.PUT("/:accountID", h.updateGLAccount)
		glAccounts.DELETE("/:accountID", h.deleteGLAccount)
	}

	subAccounts := rg.Group("/sub-accounts")
	{
		subAccounts.POST("", h.createSubAccount)
		subAccounts.GET("", h.listSubAccounts)
		subAccounts.GET("/:accountID", h.getSubAccount)
		subAccounts.PUT("/:accountID", h.updateSubAccount)
		subAccounts.DELETE("/:accountID", h.deleteSubAccount)
	}
}

// respondAccountError maps the shared account service error kinds onto HTTP
// statuses. Handler-specific cases are dealt with before calling this.
func respondAccountError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Account not found", slog.String("action", action))
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate account number", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Account still referenced", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Account operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account operation failed"})
	}
}

// createGLAccount godoc
// @Summary Create a GL account
// @Description Adds a general ledger account with one of the closed set of account types
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateGLAccountRequest true "GL account details"
// @Success 201 {object} dto.GLAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Account number already exists"
// @Router /gl-accounts [post]
func (h *accountHandler) createGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGLAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGLAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create GL account", slog.String("account_number", req.AccountNumber))

	created, err := h.accountService.CreateGLAccount(c.Request.Context(), req)
	if err != nil {
		respondAccountError(c, logger, err, "create_gl_account")
		return
	}

	logger.Info("GL account created successfully", slog.String("account_id", created.AccountID))
	c.JSON(http.StatusCreated, dto.ToGLAccountResponse(created))
}

// listGLAccounts godoc
// @Summary List GL accounts
// @Description Retrieves all general ledger accounts in natural account number order
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.GLAccountResponse
// @Router /gl-accounts [get]
func (h *accountHandler) listGLAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListGLAccounts(c.Request.Context())
	if err != nil {
		respondAccountError(c, logger, err, "list_gl_accounts")
		return
	}

	responses := make([]dto.GLAccountResponse, len(accounts))
	for i, acc := range accounts {
		responses[i] = dto.ToGLAccountResponse(&acc)
	}
	c.JSON(http.StatusOK, responses)
}

// getGLAccount godoc
// @Summary Get a GL account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "GL account ID"
// @Success 200 {object} dto.GLAccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /gl-accounts/{accountID} [get]
func (h *accountHandler) getGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID))

	account, err := h.accountService.GetGLAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondAccountError(c, logger, err, "get_gl_account")
		return
	}

	c.JSON(http.StatusOK, dto.ToGLAccountResponse(account))
}

// updateGLAccount godoc
// @Summary Update a GL account
// @Description Updates a GL account's name or active flag. Number and type are immutable.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "GL account ID"
// @Param   account body dto.UpdateGLAccountRequest true "Fields to update"
// @Success 200 {object} dto.GLAccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /gl-accounts/{accountID} [put]
func (h *accountHandler) updateGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.UpdateGLAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateGLAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_id", accountID))

	updated, err := h.accountService.UpdateGLAccount(c.Request.Context(), accountID, req)
	if err != nil {
		respondAccountError(c, logger, err, "update_gl_account")
		return
	}

	logger.Info("GL account updated successfully")
	c.JSON(http.StatusOK, dto.ToGLAccountResponse(updated))
}

// deleteGLAccount godoc
// @Summary Delete a GL account
// @Description Removes a GL account that has no sub-accounts
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "GL account ID"
// @Success 204 "Account deleted"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account still has sub-accounts"
// @Router /gl-accounts/{accountID} [delete]
func (h *accountHandler) deleteGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID))

	if err := h.accountService.DeleteGLAccount(c.Request.Context(), accountID); err != nil {
		respondAccountError(c, logger, err, "delete_gl_account")
		return
	}

	logger.Info("GL account deleted successfully")
	c.Status(http.StatusNoContent)
}

// createSubAccount godoc
// @Summary Create a sub-account
// @Description Adds a transactable sub-account under a GL account, denominated in one currency
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateSubAccountRequest true "Sub-account details"
// @Success 201 {object} dto.SubAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Parent GL account or currency not found"
// @Failure 409 {object} map[string]string "Account number already exists"
// @Router /sub-accounts [post]
func (h *accountHandler) createSubAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSubAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSubAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create sub-account", slog.String("account_number", req.AccountNumber))

	created, err := h.accountService.CreateSubAccount(c.Request.Context(), req)
	if err != nil {
		respondAccountError(c, logger, err, "create_sub_account")
		return
	}

	logger.Info("Sub-account created successfully", slog.String("account_id", created.AccountID))
	c.JSON(http.StatusCreated, dto.ToSubAccountResponse(created))
}

// listSubAccounts godoc
// @Summary List sub-accounts
// @Description Retrieves all sub-accounts in natural account number order
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.SubAccountResponse
// @Router /sub-accounts [get]
func (h *accountHandler) listSubAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListSubAccounts(c.Request.Context())
	if err != nil {
		respondAccountError(c, logger, err, "list_sub_accounts")
		return
	}

	responses := make([]dto.SubAccountResponse, len(accounts))
	for i, acc := range accounts {
		responses[i] = dto.ToSubAccountResponse(&acc)
	}
	c.JSON(http.StatusOK, responses)
}

// getSubAccount godoc
// @Summary Get a sub-account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Sub-account ID"
// @Success 200 {object} dto.SubAccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /sub-accounts/{accountID} [get]
func (h *accountHandler) getSubAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID))

	account, err := h.accountService.GetSubAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondAccountError(c, logger, err, "get_sub_account")
		return
	}

	c.JSON(http.StatusOK, dto.ToSubAccountResponse(account))
}

// updateSubAccount godoc
// @Summary Update a sub-account
// @Description Updates a sub-account's name or active flag. Number, currency, and parent are immutable.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Sub-account ID"
// @Param   account body dto.UpdateSubAccountRequest true "Fields to update"
// @Success 200 {object} dto.SubAccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /sub-accounts/{accountID} [put]
func (h *accountHandler) updateSubAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.UpdateSubAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSubAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_id", accountID))

	updated, err := h.accountService.UpdateSubAccount(c.Request.Context(), accountID, req)
	if err != nil {
		respondAccountError(c, logger, err, "update_sub_account")
		return
	}

	logger.Info("Sub-account updated successfully")
	c.JSON(http.StatusOK, dto.ToSubAccountResponse(updated))
}

// deleteSubAccount godoc
// @Summary Delete a sub-account
// @Description Removes a sub-account that no journal entry references
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Sub-account ID"
// @Success 204 "Account deleted"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account still referenced by entries"
// @Router /sub-accounts/{accountID} [delete]
func (h *accountHandler) deleteSubAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID))

	if err := h.accountService.DeleteSubAccount(c.Request.Context(), accountID); err != nil {
		respondAccountError(c, logger, err, "delete_sub_account")
		return
	}

	logger.Info("Sub-account deleted successfully")
	c.Status(http.StatusNoContent)
}
