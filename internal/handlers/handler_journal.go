package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
	"github.com/openbooks-app/openbooks_backend/internal/middleware"
)

// maxAttachmentBytes caps uploaded attachment size.
const maxAttachmentBytes = 10 << 20

// journalHandler handles HTTP requests for journal entries and attachments.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes for journal entries and attachments.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.POST("/:entryID/attachments", h.addAttachment)
		entries.GET("/:entryID/attachments", h.listAttachments)
	}

	attachments := rg.Group("/attachments")
	{
		attachments.GET("/:attachmentID", h.downloadAttachment)
		attachments.DELETE("/:attachmentID", h.deleteAttachment)
	}
}

// respondJournalError maps journal service error kinds onto HTTP statuses.
func respondJournalError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Referenced record not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvariant), errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Entry rejected", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPersistence):
		logger.Error("Change committed but checkpoint failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Change saved in memory but durability checkpoint failed; it will be retried"})
	default:
		logger.Error("Journal operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Journal operation failed"})
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Admits a double-entry transaction: one debit leg, one credit leg, positive amount
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid or invariant-violating entry"
// @Failure 404 {object} map[string]string "Referenced account or currency not found"
// @Router /entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.journalService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		respondJournalError(c, logger, err, "create_entry")
		return
	}

	logger.Info("Journal entry created successfully", slog.String("entry_id", created.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(created))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves entries newest first, optionally filtered by account and day-granular date range
// @Tags entries
// @Produce  json
// @Param   accountID query string false "Filter to entries touching this sub-account"
// @Param   from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   to query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondJournalError(c, logger, err, "list_entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponses(entries))
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		respondJournalError(c, logger, err, "get_entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a journal entry
// @Description Applies a partial update; the full entry contract is re-checked and a changed amount or currency recomputes the stored reporting-currency amount
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid or invariant-violating update"
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{entryID} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("entry_id", entryID))

	updated, err := h.journalService.UpdateEntry(c.Request.Context(), entryID, req)
	if err != nil {
		respondJournalError(c, logger, err, "update_entry")
		return
	}

	logger.Info("Journal entry updated successfully")
	c.JSON(http.StatusOK, dto.ToEntryResponse(updated))
}

// deleteEntry godoc
// @Summary Delete a journal entry
// @Description Removes an entry and cascades to its attachments
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 204 "Entry deleted"
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	if err := h.journalService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		respondJournalError(c, logger, err, "delete_entry")
		return
	}

	logger.Info("Journal entry deleted successfully")
	c.Status(http.StatusNoContent)
}

// addAttachment godoc
// @Summary Attach a file to a journal entry
// @Description Accepts a multipart file upload bound to the entry
// @Tags attachments
// @Accept  multipart/form-data
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   file formData file true "File to attach"
// @Success 201 {object} dto.AttachmentResponse
// @Failure 400 {object} map[string]string "Missing or oversized file"
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{entryID}/attachments [post]
func (h *journalHandler) addAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Missing file in attachment upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'file' form field is required"})
		return
	}
	if fileHeader.Size > maxAttachmentBytes {
		logger.Warn("Attachment too large", slog.Int64("size", fileHeader.Size))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Attachment exceeds the 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	req := dto.AddAttachmentRequest{
		FileName:  fileHeader.Filename,
		MediaType: fileHeader.Header.Get("Content-Type"),
		Data:      data,
	}

	created, err := h.journalService.AddAttachment(c.Request.Context(), entryID, req)
	if err != nil {
		respondJournalError(c, logger, err, "add_attachment")
		return
	}

	logger.Info("Attachment added successfully", slog.String("attachment_id", created.AttachmentID))
	c.JSON(http.StatusCreated, dto.ToAttachmentResponse(created))
}

// listAttachments godoc
// @Summary List attachments of a journal entry
// @Tags attachments
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {array} dto.AttachmentResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{entryID}/attachments [get]
func (h *journalHandler) listAttachments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	attachments, err := h.journalService.ListAttachments(c.Request.Context(), entryID)
	if err != nil {
		respondJournalError(c, logger, err, "list_attachments")
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentResponses(attachments))
}

// downloadAttachment godoc
// @Summary Download an attachment
// @Description Serves the stored file bytes with the original media type
// @Tags attachments
// @Produce  octet-stream
// @Param   attachmentID path string true "Attachment ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Attachment not found"
// @Router /attachments/{attachmentID} [get]
func (h *journalHandler) downloadAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	attachmentID := c.Param("attachmentID")
	logger = logger.With(slog.String("attachment_id", attachmentID))

	attachment, err := h.journalService.GetAttachmentByID(c.Request.Context(), attachmentID)
	if err != nil {
		respondJournalError(c, logger, err, "download_attachment")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+attachment.FileName+`"`)
	c.Data(http.StatusOK, attachment.MediaType, attachment.Data)
}

// deleteAttachment godoc
// @Summary Delete an attachment
// @Tags attachments
// @Produce  json
// @Param   attachmentID path string true "Attachment ID"
// @Success 204 "Attachment deleted"
// @Failure 404 {object} map[string]string "Attachment not found"
// @Router /attachments/{attachmentID} [delete]
func (h *journalHandler) deleteAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	attachmentID := c.Param("attachmentID")
	logger = logger.With(slog.String("attachment_id", attachmentID))

	if err := h.journalService.DeleteAttachment(c.Request.Context(), attachmentID); err != nil {
		respondJournalError(c, logger, err, "delete_attachment")
		return
	}

	logger.Info("Attachment deleted successfully")
	c.Status(http.StatusNoContent)
}
