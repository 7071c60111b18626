package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portssvc "github.com/SscSPs/journal_draft_app/internal/core/ports/services"
	"github.com/SscSPs/journal_draft_app/internal/dto"
	"github.com/SscSPs/journal_draft_app/internal/middleware"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/gin-gonic/gin"
)

// draftHandler handles HTTP requests related to journal entry drafts.
type draftHandler struct {
	draftService portssvc.DraftSvcFacade
}

// RegisterDraftRoutes registers the draft routes under a company group.
func RegisterDraftRoutes(rg *gin.RouterGroup, draftService portssvc.DraftSvcFacade) {
	registerBindingValidators()
	h := &draftHandler{draftService: draftService}

	drafts := rg.Group("/drafts")
	{
		drafts.POST("", h.createDraft)
		drafts.GET("", h.listDrafts)
		drafts.POST("/from-entry/:entryID", h.hydrateDraft)
		drafts.GET("/:draftID", h.getDraft)
		drafts.DELETE("/:draftID", h.discardDraft)
		drafts.PUT("/:draftID/header", h.setHeader)
		drafts.POST("/:draftID/lines", h.addLine)
		drafts.PATCH("/:draftID/lines/:index", h.updateLine)
		drafts.DELETE("/:draftID/lines/:index", h.removeLine)
		drafts.POST("/:draftID/submit", h.submitDraft)
	}
}

// requestScope pulls the logger and the authenticated user out of the request.
// It writes a 401 and returns ok=false when no user is present.
func requestScope(c *gin.Context) (*slog.Logger, string, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return logger, "", false
	}
	return logger.With(slog.String("user_id", userID)), userID, true
}

// lineIndex parses the 0-based :index path parameter.
func lineIndex(c *gin.Context) (int, error) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: line index must be an integer, got %q", apperrors.ErrValidation, c.Param("index"))
	}
	return idx, nil
}

// createDraft godoc
// @Summary Start a new journal entry draft
// @Description Creates a draft with one blank debit and one blank credit line in the base currency
// @Tags drafts
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 201 {object} dto.DraftResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Accounting gateway error"
// @Failure 500 {object} map[string]string "Failed to create draft"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts [post]
func (h *draftHandler) createDraft(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}

	view, err := h.draftService.CreateDraft(c.Request.Context(), c.Param("companyID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create draft")
		return
	}

	logger.Info("Draft created", slog.String("draft_id", view.Draft.DraftID))
	c.JSON(http.StatusCreated, dto.ToDraftResponse(*view))
}

// hydrateDraft godoc
// @Summary Start a draft from an existing journal entry
// @Description Loads a stored entry into a new draft; submitting it updates the entry
// @Tags drafts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entryID path string true "Journal entry ID"
// @Success 201 {object} dto.DraftResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 502 {object} map[string]string "Accounting gateway error"
// @Failure 500 {object} map[string]string "Failed to load journal entry"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts/from-entry/{entryID} [post]
func (h *draftHandler) hydrateDraft(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	view, err := h.draftService.HydrateDraft(c.Request.Context(), c.Param("companyID"), entryID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to load journal entry")
		return
	}

	logger.Info("Draft hydrated from entry", slog.String("draft_id", view.Draft.DraftID))
	c.JSON(http.StatusCreated, dto.ToDraftResponse(*view))
}

// listDrafts godoc
// @Summary List my drafts
// @Description Lists the caller's open drafts in a company, most recently updated first
// @Tags drafts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListDraftsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list drafts"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts [get]
func (h *draftHandler) listDrafts(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.ListDraftsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListDrafts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.draftService.ListDrafts(c.Request.Context(), c.Param("companyID"), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list drafts")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getDraft godoc
// @Summary Get a draft
// @Description Returns the draft with derived per-line flags, unit prices and the balance
// @Tags drafts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param draftID path string true "Draft ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Draft not found"
// @Failure 500 {object} map[string]string "Failed to retrieve draft"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts/{draftID} [get]
func (h *draftHandler) getDraft(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}

	view, err := h.draftService.GetDraft(c.Request.Context(), c.Param("companyID"), c.Param("draftID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve draft")
		return
	}

	c.JSON(http.StatusOK, dto.ToDraftResponse(*view))
}

// discardDraft godoc
// @Summary Discard a draft
// @Tags drafts
// @Param companyID path string true "Company ID"
// @Param draftID path string true "Draft ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Draft not found"
// @Failure 500 {object} map[string]string "Failed to discard draft"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts/{draftID} [delete]
func (h *draftHandler) discardDraft(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}
	draftID := c.Param("draftID")

	if err := h.draftService.DiscardDraft(c.Request.Context(), c.Param("companyID"), draftID, userID); err != nil {
		respondError(c, logger, err, "Failed to discard draft")
		return
	}

	logger.Info("Draft discarded", slog.String("draft_id", draftID))
	c.Status(http.StatusNoContent)
}

// setHeader godoc
// @Summary Set the entry header
// @Description Replaces document number, dates, description, counterpart and VAT classification
// @Tags drafts
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param draftID path string true "Draft ID"
// @Param header body dto.SetHeaderRequest true "Header"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Draft not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to update draft"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts/{draftID}/header [put]
func (h *draftHandler) setHeader(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.SetHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetHeader", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	header, err := req.ToDomainHeader()
	if err != nil {
		respondError(c, logger, err, "Failed to update draft")
		return
	}

	h.apply(c, logger, userID, accounting.SetHeaderAction{Header: header})
}

// addLine godoc
// @Summary Add a line
// @Description Appends a blank line on the given side in the base currency
// @Tags drafts
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param draftID path string true "Draft ID"
// @Param line body dto.AddLineRequest true "Side of the new line"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Draft not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to update draft"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts/{draftID}/lines [post]
func (h *draftHandler) addLine(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	side, err := domain.ParseSide(string(req.Side))
	if err != nil {
		respondError(c, logger, err, "Failed to update draft")
		return
	}

	h.apply(c, logger, userID, accounting.AddLineAction{Side: side})
}

// updateLine godoc
// @Summary Edit one field of a line
// @Description Sets a single field and re-derives dependent fields (amount, rate, unit)
// @Tags drafts
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param draftID path string true "Draft ID"
// @Param index path int true "0-based line index"
// @Param edit body dto.UpdateLineRequest true "Field and raw value"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Draft not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to update draft"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts/{draftID}/lines/{index} [patch]
func (h *draftHandler) updateLine(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}

	idx, err := lineIndex(c)
	if err != nil {
		respondError(c, logger, err, "Failed to update draft")
		return
	}
	var req dto.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	field, err := domain.ParseLineField(req.Field)
	if err != nil {
		respondError(c, logger, err, "Failed to update draft")
		return
	}

	h.apply(c, logger, userID, accounting.UpdateLineAction{Index: idx, Field: field, Value: req.Value})
}

// removeLine godoc
// @Summary Remove a line
// @Description Removes a line; a draft always keeps at least two lines
// @Tags drafts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param draftID path string true "Draft ID"
// @Param index path int true "0-based line index"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} map[string]string "Invalid index or too few lines"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Draft not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to update draft"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts/{draftID}/lines/{index} [delete]
func (h *draftHandler) removeLine(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}

	idx, err := lineIndex(c)
	if err != nil {
		respondError(c, logger, err, "Failed to update draft")
		return
	}

	h.apply(c, logger, userID, accounting.RemoveLineAction{Index: idx})
}

func (h *draftHandler) apply(c *gin.Context, logger *slog.Logger, userID string, action accounting.Action) {
	draftID := c.Param("draftID")
	logger = logger.With(slog.String("draft_id", draftID), slog.String("action", fmt.Sprintf("%T", action)))

	view, err := h.draftService.ApplyAction(c.Request.Context(), c.Param("companyID"), draftID, userID, action)
	if err != nil {
		respondError(c, logger, err, "Failed to update draft")
		return
	}

	logger.Debug("Draft action applied", slog.Int64("version", view.Draft.Version))
	c.JSON(http.StatusOK, dto.ToDraftResponse(*view))
}

// submitDraft godoc
// @Summary Submit a draft
// @Description Saves the draft as a journal entry (create, or update for hydrated drafts) and removes the draft
// @Tags drafts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param draftID path string true "Draft ID"
// @Success 201 {object} dto.SubmitDraftResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Draft not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 422 {object} dto.SubmitRejectedResponse "Unbalanced draft or lines without an account"
// @Failure 502 {object} map[string]string "Accounting gateway rejected the entry"
// @Failure 500 {object} map[string]string "Failed to submit draft"
// @Security BearerAuth
// @Router /companies/{companyID}/drafts/{draftID}/submit [post]
func (h *draftHandler) submitDraft(c *gin.Context) {
	logger, userID, ok := requestScope(c)
	if !ok {
		return
	}
	draftID := c.Param("draftID")
	logger = logger.With(slog.String("draft_id", draftID))

	resp, err := h.draftService.SubmitDraft(c.Request.Context(), c.Param("companyID"), draftID, userID)
	if err != nil {
		var unbalanced *accounting.UnbalancedError
		var missing *accounting.MissingAccountError
		switch {
		case errors.As(err, &missing):
			logger.Warn("Draft rejected: lines without account", slog.Any("lines", missing.LineNumbers))
			c.JSON(http.StatusUnprocessableEntity, dto.ToSubmitRejectedResponse(err, accounting.Balance{}, missing.LineNumbers))
		case errors.As(err, &unbalanced):
			logger.Warn("Draft rejected: unbalanced", slog.String("difference", unbalanced.Balance.Difference.StringFixed(2)))
			c.JSON(http.StatusUnprocessableEntity, dto.ToSubmitRejectedResponse(err, unbalanced.Balance, nil))
		default:
			respondError(c, logger, err, "Failed to submit draft")
		}
		return
	}

	logger.Info("Draft submitted", slog.String("entry_id", resp.EntryID), slog.Bool("updated", resp.Updated))
	c.JSON(http.StatusCreated, resp)
}
