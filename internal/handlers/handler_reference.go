package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/journal_draft_app/internal/core/ports/services"
	"github.com/SscSPs/journal_draft_app/internal/dto"
	"github.com/SscSPs/journal_draft_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// referenceHandler serves the company reference data the entry editor needs.
type referenceHandler struct {
	referenceService portssvc.ReferenceDataSvc
}

// RegisterReferenceRoutes registers the reference-data routes under a company group.
func RegisterReferenceRoutes(rg *gin.RouterGroup, referenceService portssvc.ReferenceDataSvc) {
	h := &referenceHandler{referenceService: referenceService}

	rg.GET("/accounts", h.listAccounts)
	rg.GET("/currencies", h.listCurrencies)
	rg.GET("/counterparts", h.listCounterparts)
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the company's chart of accounts, including which accounts track quantities
// @Tags reference
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Accounting gateway error"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /companies/{companyID}/accounts [get]
func (h *referenceHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))

	accounts, err := h.referenceService.ListAccounts(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// listCurrencies godoc
// @Summary List currencies
// @Description Lists currencies; exactly one is marked as the base currency
// @Tags reference
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {array} dto.CurrencyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Accounting gateway error"
// @Failure 500 {object} map[string]string "Failed to list currencies"
// @Security BearerAuth
// @Router /companies/{companyID}/currencies [get]
func (h *referenceHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))

	currencies, err := h.referenceService.ListCurrencies(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list currencies")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// listCounterparts godoc
// @Summary List counterparts
// @Tags reference
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {array} dto.CounterpartResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Accounting gateway error"
// @Failure 500 {object} map[string]string "Failed to list counterparts"
// @Security BearerAuth
// @Router /companies/{companyID}/counterparts [get]
func (h *referenceHandler) listCounterparts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))

	counterparts, err := h.referenceService.ListCounterparts(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list counterparts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCounterpartResponse(counterparts))
}
