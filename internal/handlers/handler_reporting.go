package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for ledger reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/income-statement", h.getIncomeStatement)
	}
	rg.GET("/ledger/:accountID", h.getGeneralLedger)
}

// bindDateRange parses the from/to query parameters shared by reports.
func bindDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	var params dto.GeneralLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return time.Time{}, time.Time{}, false
	}

	from, _ := time.Parse("2006-01-02", params.From)
	to, _ := time.Parse("2006-01-02", params.To)
	return from, to, true
}

// getIncomeStatement godoc
// @Summary Income statement
// @Description Aggregates revenue and expense account balances over a date range
// @Tags reports
// @Produce  json
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} map[string]string "Invalid or reversed date range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build income statement"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	statement, err := h.reportingService.GetIncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateRange) {
			logger.Warn("Invalid date range for income statement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to build income statement in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build income statement"})
		return
	}

	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(statement, from, to))
}

// getGeneralLedger godoc
// @Summary General ledger
// @Description Returns one account's entries over a date range with opening, running and closing balances
// @Tags reports
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.GeneralLedgerResponse
// @Failure 400 {object} map[string]string "Invalid or reversed date range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build general ledger"
// @Security BearerAuth
// @Router /ledger/{accountID} [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	ledger, err := h.reportingService.GetGeneralLedger(c.Request.Context(), accountID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Account not found for general ledger", slog.String("account_id", accountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, services.ErrInvalidDateRange):
			logger.Warn("Invalid date range for general ledger", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to build general ledger in service", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build general ledger"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToGeneralLedgerResponse(ledger))
}
