package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// closingHandler handles HTTP requests for fiscal year closing.
type closingHandler struct {
	closingService portssvc.ClosingSvc
}

// newClosingHandler creates a new closingHandler.
func newClosingHandler(cs portssvc.ClosingSvc) *closingHandler {
	return &closingHandler{
		closingService: cs,
	}
}

// registerClosingRoutes registers routes related to fiscal year closing.
func registerClosingRoutes(rg *gin.RouterGroup, closingService portssvc.ClosingSvc) {
	h := newClosingHandler(closingService)

	closing := rg.Group("/closing")
	{
		closing.GET("/:year/preview", h.previewClosing)
		closing.POST("/:year/execute", h.executeClosing)
		closing.POST("/:year/reverse", h.reverseClosing)
	}
}

func bindClosingYear(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return 0, false
	}
	return year, true
}

// previewClosing godoc
// @Summary Preview fiscal year closing
// @Description Shows the closing entries that executing the closing would create, without side effects
// @Tags closing
// @Produce  json
// @Param   year path int true "Fiscal year"
// @Success 200 {object} dto.ClosingPreviewResponse
// @Failure 400 {object} map[string]string "Invalid year"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to preview closing"
// @Security BearerAuth
// @Router /closing/{year}/preview [get]
func (h *closingHandler) previewClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, ok := bindClosingYear(c)
	if !ok {
		return
	}

	preview, err := h.closingService.PreviewClosing(c.Request.Context(), year)
	if err != nil {
		logger.Error("Failed to preview closing in service", slog.String("error", err.Error()), slog.Int("year", year))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to preview closing"})
		return
	}

	c.JSON(http.StatusOK, dto.ToClosingPreviewResponse(preview))
}

// executeClosing godoc
// @Summary Execute fiscal year closing
// @Description Creates the posted closing transactions sweeping revenue and expense into equity
// @Tags closing
// @Produce  json
// @Param   year path int true "Fiscal year"
// @Success 200 {object} dto.ExecuteClosingResponse
// @Failure 400 {object} map[string]string "Invalid year"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Year already closed"
// @Failure 500 {object} map[string]string "Failed to execute closing"
// @Security BearerAuth
// @Router /closing/{year}/execute [post]
func (h *closingHandler) executeClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, ok := bindClosingYear(c)
	if !ok {
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txns, err := h.closingService.ExecuteClosing(c.Request.Context(), year, actorUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrYearAlreadyClosed), errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Fiscal year already closed", slog.Int("year", year))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Closing target account missing", slog.String("error", err.Error()), slog.Int("year", year))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to execute closing in service", slog.String("error", err.Error()), slog.Int("year", year))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute closing"})
		}
		return
	}

	// The revenue sweep's amount is total revenue and the expense sweep's is
	// total expense, so net income falls out of the returned transactions.
	netIncome := decimal.Zero
	for _, txn := range txns {
		if txn.ClosingSeq == nil {
			continue
		}
		switch *txn.ClosingSeq {
		case 1:
			netIncome = netIncome.Add(txn.Amount)
		case 2:
			netIncome = netIncome.Sub(txn.Amount)
		}
	}

	logger.Info("Fiscal year closed", slog.Int("year", year), slog.Int("closing_transactions", len(txns)))
	c.JSON(http.StatusOK, dto.ExecuteClosingResponse{
		Year:         year,
		NetIncome:    netIncome,
		Transactions: dto.ToListTransactionResponse(txns),
	})
}

// reverseClosing godoc
// @Summary Reverse fiscal year closing
// @Description Voids the year's posted closing transactions through the ordinary void path
// @Tags closing
// @Accept  json
// @Produce  json
// @Param   year path int true "Fiscal year"
// @Param   body body dto.VoidTransactionRequest true "Reversal reason"
// @Success 200 {object} dto.ExecuteClosingResponse
// @Failure 400 {object} map[string]string "Invalid year or request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Year has no closing to reverse"
// @Failure 500 {object} map[string]string "Failed to reverse closing"
// @Security BearerAuth
// @Router /closing/{year}/reverse [post]
func (h *closingHandler) reverseClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, ok := bindClosingYear(c)
	if !ok {
		return
	}

	var req dto.VoidTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseClosing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voided, err := h.closingService.ReverseClosing(c.Request.Context(), year, req.Reason, actorUserID)
	if err != nil {
		if errors.Is(err, services.ErrYearNotClosed) {
			logger.Warn("No closing to reverse", slog.Int("year", year))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to reverse closing in service", slog.String("error", err.Error()), slog.Int("year", year))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse closing"})
		}
		return
	}

	logger.Info("Fiscal year closing reversed", slog.Int("year", year), slog.Int("voided_transactions", len(voided)))
	c.JSON(http.StatusOK, dto.ExecuteClosingResponse{
		Year:         year,
		Transactions: dto.ToListTransactionResponse(voided),
	})
}
