package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fiscalPeriodHandler handles HTTP requests related to fiscal periods.
type fiscalPeriodHandler struct {
	fiscalPeriodService portssvc.FiscalPeriodSvcFacade
}

// newFiscalPeriodHandler creates a new fiscalPeriodHandler.
func newFiscalPeriodHandler(fs portssvc.FiscalPeriodSvcFacade) *fiscalPeriodHandler {
	return &fiscalPeriodHandler{
		fiscalPeriodService: fs,
	}
}

// registerFiscalPeriodRoutes registers routes related to fiscal periods.
func registerFiscalPeriodRoutes(rg *gin.RouterGroup, fiscalPeriodService portssvc.FiscalPeriodSvcFacade) {
	h := newFiscalPeriodHandler(fiscalPeriodService)

	periods := rg.Group("/fiscal-periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:year/:month", h.getPeriod)
		periods.POST("/:year/:month/close", h.closeMonth)
		periods.POST("/:year/:month/file-tax", h.fileTax)
		periods.POST("/:year/:month/reopen", h.reopenMonth)
	}
}

// bindYearMonth parses the year and month path parameters.
func bindYearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return 0, 0, false
	}
	return year, month, true
}

// createPeriod godoc
// @Summary Create a fiscal period record
// @Description Creates an explicit OPEN record for a month; months without a record are OPEN by default
// @Tags fiscal-periods
// @Accept  json
// @Produce  json
// @Param   period body dto.CreateFiscalPeriodRequest true "Year and month"
// @Success 201 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Period already exists"
// @Failure 500 {object} map[string]string "Failed to create period"
// @Security BearerAuth
// @Router /fiscal-periods [post]
func (h *fiscalPeriodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.fiscalPeriodService.CreatePeriod(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Fiscal period already exists", slog.Int("year", req.Year), slog.Int("month", req.Month))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create fiscal period in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fiscal period"})
		}
		return
	}

	logger.Info("Fiscal period created", slog.Int("year", period.Year), slog.Int("month", period.Month))
	c.JSON(http.StatusCreated, dto.ToFiscalPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Description Retrieves fiscal period records, optionally narrowed to a year
// @Tags fiscal-periods
// @Produce  json
// @Param   year query int false "Filter by year"
// @Success 200 {object} dto.ListFiscalPeriodsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list periods"
// @Security BearerAuth
// @Router /fiscal-periods [get]
func (h *fiscalPeriodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListFiscalPeriodsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListPeriods", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	periods, err := h.fiscalPeriodService.ListPeriods(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list fiscal periods in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fiscal periods"})
		return
	}

	c.JSON(http.StatusOK, dto.ListFiscalPeriodsResponse{Periods: dto.ToListFiscalPeriodResponse(periods)})
}

// getPeriod godoc
// @Summary Get a fiscal period
// @Description Retrieves one month's period state; months without a record report OPEN
// @Tags fiscal-periods
// @Produce  json
// @Param   year path int true "Year"
// @Param   month path int true "Month"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve period"
// @Security BearerAuth
// @Router /fiscal-periods/{year}/{month} [get]
func (h *fiscalPeriodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, month, ok := bindYearMonth(c)
	if !ok {
		return
	}

	period, err := h.fiscalPeriodService.GetPeriod(c.Request.Context(), year, month)
	if err != nil {
		logger.Error("Failed to get fiscal period from service", slog.String("error", err.Error()), slog.Int("year", year), slog.Int("month", month))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fiscal period"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// closeMonth godoc
// @Summary Close a month
// @Description Moves an OPEN month to MONTH_CLOSED, blocking further posting into it
// @Tags fiscal-periods
// @Accept  json
// @Produce  json
// @Param   year path int true "Year"
// @Param   month path int true "Month"
// @Param   body body dto.CloseMonthRequest false "Closing notes"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Period is not OPEN"
// @Failure 500 {object} map[string]string "Failed to close month"
// @Security BearerAuth
// @Router /fiscal-periods/{year}/{month}/close [post]
func (h *fiscalPeriodHandler) closeMonth(c *gin.Context) {
	h.transition(c, "close", func(ctx *gin.Context, year, month int, notes, actorID string) (interface{}, error) {
		period, err := h.fiscalPeriodService.CloseMonth(ctx.Request.Context(), year, month, notes, actorID)
		if err != nil {
			return nil, err
		}
		return dto.ToFiscalPeriodResponse(period), nil
	})
}

// fileTax godoc
// @Summary Mark a month's tax as filed
// @Description Moves a MONTH_CLOSED month to TAX_FILED; TAX_FILED months can never be reopened
// @Tags fiscal-periods
// @Accept  json
// @Produce  json
// @Param   year path int true "Year"
// @Param   month path int true "Month"
// @Param   body body dto.FileTaxRequest false "Filing notes"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Period is not MONTH_CLOSED"
// @Failure 500 {object} map[string]string "Failed to file tax"
// @Security BearerAuth
// @Router /fiscal-periods/{year}/{month}/file-tax [post]
func (h *fiscalPeriodHandler) fileTax(c *gin.Context) {
	h.transition(c, "file-tax", func(ctx *gin.Context, year, month int, notes, actorID string) (interface{}, error) {
		period, err := h.fiscalPeriodService.FileTax(ctx.Request.Context(), year, month, notes, actorID)
		if err != nil {
			return nil, err
		}
		return dto.ToFiscalPeriodResponse(period), nil
	})
}

// reopenMonth godoc
// @Summary Reopen a closed month
// @Description Moves a MONTH_CLOSED month back to OPEN, clearing its closing stamps
// @Tags fiscal-periods
// @Accept  json
// @Produce  json
// @Param   year path int true "Year"
// @Param   month path int true "Month"
// @Param   body body dto.ReopenPeriodRequest false "Reopen notes"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Period is not MONTH_CLOSED"
// @Failure 500 {object} map[string]string "Failed to reopen month"
// @Security BearerAuth
// @Router /fiscal-periods/{year}/{month}/reopen [post]
func (h *fiscalPeriodHandler) reopenMonth(c *gin.Context) {
	h.transition(c, "reopen", func(ctx *gin.Context, year, month int, notes, actorID string) (interface{}, error) {
		period, err := h.fiscalPeriodService.ReopenMonth(ctx.Request.Context(), year, month, notes, actorID)
		if err != nil {
			return nil, err
		}
		return dto.ToFiscalPeriodResponse(period), nil
	})
}

// transition runs one fiscal period state change with shared binding and
// error mapping. All transition bodies carry only optional notes.
func (h *fiscalPeriodHandler) transition(c *gin.Context, action string, fn func(*gin.Context, int, int, string, string) (interface{}, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, month, ok := bindYearMonth(c)
	if !ok {
		return
	}

	var req dto.CloseMonthRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for period transition", slog.String("error", err.Error()), slog.String("action", action))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := fn(c, year, month, req.Notes, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Invalid fiscal period transition", slog.String("action", action), slog.Int("year", year), slog.Int("month", month), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Fiscal period transition failed in service", slog.String("action", action), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " fiscal period"})
		}
		return
	}

	logger.Info("Fiscal period transition succeeded", slog.String("action", action), slog.Int("year", year), slog.Int("month", month))
	c.JSON(http.StatusOK, result)
}
