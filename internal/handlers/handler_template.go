package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// templateHandler handles HTTP requests related to journal templates.
type templateHandler struct {
	templateService portssvc.TemplateSvcFacade
}

// newTemplateHandler creates a new templateHandler.
func newTemplateHandler(ts portssvc.TemplateSvcFacade) *templateHandler {
	return &templateHandler{
		templateService: ts,
	}
}

// registerTemplateRoutes registers routes related to journal templates.
func registerTemplateRoutes(rg *gin.RouterGroup, templateService portssvc.TemplateSvcFacade) {
	h := newTemplateHandler(templateService)

	templates := rg.Group("/templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("/:id", h.getTemplate)
		templates.GET("", h.listTemplates)
		templates.PUT("/:id", h.updateTemplate)
		templates.DELETE("/:id", h.deleteTemplate)
		templates.POST("/:id/duplicate", h.duplicateTemplate)
		templates.GET("/:id/preview", h.previewTemplate)
		templates.POST("/validate-formula", h.validateFormula)
	}
}

// createTemplate godoc
// @Summary Create a journal template
// @Description Creates a new journal template with its formula-driven lines
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   template body dto.CreateTemplateRequest true "Template details"
// @Success 201 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Formula syntax error"
// @Failure 500 {object} map[string]string "Failed to create template"
// @Security BearerAuth
// @Router /templates [post]
func (h *templateHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	newTemplate, err := h.templateService.CreateTemplate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating template", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Template line account not found", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create template in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		}
		return
	}

	logger.Info("Template created successfully", slog.String("template_id", newTemplate.TemplateID))
	c.JSON(http.StatusCreated, dto.ToTemplateResponse(newTemplate))
}

// getTemplate godoc
// @Summary Get a template by ID
// @Description Retrieves a template with its current line set
// @Tags templates
// @Produce  json
// @Param   id path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to retrieve template"
// @Security BearerAuth
// @Router /templates/{id} [get]
func (h *templateHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")

	template, err := h.templateService.GetTemplateByID(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Template not found", slog.String("template_id", templateID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		logger.Error("Failed to get template from service", slog.String("error", err.Error()), slog.String("template_id", templateID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve template"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

// listTemplates godoc
// @Summary List templates
// @Description Retrieves templates, optionally filtered by category and active state
// @Tags templates
// @Produce  json
// @Param   category query string false "Filter by category (INCOME, EXPENSE, TRANSFER, ADJUSTMENT, SYSTEM)"
// @Param   activeOnly query bool false "Only return active templates"
// @Param   limit query int false "Maximum templates to return"
// @Param   offset query int false "Offset into the result set"
// @Success 200 {object} dto.ListTemplatesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list templates"
// @Security BearerAuth
// @Router /templates [get]
func (h *templateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTemplatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTemplates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list templates in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates"})
		return
	}

	c.JSON(http.StatusOK, dto.ListTemplatesResponse{Templates: dto.ToListTemplateResponse(templates)})
}

// updateTemplate godoc
// @Summary Update a template
// @Description Updates a template's details; replacing the line set bumps the template version
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   id path string true "Template ID"
// @Param   template body dto.UpdateTemplateRequest true "Fields to update"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 409 {object} map[string]string "System templates cannot be modified"
// @Failure 500 {object} map[string]string "Failed to update template"
// @Security BearerAuth
// @Router /templates/{id} [put]
func (h *templateHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.templateService.UpdateTemplate(c.Request.Context(), templateID, req, updaterUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Template not found for update", slog.String("template_id", templateID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		case errors.Is(err, services.ErrSystemTemplate):
			logger.Warn("Attempt to modify system template", slog.String("template_id", templateID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error updating template", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update template in service", slog.String("error", err.Error()), slog.String("template_id", templateID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template"})
		}
		return
	}

	logger.Info("Template updated successfully", slog.String("template_id", templateID), slog.Int("version", updated.Version))
	c.JSON(http.StatusOK, dto.ToTemplateResponse(updated))
}

// deleteTemplate godoc
// @Summary Delete a template
// @Description Deletes an unused, non-system template
// @Tags templates
// @Produce  json
// @Param   id path string true "Template ID"
// @Success 204 "Template deleted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 409 {object} map[string]string "Template is in use or is a system template"
// @Failure 500 {object} map[string]string "Failed to delete template"
// @Security BearerAuth
// @Router /templates/{id} [delete]
func (h *templateHandler) deleteTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")

	err := h.templateService.DeleteTemplate(c.Request.Context(), templateID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Template not found for deletion", slog.String("template_id", templateID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		case errors.Is(err, services.ErrSystemTemplate), errors.Is(err, services.ErrTemplateInUse):
			logger.Warn("Template cannot be deleted", slog.String("template_id", templateID), slog.String("reason", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to delete template in service", slog.String("error", err.Error()), slog.String("template_id", templateID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template"})
		}
		return
	}

	logger.Info("Template deleted successfully", slog.String("template_id", templateID))
	c.Status(http.StatusNoContent)
}

// duplicateTemplate godoc
// @Summary Duplicate a template
// @Description Copies a template into a fresh non-system template named "<name> (Copy)"
// @Tags templates
// @Produce  json
// @Param   id path string true "Template ID"
// @Success 201 {object} dto.TemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to duplicate template"
// @Security BearerAuth
// @Router /templates/{id}/duplicate [post]
func (h *templateHandler) duplicateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dup, err := h.templateService.DuplicateTemplate(c.Request.Context(), templateID, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Template not found for duplication", slog.String("template_id", templateID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		logger.Error("Failed to duplicate template in service", slog.String("error", err.Error()), slog.String("template_id", templateID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to duplicate template"})
		return
	}

	logger.Info("Template duplicated successfully", slog.String("template_id", dup.TemplateID))
	c.JSON(http.StatusCreated, dto.ToTemplateResponse(dup))
}

// previewTemplate godoc
// @Summary Preview a template
// @Description Evaluates every line of a template against a sample amount
// @Tags templates
// @Produce  json
// @Param   id path string true "Template ID"
// @Param   sampleAmount query string false "Sample principal amount (default 1000000)"
// @Success 200 {object} dto.PreviewTemplateResponse
// @Failure 400 {object} map[string]string "Invalid sample amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to preview template"
// @Security BearerAuth
// @Router /templates/{id}/preview [get]
func (h *templateHandler) previewTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")

	sample := decimal.NewFromInt(1000000)
	if raw := c.Query("sampleAmount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
			logger.Warn("Invalid sample amount for template preview", slog.String("sample_amount", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "sampleAmount must be a positive number"})
			return
		}
		sample = parsed
	}

	preview, err := h.templateService.PreviewTemplate(c.Request.Context(), templateID, sample)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Template not found for preview", slog.String("template_id", templateID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		logger.Error("Failed to preview template in service", slog.String("error", err.Error()), slog.String("template_id", templateID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to preview template"})
		return
	}

	c.JSON(http.StatusOK, preview)
}

// validateFormula godoc
// @Summary Validate a formula
// @Description Checks formula syntax and previews its result against a sample amount, without saving anything
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   formula body dto.ValidateFormulaRequest true "Formula to validate"
// @Success 200 {object} dto.ValidateFormulaResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /templates/validate-formula [post]
func (h *templateHandler) validateFormula(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ValidateFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ValidateFormula", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result := h.templateService.ValidateFormula(c.Request.Context(), req)
	c.JSON(http.StatusOK, result)
}
