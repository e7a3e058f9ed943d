package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/formula"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
)

var (
	ErrTemplateMinLines    = errors.New("template must have at least two journal lines")
	ErrTemplateOneSided    = errors.New("template must have at least one debit and one credit line")
	ErrSystemTemplate      = errors.New("system templates cannot be modified or deleted")
	ErrTemplateInUse       = errors.New("template has been used and cannot be deleted")
	ErrTemplateInactiveAcc = errors.New("template line references an inactive account")
)

// templateService provides journal template operations.
type templateService struct {
	templateRepo portsrepo.TemplateRepositoryFacade
	accountRepo  portsrepo.AccountReader
}

// NewTemplateService creates a new template service.
func NewTemplateService(templateRepo portsrepo.TemplateRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.TemplateSvcFacade {
	return &templateService{
		templateRepo: templateRepo,
		accountRepo:  accountRepo,
	}
}

var _ portssvc.TemplateSvcFacade = (*templateService)(nil)

// validateLines checks structural rules and formula syntax for a line set.
// Formula validation is syntax-only: unknown variables surface at posting time.
func (s *templateService) validateLines(ctx context.Context, lines []dto.CreateTemplateLineRequest) error {
	if len(lines) < 2 {
		return ErrTemplateMinLines
	}

	hasDebit, hasCredit := false, false
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Side == domain.Debit {
			hasDebit = true
		} else {
			hasCredit = true
		}
		accountIDs = append(accountIDs, line.AccountID)

		if problems := formula.Validate(line.Formula); len(problems) > 0 {
			return fmt.Errorf("%w: formula %q: %s", apperrors.ErrValidation, line.Formula, problems[0])
		}
	}
	if !hasDebit || !hasCredit {
		return ErrTemplateOneSided
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return fmt.Errorf("failed to fetch line accounts: %w", err)
	}
	for _, line := range lines {
		acc, found := accountsMap[line.AccountID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s", ErrTemplateInactiveAcc, acc.AccountCode)
		}
	}
	return nil
}

func (s *templateService) buildLines(templateID string, lines []dto.CreateTemplateLineRequest) []domain.JournalTemplateLine {
	domainLines := make([]domain.JournalTemplateLine, len(lines))
	for i, line := range lines {
		domainLines[i] = domain.JournalTemplateLine{
			LineID:     uuid.NewString(),
			TemplateID: templateID,
			AccountID:  line.AccountID,
			Side:       line.Side,
			Formula:    line.Formula,
			LineOrder:  i + 1,
			Memo:       line.Memo,
		}
	}
	return domainLines
}

func (s *templateService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorID string) (*domain.JournalTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateLines(ctx, req.Lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	templateID := uuid.NewString()

	template := domain.JournalTemplate{
		TemplateID:   templateID,
		TemplateName: req.TemplateName,
		Category:     req.Category,
		Description:  req.Description,
		IsSystem:     false,
		IsActive:     true,
		Version:      1,
		Lines:        s.buildLines(templateID, req.Lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("Failed to save template", slog.String("error", err.Error()), slog.String("template_name", req.TemplateName))
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	logger.Info("Template created successfully", slog.String("template_id", templateID), slog.String("category", string(req.Category)))
	return &template, nil
}

func (s *templateService) GetTemplateByID(ctx context.Context, templateID string) (*domain.JournalTemplate, error) {
	template, err := s.templateRepo.FindTemplateWithLines(ctx, templateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		}
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	return template, nil
}

func (s *templateService) ListTemplates(ctx context.Context, params dto.ListTemplatesParams) ([]domain.JournalTemplate, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	templates, err := s.templateRepo.ListTemplates(ctx, params.Category, params.ActiveOnly, limit, params.Offset)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list templates", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateTemplateRequest, updaterID string) (*domain.JournalTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	template, err := s.templateRepo.FindTemplateWithLines(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	if template.IsSystem {
		return nil, fmt.Errorf("%w: %s", ErrSystemTemplate, templateID)
	}

	updated := false
	if req.TemplateName != nil {
		template.TemplateName = *req.TemplateName
		updated = true
	}
	if req.Category != nil {
		template.Category = *req.Category
		updated = true
	}
	if req.Description != nil {
		template.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
		updated = true
	}
	if req.Lines != nil {
		if err := s.validateLines(ctx, *req.Lines); err != nil {
			return nil, err
		}
		template.Lines = s.buildLines(templateID, *req.Lines)
		// Replacing the line set bumps the version; already-posted entries
		// keep the values computed at post time.
		template.Version++
		updated = true
	}

	if !updated {
		return template, nil
	}

	now := time.Now().UTC()
	template.LastUpdatedAt = now
	template.LastUpdatedBy = updaterID

	if err := s.templateRepo.UpdateTemplate(ctx, *template); err != nil {
		logger.Error("Failed to update template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	logger.Info("Template updated successfully", slog.String("template_id", templateID), slog.Int("version", template.Version))
	return template, nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, templateID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	if template.IsSystem {
		return fmt.Errorf("%w: %s", ErrSystemTemplate, templateID)
	}
	if template.UsageCount > 0 {
		return fmt.Errorf("%w: used %d times", ErrTemplateInUse, template.UsageCount)
	}

	if err := s.templateRepo.DeleteTemplate(ctx, templateID); err != nil {
		logger.Error("Failed to delete template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return fmt.Errorf("failed to delete template: %w", err)
	}

	logger.Info("Template deleted", slog.String("template_id", templateID))
	return nil
}

func (s *templateService) DuplicateTemplate(ctx context.Context, templateID string, creatorID string) (*domain.JournalTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.templateRepo.FindTemplateWithLines(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}

	now := time.Now().UTC()
	copyID := uuid.NewString()

	// Copies always start as editable user templates, even when the source
	// is a system template.
	dup := domain.JournalTemplate{
		TemplateID:   copyID,
		TemplateName: source.TemplateName + " (Copy)",
		Category:     source.Category,
		Description:  source.Description,
		IsSystem:     false,
		IsActive:     true,
		Version:      1,
		Lines:        make([]domain.JournalTemplateLine, len(source.Lines)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	for i, line := range source.Lines {
		dup.Lines[i] = domain.JournalTemplateLine{
			LineID:     uuid.NewString(),
			TemplateID: copyID,
			AccountID:  line.AccountID,
			Side:       line.Side,
			Formula:    line.Formula,
			LineOrder:  line.LineOrder,
			Memo:       line.Memo,
		}
	}

	if err := s.templateRepo.SaveTemplate(ctx, dup); err != nil {
		logger.Error("Failed to save duplicated template", slog.String("error", err.Error()), slog.String("source_template_id", templateID))
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	logger.Info("Template duplicated", slog.String("source_template_id", templateID), slog.String("template_id", copyID))
	return &dup, nil
}

func (s *templateService) PreviewTemplate(ctx context.Context, templateID string, sampleAmount decimal.Decimal) (*dto.PreviewTemplateResponse, error) {
	template, err := s.templateRepo.FindTemplateWithLines(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}

	resp := &dto.PreviewTemplateResponse{
		TemplateID:   templateID,
		SampleAmount: sampleAmount,
		Lines:        make([]dto.TemplatePreviewLineResponse, len(template.Lines)),
	}
	for i, line := range template.Lines {
		resp.Lines[i] = dto.TemplatePreviewLineResponse{
			LineID:    line.LineID,
			AccountID: line.AccountID,
			Side:      line.Side,
			Formula:   line.Formula,
			LineOrder: line.LineOrder,
			Amount:    formula.Preview(line.Formula, sampleAmount),
		}
	}
	return resp, nil
}

func (s *templateService) ValidateFormula(ctx context.Context, req dto.ValidateFormulaRequest) dto.ValidateFormulaResponse {
	problems := formula.Validate(req.Formula)
	resp := dto.ValidateFormulaResponse{
		Valid:  len(problems) == 0,
		Errors: problems,
	}
	if resp.Valid {
		sample := decimal.NewFromInt(1000000)
		if req.SampleAmount != nil {
			sample = *req.SampleAmount
		}
		resp.Preview = formula.Preview(req.Formula, sample)
	}
	return resp
}
