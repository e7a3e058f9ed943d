package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
)

// TemplateReaderSvc defines read operations for journal templates
type TemplateReaderSvc interface {
	// GetTemplateByID retrieves a template with its journal lines.
	GetTemplateByID(ctx context.Context, templateID string) (*domain.JournalTemplate, error)

	// ListTemplates retrieves a paginated list of templates.
	ListTemplates(ctx context.Context, params dto.ListTemplatesParams) ([]domain.JournalTemplate, error)

	// PreviewTemplate evaluates every line of a template against a sample
	// amount without saving anything.
	PreviewTemplate(ctx context.Context, templateID string, sampleAmount decimal.Decimal) (*dto.PreviewTemplateResponse, error)
}

// TemplateWriterSvc defines write operations for journal templates
type TemplateWriterSvc interface {
	// CreateTemplate persists a new template with its lines after validating
	// every line formula.
	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorID string) (*domain.JournalTemplate, error)

	// UpdateTemplate updates template details. Replacing the line set bumps
	// the template version; posted entries are unaffected.
	UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateTemplateRequest, updaterID string) (*domain.JournalTemplate, error)

	// DeleteTemplate removes a non-system template that has never been used.
	DeleteTemplate(ctx context.Context, templateID string) error

	// DuplicateTemplate copies an existing template into a fresh non-system
	// template named "<name> (Copy)".
	DuplicateTemplate(ctx context.Context, templateID string, creatorID string) (*domain.JournalTemplate, error)
}

// FormulaCheckerSvc defines stateless formula checking operations
type FormulaCheckerSvc interface {
	// ValidateFormula reports syntax problems and, when a sample amount is
	// given, a preview of the computed value.
	ValidateFormula(ctx context.Context, req dto.ValidateFormulaRequest) dto.ValidateFormulaResponse
}

// TemplateSvcFacade combines all template-related service interfaces
type TemplateSvcFacade interface {
	TemplateReaderSvc
	TemplateWriterSvc
	FormulaCheckerSvc
}
