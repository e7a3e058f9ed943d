package dto

import (
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTemplateLineRequest defines one journal line of a template request.
type CreateTemplateLineRequest struct {
	AccountID string             `json:"accountID" binding:"required"`
	Side      domain.JournalSide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Formula   string             `json:"formula"` // Empty means full amount passthrough
	Memo      string             `json:"memo"`
}

// CreateTemplateRequest defines the data needed to create a journal template.
type CreateTemplateRequest struct {
	TemplateName string                      `json:"templateName" binding:"required"`
	Category     domain.TemplateCategory     `json:"category" binding:"required,oneof=INCOME EXPENSE TRANSFER ADJUSTMENT SYSTEM"`
	Description  string                      `json:"description"`
	Lines        []CreateTemplateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateTemplateRequest defines the data allowed for updating a template.
// A non-nil Lines replaces the full line set and bumps the template version.
type UpdateTemplateRequest struct {
	TemplateName *string                      `json:"templateName"`
	Category     *domain.TemplateCategory     `json:"category" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER ADJUSTMENT SYSTEM"`
	Description  *string                      `json:"description"`
	IsActive     *bool                        `json:"isActive"`
	Lines        *[]CreateTemplateLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// TemplateLineResponse defines the data returned for a template line.
type TemplateLineResponse struct {
	LineID    string             `json:"lineID"`
	AccountID string             `json:"accountID"`
	Side      domain.JournalSide `json:"side"`
	Formula   string             `json:"formula"`
	LineOrder int                `json:"lineOrder"`
	Memo      string             `json:"memo"`
}

// TemplateResponse defines the data returned for a journal template.
type TemplateResponse struct {
	TemplateID   string                  `json:"templateID"`
	TemplateName string                  `json:"templateName"`
	Category     domain.TemplateCategory `json:"category"`
	Description  string                  `json:"description"`
	IsSystem     bool                    `json:"isSystem"`
	IsActive     bool                    `json:"isActive"`
	Version      int                     `json:"version"`
	UsageCount   int                     `json:"usageCount"`
	LastUsedAt   *time.Time              `json:"lastUsedAt,omitempty"`
	Lines        []TemplateLineResponse  `json:"lines,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	CreatedBy    string                  `json:"createdBy"`
}

// ListTemplatesParams defines query parameters for listing templates.
type ListTemplatesParams struct {
	Category   *domain.TemplateCategory `form:"category" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER ADJUSTMENT SYSTEM"`
	ActiveOnly bool                     `form:"activeOnly,default=false"`
	Limit      int                      `form:"limit,default=50"`
	Offset     int                      `form:"offset,default=0"`
}

// ListTemplatesResponse wraps the list of templates.
type ListTemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// TemplatePreviewLineResponse reports the evaluated amount for one template
// line. Amount is nil when the line formula fails against the sample amount.
type TemplatePreviewLineResponse struct {
	LineID    string             `json:"lineID"`
	AccountID string             `json:"accountID"`
	Side      domain.JournalSide `json:"side"`
	Formula   string             `json:"formula"`
	LineOrder int                `json:"lineOrder"`
	Amount    *decimal.Decimal   `json:"amount"`
}

// PreviewTemplateResponse shows what each line of a template would produce
// for a sample principal amount.
type PreviewTemplateResponse struct {
	TemplateID   string                        `json:"templateID"`
	SampleAmount decimal.Decimal               `json:"sampleAmount"`
	Lines        []TemplatePreviewLineResponse `json:"lines"`
}

// ValidateFormulaRequest defines the payload for checking a formula without
// saving anything.
type ValidateFormulaRequest struct {
	Formula      string           `json:"formula" binding:"required"`
	SampleAmount *decimal.Decimal `json:"sampleAmount"`
}

// ValidateFormulaResponse reports formula validity and an optional preview
// result computed against the sample amount.
type ValidateFormulaResponse struct {
	Valid   bool             `json:"valid"`
	Errors  []string         `json:"errors,omitempty"`
	Preview *decimal.Decimal `json:"preview,omitempty"`
}

// ToTemplateLineResponse converts a domain.JournalTemplateLine to its DTO.
func ToTemplateLineResponse(line *domain.JournalTemplateLine) TemplateLineResponse {
	return TemplateLineResponse{
		LineID:    line.LineID,
		AccountID: line.AccountID,
		Side:      line.Side,
		Formula:   line.Formula,
		LineOrder: line.LineOrder,
		Memo:      line.Memo,
	}
}

// ToTemplateResponse converts a domain.JournalTemplate to TemplateResponse DTO
func ToTemplateResponse(tpl *domain.JournalTemplate) TemplateResponse {
	lines := make([]TemplateLineResponse, len(tpl.Lines))
	for i, line := range tpl.Lines {
		lines[i] = ToTemplateLineResponse(&line)
	}
	return TemplateResponse{
		TemplateID:   tpl.TemplateID,
		TemplateName: tpl.TemplateName,
		Category:     tpl.Category,
		Description:  tpl.Description,
		IsSystem:     tpl.IsSystem,
		IsActive:     tpl.IsActive,
		Version:      tpl.Version,
		UsageCount:   tpl.UsageCount,
		LastUsedAt:   tpl.LastUsedAt,
		Lines:        lines,
		CreatedAt:    tpl.CreatedAt,
		CreatedBy:    tpl.CreatedBy,
	}
}

// ToListTemplateResponse converts a slice of domain.JournalTemplate to DTOs.
func ToListTemplateResponse(templates []domain.JournalTemplate) []TemplateResponse {
	res := make([]TemplateResponse, len(templates))
	for i, tpl := range templates {
		res[i] = ToTemplateResponse(&tpl)
	}
	return res
}
