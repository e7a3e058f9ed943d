package mapping

import (
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/models"
)

// ToModelTemplate converts a domain JournalTemplate header to its model form.
func ToModelTemplate(d domain.JournalTemplate) models.JournalTemplate {
	return models.JournalTemplate{
		TemplateID:   d.TemplateID,
		TemplateName: d.TemplateName,
		Category:     string(d.Category),
		Description:  d.Description,
		IsSystem:     d.IsSystem,
		IsActive:     d.IsActive,
		Version:      d.Version,
		UsageCount:   d.UsageCount,
		LastUsedAt:   d.LastUsedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTemplate converts a model JournalTemplate header to its domain form.
func ToDomainTemplate(m models.JournalTemplate) domain.JournalTemplate {
	return domain.JournalTemplate{
		TemplateID:   m.TemplateID,
		TemplateName: m.TemplateName,
		Category:     domain.TemplateCategory(m.Category),
		Description:  m.Description,
		IsSystem:     m.IsSystem,
		IsActive:     m.IsActive,
		Version:      m.Version,
		UsageCount:   m.UsageCount,
		LastUsedAt:   m.LastUsedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTemplateLine converts a domain template line to its model form.
func ToModelTemplateLine(d domain.JournalTemplateLine) models.JournalTemplateLine {
	return models.JournalTemplateLine{
		LineID:     d.LineID,
		TemplateID: d.TemplateID,
		AccountID:  d.AccountID,
		Side:       string(d.Side),
		Formula:    d.Formula,
		LineOrder:  d.LineOrder,
		Memo:       d.Memo,
	}
}

// ToDomainTemplateLine converts a model template line to its domain form.
func ToDomainTemplateLine(m models.JournalTemplateLine) domain.JournalTemplateLine {
	return domain.JournalTemplateLine{
		LineID:     m.LineID,
		TemplateID: m.TemplateID,
		AccountID:  m.AccountID,
		Side:       domain.JournalSide(m.Side),
		Formula:    m.Formula,
		LineOrder:  m.LineOrder,
		Memo:       m.Memo,
	}
}

// ToDomainTemplateLineSlice converts model template lines to domain form.
func ToDomainTemplateLineSlice(ms []models.JournalTemplateLine) []domain.JournalTemplateLine {
	ds := make([]domain.JournalTemplateLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTemplateLine(m)
	}
	return ds
}
