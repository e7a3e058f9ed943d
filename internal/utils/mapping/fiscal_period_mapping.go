package mapping

import (
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/models"
)

// ToModelFiscalPeriod converts a domain FiscalPeriod to its model form.
func ToModelFiscalPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		PeriodID:         d.PeriodID,
		Year:             d.Year,
		Month:            d.Month,
		Status:           string(d.Status),
		MonthClosedAt:    d.MonthClosedAt,
		MonthClosedBy:    d.MonthClosedBy,
		MonthClosedNotes: d.MonthClosedNotes,
		TaxFiledAt:       d.TaxFiledAt,
		TaxFiledBy:       d.TaxFiledBy,
		TaxFiledNotes:    d.TaxFiledNotes,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalPeriod converts a model FiscalPeriod to its domain form.
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:         m.PeriodID,
		Year:             m.Year,
		Month:            m.Month,
		Status:           domain.FiscalPeriodStatus(m.Status),
		MonthClosedAt:    m.MonthClosedAt,
		MonthClosedBy:    m.MonthClosedBy,
		MonthClosedNotes: m.MonthClosedNotes,
		TaxFiledAt:       m.TaxFiledAt,
		TaxFiledBy:       m.TaxFiledBy,
		TaxFiledNotes:    m.TaxFiledNotes,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFiscalPeriodSlice converts model fiscal periods to domain form.
func ToDomainFiscalPeriodSlice(ms []models.FiscalPeriod) []domain.FiscalPeriod {
	ds := make([]domain.FiscalPeriod, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFiscalPeriod(m)
	}
	return ds
}
