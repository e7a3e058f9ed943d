package models

import "time"

// FiscalPeriod is the database representation of one calendar month's
// posting-eligibility state.
type FiscalPeriod struct {
	PeriodID         string     `db:"period_id"`
	Year             int        `db:"year"`
	Month            int        `db:"month"`
	Status           string     `db:"status"`
	MonthClosedAt    *time.Time `db:"month_closed_at"`
	MonthClosedBy    *string    `db:"month_closed_by"`
	MonthClosedNotes *string    `db:"month_closed_notes"`
	TaxFiledAt       *time.Time `db:"tax_filed_at"`
	TaxFiledBy       *string    `db:"tax_filed_by"`
	TaxFiledNotes    *string    `db:"tax_filed_notes"`
	AuditFields
}
