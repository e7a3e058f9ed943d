package domain

import "time"

// FiscalPeriodStatus is the posting-eligibility state of one calendar month.
// Transitions are linear: OPEN -> MONTH_CLOSED -> TAX_FILED, with reopen
// allowed only from MONTH_CLOSED.
type FiscalPeriodStatus string

const (
	PeriodOpen        FiscalPeriodStatus = "OPEN"
	PeriodMonthClosed FiscalPeriodStatus = "MONTH_CLOSED"
	PeriodTaxFiled    FiscalPeriodStatus = "TAX_FILED"
)

// FiscalPeriod gates posting for one calendar month. A month with no explicit
// record is treated as OPEN.
type FiscalPeriod struct {
	PeriodID string             `json:"periodID"`
	Year     int                `json:"year"`
	Month    int                `json:"month"` // 1..12
	Status   FiscalPeriodStatus `json:"status"`

	MonthClosedAt    *time.Time `json:"monthClosedAt,omitempty"`
	MonthClosedBy    *string    `json:"monthClosedBy,omitempty"`
	MonthClosedNotes *string    `json:"monthClosedNotes,omitempty"`

	TaxFiledAt    *time.Time `json:"taxFiledAt,omitempty"`
	TaxFiledBy    *string    `json:"taxFiledBy,omitempty"`
	TaxFiledNotes *string    `json:"taxFiledNotes,omitempty"`

	AuditFields
}

// IsOpen reports whether transactions may be posted into this period.
func (p *FiscalPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}
