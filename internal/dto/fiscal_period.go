package dto

import (
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
)

// CreateFiscalPeriodRequest defines the data needed to create a period record.
type CreateFiscalPeriodRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// CloseMonthRequest defines the payload for closing a month.
type CloseMonthRequest struct {
	Notes string `json:"notes"`
}

// FileTaxRequest defines the payload for marking a month tax-filed.
type FileTaxRequest struct {
	Notes string `json:"notes"`
}

// ReopenPeriodRequest defines the payload for reopening a closed month.
type ReopenPeriodRequest struct {
	Notes string `json:"notes"`
}

// FiscalPeriodResponse defines the data returned for a fiscal period.
type FiscalPeriodResponse struct {
	PeriodID         string                    `json:"periodID"`
	Year             int                       `json:"year"`
	Month            int                       `json:"month"`
	Status           domain.FiscalPeriodStatus `json:"status"`
	MonthClosedAt    *time.Time                `json:"monthClosedAt,omitempty"`
	MonthClosedBy    *string                   `json:"monthClosedBy,omitempty"`
	MonthClosedNotes *string                   `json:"monthClosedNotes,omitempty"`
	TaxFiledAt       *time.Time                `json:"taxFiledAt,omitempty"`
	TaxFiledBy       *string                   `json:"taxFiledBy,omitempty"`
	TaxFiledNotes    *string                   `json:"taxFiledNotes,omitempty"`
	CreatedAt        time.Time                 `json:"createdAt"`
}

// ListFiscalPeriodsParams defines query parameters for listing periods.
type ListFiscalPeriodsParams struct {
	Year   *int                       `form:"year" binding:"omitempty,min=2000,max=2100"`
	Status *domain.FiscalPeriodStatus `form:"status" binding:"omitempty,oneof=OPEN MONTH_CLOSED TAX_FILED"`
}

// ListFiscalPeriodsResponse wraps the list of fiscal periods.
type ListFiscalPeriodsResponse struct {
	Periods []FiscalPeriodResponse `json:"periods"`
}

// ToFiscalPeriodResponse converts a domain.FiscalPeriod to its DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodID:         p.PeriodID,
		Year:             p.Year,
		Month:            p.Month,
		Status:           p.Status,
		MonthClosedAt:    p.MonthClosedAt,
		MonthClosedBy:    p.MonthClosedBy,
		MonthClosedNotes: p.MonthClosedNotes,
		TaxFiledAt:       p.TaxFiledAt,
		TaxFiledBy:       p.TaxFiledBy,
		TaxFiledNotes:    p.TaxFiledNotes,
		CreatedAt:        p.CreatedAt,
	}
}

// ToListFiscalPeriodResponse converts a slice of domain.FiscalPeriod to DTOs.
func ToListFiscalPeriodResponse(periods []domain.FiscalPeriod) []FiscalPeriodResponse {
	res := make([]FiscalPeriodResponse, len(periods))
	for i, p := range periods {
		res[i] = ToFiscalPeriodResponse(&p)
	}
	return res
}
