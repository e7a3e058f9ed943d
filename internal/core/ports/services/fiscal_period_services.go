package services

import (
	"context"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
)

// FiscalPeriodReaderSvc defines read operations for fiscal periods
type FiscalPeriodReaderSvc interface {
	// GetPeriod retrieves the period record for a year and month. A month
	// with no record yet is returned as an unsaved OPEN period.
	GetPeriod(ctx context.Context, year int, month int) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves period records, optionally narrowed to a year.
	ListPeriods(ctx context.Context, params dto.ListFiscalPeriodsParams) ([]domain.FiscalPeriod, error)

	// IsOpenForPosting reports whether the period containing the date
	// accepts postings.
	IsOpenForPosting(ctx context.Context, date time.Time) (bool, error)

	// ValidateOpenForPosting returns ErrPeriodClosed when the period
	// containing the date no longer accepts postings.
	ValidateOpenForPosting(ctx context.Context, date time.Time) error
}

// FiscalPeriodWriterSvc defines the period lifecycle operations
type FiscalPeriodWriterSvc interface {
	// CreatePeriod persists an explicit OPEN period record.
	CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, creatorID string) (*domain.FiscalPeriod, error)

	// CloseMonth moves an OPEN period to MONTH_CLOSED, creating the record
	// if the month had none.
	CloseMonth(ctx context.Context, year int, month int, notes string, actorID string) (*domain.FiscalPeriod, error)

	// FileTax moves a MONTH_CLOSED period to TAX_FILED.
	FileTax(ctx context.Context, year int, month int, notes string, actorID string) (*domain.FiscalPeriod, error)

	// ReopenMonth moves a MONTH_CLOSED period back to OPEN, clearing the
	// close stamps. TAX_FILED periods cannot be reopened.
	ReopenMonth(ctx context.Context, year int, month int, notes string, actorID string) (*domain.FiscalPeriod, error)
}

// FiscalPeriodSvcFacade combines all fiscal period service interfaces
type FiscalPeriodSvcFacade interface {
	FiscalPeriodReaderSvc
	FiscalPeriodWriterSvc
}
