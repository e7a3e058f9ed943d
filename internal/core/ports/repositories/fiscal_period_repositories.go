package repositories

import (
	"context"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal periods
type FiscalPeriodReader interface {
	// FindFiscalPeriodByID retrieves a fiscal period by its identifier.
	FindFiscalPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindFiscalPeriodByYearMonth retrieves the period record for a given
	// year and month, or ErrNotFound when none exists yet.
	FindFiscalPeriodByYearMonth(ctx context.Context, year int, month int) (*domain.FiscalPeriod, error)

	// ListFiscalPeriods retrieves period records, optionally narrowed to a
	// year and status, ordered by year then month.
	ListFiscalPeriods(ctx context.Context, year *int, status *domain.FiscalPeriodStatus) ([]domain.FiscalPeriod, error)
}

// FiscalPeriodWriter defines write operations for fiscal periods
type FiscalPeriodWriter interface {
	// SaveFiscalPeriod persists a new fiscal period record.
	SaveFiscalPeriod(ctx context.Context, period domain.FiscalPeriod) error

	// UpdateFiscalPeriod updates the status and stamp fields of a period.
	UpdateFiscalPeriod(ctx context.Context, period domain.FiscalPeriod) error
}

// FiscalPeriodRepositoryFacade combines all fiscal period repository interfaces
type FiscalPeriodRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
}
