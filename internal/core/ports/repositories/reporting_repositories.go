package repositories

import (
	"context"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingReader defines aggregate read operations over posted entries.
// Reversal pairs cancel arithmetically, so voided transactions never need
// filtering out.
type ReportingReader interface {
	// SummarizeIncomeStatement aggregates posted entry activity per revenue
	// and expense account over a date range.
	SummarizeIncomeStatement(ctx context.Context, from time.Time, to time.Time) (*domain.IncomeStatement, error)

	// FindLedgerLines retrieves the posted entry lines of one account within
	// a date range, ordered by transaction date then document number.
	FindLedgerLines(ctx context.Context, accountID string, from time.Time, to time.Time) ([]domain.GeneralLedgerLine, error)

	// SumAccountBalance sums debits minus credits for an account over all
	// posted entries strictly before the given date.
	SumAccountBalance(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error)
}

// ReportingRepositoryFacade combines all reporting repository interfaces
type ReportingRepositoryFacade interface {
	ReportingReader
}
