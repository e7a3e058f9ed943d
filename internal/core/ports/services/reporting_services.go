package services

import (
	"context"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
)

// ReportingSvc defines read-only reporting operations over posted entries
type ReportingSvc interface {
	// GetIncomeStatement aggregates revenue and expense activity for a range.
	GetIncomeStatement(ctx context.Context, from time.Time, to time.Time) (*domain.IncomeStatement, error)

	// GetGeneralLedger builds an account's running-balance ledger view.
	GetGeneralLedger(ctx context.Context, accountID string, from time.Time, to time.Time) (*domain.GeneralLedger, error)
}
