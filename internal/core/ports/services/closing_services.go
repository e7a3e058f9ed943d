package services

import (
	"context"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
)

// ClosingSvc defines the fiscal year closing operations
type ClosingSvc interface {
	// PreviewClosing computes the closing entries for a year without side
	// effects.
	PreviewClosing(ctx context.Context, year int) (*domain.ClosingPreview, error)

	// ExecuteClosing creates and posts the closing transactions for a year.
	// A year can only be closed once; reversing the closing makes it
	// closeable again.
	ExecuteClosing(ctx context.Context, year int, actorID string) ([]domain.Transaction, error)

	// ReverseClosing voids all posted closing transactions of a year.
	ReverseClosing(ctx context.Context, year int, reason string, actorID string) ([]domain.Transaction, error)
}
