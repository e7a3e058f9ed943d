package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
)

// fiscalPeriodService manages the monthly posting gate. The transitions are
// linear: OPEN -> MONTH_CLOSED -> TAX_FILED, with reopen allowed only from
// MONTH_CLOSED.
type fiscalPeriodService struct {
	periodRepo portsrepo.FiscalPeriodRepositoryFacade
}

// NewFiscalPeriodService creates a new fiscal period service.
func NewFiscalPeriodService(periodRepo portsrepo.FiscalPeriodRepositoryFacade) portssvc.FiscalPeriodSvcFacade {
	return &fiscalPeriodService{periodRepo: periodRepo}
}

var _ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)

// newOpenPeriod builds an unsaved OPEN period record for a month that has no
// explicit record yet.
func newOpenPeriod(year, month int) *domain.FiscalPeriod {
	return &domain.FiscalPeriod{
		Year:   year,
		Month:  month,
		Status: domain.PeriodOpen,
	}
}

func (s *fiscalPeriodService) GetPeriod(ctx context.Context, year int, month int) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindFiscalPeriodByYearMonth(ctx, year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// A month with no record is OPEN.
			return newOpenPeriod(year, month), nil
		}
		middleware.GetLoggerFromCtx(ctx).Error("Failed to find fiscal period", slog.String("error", err.Error()), slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to find fiscal period %d-%02d: %w", year, month, err)
	}
	return period, nil
}

func (s *fiscalPeriodService) ListPeriods(ctx context.Context, params dto.ListFiscalPeriodsParams) ([]domain.FiscalPeriod, error) {
	periods, err := s.periodRepo.ListFiscalPeriods(ctx, params.Year, params.Status)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list fiscal periods", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list fiscal periods: %w", err)
	}
	return periods, nil
}

func (s *fiscalPeriodService) IsOpenForPosting(ctx context.Context, date time.Time) (bool, error) {
	period, err := s.GetPeriod(ctx, date.Year(), int(date.Month()))
	if err != nil {
		return false, err
	}
	return period.IsOpen(), nil
}

func (s *fiscalPeriodService) ValidateOpenForPosting(ctx context.Context, date time.Time) error {
	open, err := s.IsOpenForPosting(ctx, date)
	if err != nil {
		return err
	}
	if !open {
		return fmt.Errorf("%w: %s", apperrors.ErrPeriodClosed, date.Format("2006-01"))
	}
	return nil
}

func (s *fiscalPeriodService) CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, creatorID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.periodRepo.FindFiscalPeriodByYearMonth(ctx, req.Year, req.Month)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check fiscal period %d-%02d: %w", req.Year, req.Month, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: period %d-%02d already exists", apperrors.ErrDuplicate, req.Year, req.Month)
	}

	now := time.Now().UTC()
	period := domain.FiscalPeriod{
		PeriodID: uuid.NewString(),
		Year:     req.Year,
		Month:    req.Month,
		Status:   domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.periodRepo.SaveFiscalPeriod(ctx, period); err != nil {
		logger.Error("Failed to save fiscal period", slog.String("error", err.Error()), slog.Int("year", req.Year), slog.Int("month", req.Month))
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	logger.Info("Fiscal period created", slog.String("period_id", period.PeriodID), slog.Int("year", req.Year), slog.Int("month", req.Month))
	return &period, nil
}

// getOrCreatePeriod loads the period record for a month, persisting an OPEN
// record first if the month has none yet.
func (s *fiscalPeriodService) getOrCreatePeriod(ctx context.Context, year int, month int, actorID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindFiscalPeriodByYearMonth(ctx, year, month)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find fiscal period %d-%02d: %w", year, month, err)
	}
	return s.CreatePeriod(ctx, dto.CreateFiscalPeriodRequest{Year: year, Month: month}, actorID)
}

func (s *fiscalPeriodService) CloseMonth(ctx context.Context, year int, month int, notes string, actorID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.getOrCreatePeriod(ctx, year, month, actorID)
	if err != nil {
		return nil, err
	}
	if period.Status != domain.PeriodOpen {
		return nil, fmt.Errorf("%w: period %d-%02d is %s, expected OPEN", apperrors.ErrInvalidState, year, month, period.Status)
	}

	now := time.Now().UTC()
	period.Status = domain.PeriodMonthClosed
	period.MonthClosedAt = &now
	period.MonthClosedBy = &actorID
	if notes != "" {
		period.MonthClosedNotes = &notes
	}
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actorID

	if err := s.periodRepo.UpdateFiscalPeriod(ctx, *period); err != nil {
		logger.Error("Failed to close month", slog.String("error", err.Error()), slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to close month %d-%02d: %w", year, month, err)
	}

	logger.Info("Month closed", slog.Int("year", year), slog.Int("month", month))
	return period, nil
}

func (s *fiscalPeriodService) FileTax(ctx context.Context, year int, month int, notes string, actorID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindFiscalPeriodByYearMonth(ctx, year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: period %d-%02d is OPEN, expected MONTH_CLOSED", apperrors.ErrInvalidState, year, month)
		}
		return nil, fmt.Errorf("failed to find fiscal period %d-%02d: %w", year, month, err)
	}
	if period.Status != domain.PeriodMonthClosed {
		return nil, fmt.Errorf("%w: period %d-%02d is %s, expected MONTH_CLOSED", apperrors.ErrInvalidState, year, month, period.Status)
	}

	now := time.Now().UTC()
	period.Status = domain.PeriodTaxFiled
	period.TaxFiledAt = &now
	period.TaxFiledBy = &actorID
	if notes != "" {
		period.TaxFiledNotes = &notes
	}
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actorID

	if err := s.periodRepo.UpdateFiscalPeriod(ctx, *period); err != nil {
		logger.Error("Failed to mark tax filed", slog.String("error", err.Error()), slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to mark tax filed for %d-%02d: %w", year, month, err)
	}

	logger.Info("Tax filed for period", slog.Int("year", year), slog.Int("month", month))
	return period, nil
}

func (s *fiscalPeriodService) ReopenMonth(ctx context.Context, year int, month int, notes string, actorID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindFiscalPeriodByYearMonth(ctx, year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: period %d-%02d is already OPEN", apperrors.ErrInvalidState, year, month)
		}
		return nil, fmt.Errorf("failed to find fiscal period %d-%02d: %w", year, month, err)
	}
	// TAX_FILED periods can never be reopened directly.
	if period.Status != domain.PeriodMonthClosed {
		return nil, fmt.Errorf("%w: period %d-%02d is %s, expected MONTH_CLOSED", apperrors.ErrInvalidState, year, month, period.Status)
	}

	now := time.Now().UTC()
	period.Status = domain.PeriodOpen
	period.MonthClosedAt = nil
	period.MonthClosedBy = nil
	period.MonthClosedNotes = nil
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actorID

	if err := s.periodRepo.UpdateFiscalPeriod(ctx, *period); err != nil {
		logger.Error("Failed to reopen month", slog.String("error", err.Error()), slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to reopen month %d-%02d: %w", year, month, err)
	}

	logger.Info("Month reopened", slog.Int("year", year), slog.Int("month", month), slog.String("notes", notes))
	return period, nil
}
