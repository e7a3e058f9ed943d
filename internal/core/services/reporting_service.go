package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
)

var ErrInvalidDateRange = errors.New("from date must not be after to date")

// reportingService builds read-only views over posted entries. Reversal pairs
// cancel arithmetically, so voided transactions need no special handling.
type reportingService struct {
	reportingRepo portsrepo.ReportingReader
	accountRepo   portsrepo.AccountReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingReader, accountRepo portsrepo.AccountReader) portssvc.ReportingSvc {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

func (s *reportingService) GetIncomeStatement(ctx context.Context, from time.Time, to time.Time) (*domain.IncomeStatement, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	stmt, err := s.reportingRepo.SummarizeIncomeStatement(ctx, from, to)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to summarize income statement", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build income statement: %w", err)
	}
	return stmt, nil
}

func (s *reportingService) GetGeneralLedger(ctx context.Context, accountID string, from time.Time, to time.Time) (*domain.GeneralLedger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for ledger", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	opening, err := s.reportingRepo.SumAccountBalance(ctx, accountID, from)
	if err != nil {
		logger.Error("Failed to compute opening balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}

	lines, err := s.reportingRepo.FindLedgerLines(ctx, accountID, from, to)
	if err != nil {
		logger.Error("Failed to fetch ledger lines", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to fetch ledger lines: %w", err)
	}

	// Raw sums are debit-minus-credit; flip for credit-normal accounts so
	// the running balance reads naturally.
	normalSide := account.AccountType.NormalBalance()
	balance := opening
	if normalSide == domain.Credit {
		balance = balance.Neg()
	}

	ledger := &domain.GeneralLedger{
		Account:        *account,
		From:           from,
		To:             to,
		OpeningBalance: balance,
		Lines:          make([]domain.GeneralLedgerLine, len(lines)),
	}
	for i, line := range lines {
		movement := line.Debit.Sub(line.Credit)
		if normalSide == domain.Credit {
			movement = movement.Neg()
		}
		balance = balance.Add(movement)
		line.RunningBalance = balance
		ledger.Lines[i] = line
	}
	ledger.ClosingBalance = balance

	logger.Debug("General ledger built", slog.String("account_id", accountID), slog.Int("lines", len(lines)))
	return ledger, nil
}
