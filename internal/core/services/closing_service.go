package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
)

var (
	ErrYearAlreadyClosed = errors.New("fiscal year already has closing transactions")
	ErrYearNotClosed     = errors.New("fiscal year has no closing to reverse")
)

const (
	closingSeqRevenue = 1
	closingSeqExpense = 2
	closingSeqNet     = 3
)

// closingService produces the year-end closing entries that zero every
// income-statement account into equity.
type closingService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	reportingRepo   portsrepo.ReportingReader
	accountRepo     portsrepo.AccountReader
	transactionSvc  portssvc.TransactionPosterSvc

	retainedEarningsCode string
	currentEarningsCode  string
}

// NewClosingService creates a new closing service. The two equity account
// codes identify where net income ends up.
func NewClosingService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	reportingRepo portsrepo.ReportingReader,
	accountRepo portsrepo.AccountReader,
	transactionSvc portssvc.TransactionPosterSvc,
	retainedEarningsCode string,
	currentEarningsCode string,
) portssvc.ClosingSvc {
	return &closingService{
		transactionRepo:      transactionRepo,
		reportingRepo:        reportingRepo,
		accountRepo:          accountRepo,
		transactionSvc:       transactionSvc,
		retainedEarningsCode: retainedEarningsCode,
		currentEarningsCode:  currentEarningsCode,
	}
}

var _ portssvc.ClosingSvc = (*closingService)(nil)

func yearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return from, to
}

func closingReference(year, seq int) string {
	return fmt.Sprintf("CLOSING-%d-%02d", year, seq)
}

// buildPreview assembles the candidate closing entries from an income
// statement. Each candidate balances on its own.
func (s *closingService) buildPreview(ctx context.Context, year int, stmt *domain.IncomeStatement) (*domain.ClosingPreview, error) {
	current, err := s.accountRepo.FindAccountByCode(ctx, s.currentEarningsCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find current year earnings account %s: %w", s.currentEarningsCode, err)
	}
	retained, err := s.accountRepo.FindAccountByCode(ctx, s.retainedEarningsCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find retained earnings account %s: %w", s.retainedEarningsCode, err)
	}

	_, closeDate := yearRange(year)
	netIncome := stmt.NetIncome()
	preview := &domain.ClosingPreview{
		Year:         year,
		TotalRevenue: stmt.TotalRevenue,
		TotalExpense: stmt.TotalExpense,
		NetIncome:    netIncome,
	}

	// Revenue accounts carry credit balances; closing debits each and
	// credits current year earnings with the total.
	if stmt.TotalRevenue.IsPositive() {
		entry := domain.ClosingEntryPreview{
			ReferenceNumber: closingReference(year, closingSeqRevenue),
			Description:     fmt.Sprintf("Closing revenue accounts for %d", year),
			Date:            closeDate,
		}
		for _, item := range stmt.RevenueItems {
			if item.Balance.IsZero() {
				continue
			}
			entry.Lines = append(entry.Lines, domain.ClosingLinePreview{
				AccountCode: item.Account.AccountCode,
				AccountName: item.Account.AccountName,
				Debit:       item.Balance,
				Credit:      decimal.Zero,
				Memo:        fmt.Sprintf("Close %s to current year earnings", item.Account.AccountName),
			})
		}
		entry.Lines = append(entry.Lines, domain.ClosingLinePreview{
			AccountCode: current.AccountCode,
			AccountName: current.AccountName,
			Debit:       decimal.Zero,
			Credit:      stmt.TotalRevenue,
			Memo:        fmt.Sprintf("Total revenue for %d", year),
		})
		preview.Entries = append(preview.Entries, entry)
	}

	// Expense accounts carry debit balances; closing credits each and
	// debits current year earnings with the total.
	if stmt.TotalExpense.IsPositive() {
		entry := domain.ClosingEntryPreview{
			ReferenceNumber: closingReference(year, closingSeqExpense),
			Description:     fmt.Sprintf("Closing expense accounts for %d", year),
			Date:            closeDate,
		}
		entry.Lines = append(entry.Lines, domain.ClosingLinePreview{
			AccountCode: current.AccountCode,
			AccountName: current.AccountName,
			Debit:       stmt.TotalExpense,
			Credit:      decimal.Zero,
			Memo:        fmt.Sprintf("Total expense for %d", year),
		})
		for _, item := range stmt.ExpenseItems {
			if item.Balance.IsZero() {
				continue
			}
			entry.Lines = append(entry.Lines, domain.ClosingLinePreview{
				AccountCode: item.Account.AccountCode,
				AccountName: item.Account.AccountName,
				Debit:       decimal.Zero,
				Credit:      item.Balance,
				Memo:        fmt.Sprintf("Close %s to current year earnings", item.Account.AccountName),
			})
		}
		preview.Entries = append(preview.Entries, entry)
	}

	// Net income moves from current year earnings to retained earnings;
	// a loss flips the sides.
	if !netIncome.IsZero() {
		entry := domain.ClosingEntryPreview{
			ReferenceNumber: closingReference(year, closingSeqNet),
			Description:     fmt.Sprintf("Transfer %d net income to retained earnings", year),
			Date:            closeDate,
		}
		if netIncome.IsPositive() {
			entry.Lines = []domain.ClosingLinePreview{
				{
					AccountCode: current.AccountCode,
					AccountName: current.AccountName,
					Debit:       netIncome,
					Credit:      decimal.Zero,
					Memo:        fmt.Sprintf("Net income for %d", year),
				},
				{
					AccountCode: retained.AccountCode,
					AccountName: retained.AccountName,
					Debit:       decimal.Zero,
					Credit:      netIncome,
					Memo:        fmt.Sprintf("Retained earnings from %d", year),
				},
			}
		} else {
			loss := netIncome.Neg()
			entry.Lines = []domain.ClosingLinePreview{
				{
					AccountCode: retained.AccountCode,
					AccountName: retained.AccountName,
					Debit:       loss,
					Credit:      decimal.Zero,
					Memo:        fmt.Sprintf("Net loss for %d", year),
				},
				{
					AccountCode: current.AccountCode,
					AccountName: current.AccountName,
					Debit:       decimal.Zero,
					Credit:      loss,
					Memo:        fmt.Sprintf("Net loss cleared from current year earnings for %d", year),
				},
			}
		}
		preview.Entries = append(preview.Entries, entry)
	}

	return preview, nil
}

func (s *closingService) PreviewClosing(ctx context.Context, year int) (*domain.ClosingPreview, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	alreadyClosed, err := s.transactionRepo.HasClosingTransactions(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing closing for %d: %w", year, err)
	}

	from, to := yearRange(year)
	stmt, err := s.reportingRepo.SummarizeIncomeStatement(ctx, from, to)
	if err != nil {
		logger.Error("Failed to summarize income statement for closing preview", slog.String("error", err.Error()), slog.Int("year", year))
		return nil, fmt.Errorf("failed to summarize income statement for %d: %w", year, err)
	}

	// No income-statement activity: zero totals and an empty entry list.
	if stmt.TotalRevenue.IsZero() && stmt.TotalExpense.IsZero() {
		return &domain.ClosingPreview{
			Year:          year,
			TotalRevenue:  decimal.Zero,
			TotalExpense:  decimal.Zero,
			NetIncome:     decimal.Zero,
			AlreadyClosed: alreadyClosed,
		}, nil
	}

	preview, err := s.buildPreview(ctx, year, stmt)
	if err != nil {
		return nil, err
	}
	preview.AlreadyClosed = alreadyClosed
	return preview, nil
}

// accountsByCode resolves the preview's account codes back to accounts.
func (s *closingService) accountsByCode(ctx context.Context, preview *domain.ClosingPreview) (map[string]domain.Account, error) {
	byCode := make(map[string]domain.Account)
	for _, entry := range preview.Entries {
		for _, line := range entry.Lines {
			if _, seen := byCode[line.AccountCode]; seen {
				continue
			}
			account, err := s.accountRepo.FindAccountByCode(ctx, line.AccountCode)
			if err != nil {
				return nil, fmt.Errorf("failed to find account %s: %w", line.AccountCode, err)
			}
			byCode[line.AccountCode] = *account
		}
	}
	return byCode, nil
}

func (s *closingService) ExecuteClosing(ctx context.Context, year int, actorID string) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	preview, err := s.PreviewClosing(ctx, year)
	if err != nil {
		return nil, err
	}
	if preview.AlreadyClosed {
		return nil, fmt.Errorf("%w: %d", ErrYearAlreadyClosed, year)
	}
	if len(preview.Entries) == 0 {
		logger.Info("No income statement activity, closing is a no-op", slog.Int("year", year))
		return nil, nil
	}

	byCode, err := s.accountsByCode(ctx, preview)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	closingYear := year
	txns := make([]domain.Transaction, 0, len(preview.Entries))
	for i, entryPreview := range preview.Entries {
		seq := i + 1
		transactionID := uuid.NewString()

		totalDebit := decimal.Zero
		entries := make([]domain.JournalEntry, len(entryPreview.Lines))
		for j, line := range entryPreview.Lines {
			account := byCode[line.AccountCode]
			entries[j] = domain.JournalEntry{
				EntryID:       uuid.NewString(),
				TransactionID: transactionID,
				AccountID:     account.AccountID,
				Debit:         line.Debit,
				Credit:        line.Credit,
				Memo:          line.Memo,
				LineOrder:     j + 1,
				CreatedAt:     now,
				CreatedBy:     actorID,
			}
			totalDebit = totalDebit.Add(line.Debit)
		}

		closingSeq := seq
		txns = append(txns, domain.Transaction{
			TransactionID:   transactionID,
			TransactionDate: entryPreview.Date,
			Amount:          totalDebit,
			Description:     entryPreview.Description,
			ReferenceNumber: entryPreview.ReferenceNumber,
			Status:          domain.StatusPosted,
			PostedAt:        &now,
			PostedBy:        &actorID,
			ClosingYear:     &closingYear,
			ClosingSeq:      &closingSeq,
			Entries:         entries,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		})
	}

	// The unique (closing_year, closing_seq) index makes a concurrent second
	// closing fail with ErrDuplicate.
	if err := s.transactionRepo.SaveClosingTransactions(ctx, txns); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %d", ErrYearAlreadyClosed, year)
		}
		logger.Error("Failed to save closing transactions", slog.String("error", err.Error()), slog.Int("year", year))
		return nil, fmt.Errorf("failed to save closing transactions for %d: %w", year, err)
	}

	logger.Info("Fiscal year closed",
		slog.Int("year", year),
		slog.Int("transactions", len(txns)),
		slog.String("net_income", preview.NetIncome.String()))
	return txns, nil
}

func (s *closingService) ReverseClosing(ctx context.Context, year int, reason string, actorID string) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	closings, err := s.transactionRepo.FindClosingTransactions(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to find closing transactions for %d: %w", year, err)
	}

	toVoid := make([]domain.Transaction, 0, len(closings))
	for _, txn := range closings {
		if txn.IsPosted() {
			toVoid = append(toVoid, txn)
		}
	}
	if len(toVoid) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrYearNotClosed, year)
	}

	req := dto.VoidTransactionRequest{
		Reason: reason,
		Notes:  fmt.Sprintf("Reversal of fiscal year %d closing", year),
	}
	voided := make([]domain.Transaction, 0, len(toVoid))
	for _, txn := range toVoid {
		result, err := s.transactionSvc.VoidTransaction(ctx, txn.TransactionID, req, actorID)
		if err != nil {
			logger.Error("Failed to void closing transaction", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
			return nil, fmt.Errorf("failed to void closing transaction %s: %w", txn.TransactionID, err)
		}
		voided = append(voided, *result)
	}

	logger.Info("Fiscal year closing reversed", slog.Int("year", year), slog.Int("transactions", len(voided)))
	return voided, nil
}
