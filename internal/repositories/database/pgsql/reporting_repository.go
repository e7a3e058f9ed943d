package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/models"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for ledger aggregation
// queries. All queries read posted entries only; reversal pairs cancel
// arithmetically, so voided transactions never need filtering out.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// SummarizeIncomeStatement aggregates net balances of revenue and expense
// accounts over the date range. Revenue is summed credit minus debit, expense
// debit minus credit, matching each type's normal balance side.
func (r *PgxReportingRepository) SummarizeIncomeStatement(ctx context.Context, from time.Time, to time.Time) (*domain.IncomeStatement, error) {
	query := `
		SELECT a.account_id, a.account_code, a.account_name, a.account_type, a.parent_account_id, a.description, a.is_active,
		       a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
		       CASE WHEN a.account_type = 'REVENUE'
		            THEN COALESCE(SUM(e.credit - e.debit), 0)
		            ELSE COALESCE(SUM(e.debit - e.credit), 0)
		       END AS balance
		FROM accounts a
		JOIN journal_entries e ON e.account_id = a.account_id
		JOIN transactions t ON t.transaction_id = e.transaction_id
		WHERE a.account_type IN ('REVENUE', 'EXPENSE')
		  AND t.status IN ('POSTED', 'VOID')
		  AND t.transaction_date >= $1 AND t.transaction_date <= $2
		GROUP BY a.account_id
		ORDER BY a.account_code;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query income statement: %w", err)
	}
	defer rows.Close()

	statement := &domain.IncomeStatement{
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
		RevenueItems: []domain.IncomeStatementItem{},
		ExpenseItems: []domain.IncomeStatementItem{},
	}

	for rows.Next() {
		var m models.Account
		var balance decimal.Decimal
		err := rows.Scan(
			&m.AccountID,
			&m.AccountCode,
			&m.AccountName,
			&m.AccountType,
			&m.ParentAccountID,
			&m.Description,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&balance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income statement row: %w", err)
		}

		item := domain.IncomeStatementItem{Account: mapping.ToDomainAccount(m), Balance: balance}
		if item.Account.AccountType == domain.Revenue {
			statement.RevenueItems = append(statement.RevenueItems, item)
			statement.TotalRevenue = statement.TotalRevenue.Add(balance)
		} else {
			statement.ExpenseItems = append(statement.ExpenseItems, item)
			statement.TotalExpense = statement.TotalExpense.Add(balance)
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating income statement rows: %w", rows.Err())
	}

	return statement, nil
}

// FindLedgerLines retrieves an account's entries over a date range joined with
// their transaction headers, in posting order. Running balances are computed
// by the caller.
func (r *PgxReportingRepository) FindLedgerLines(ctx context.Context, accountID string, from time.Time, to time.Time) ([]domain.GeneralLedgerLine, error) {
	query := `
		SELECT e.entry_id, e.transaction_id, t.transaction_date, t.description, e.debit, e.credit, e.is_reversal
		FROM journal_entries e
		JOIN transactions t ON t.transaction_id = e.transaction_id
		WHERE e.account_id = $1
		  AND t.status IN ('POSTED', 'VOID')
		  AND t.transaction_date >= $2 AND t.transaction_date <= $3
		ORDER BY t.transaction_date, e.created_at, e.line_order;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := []domain.GeneralLedgerLine{}
	for rows.Next() {
		var line domain.GeneralLedgerLine
		err := rows.Scan(
			&line.EntryID,
			&line.TransactionID,
			&line.TransactionDate,
			&line.Description,
			&line.Debit,
			&line.Credit,
			&line.IsReversal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger line row: %w", err)
		}
		lines = append(lines, line)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating ledger line rows: %w", rows.Err())
	}

	return lines, nil
}

// SumAccountBalance sums an account's debits minus credits over all entries
// dated strictly before the given date. The caller flips the sign for
// credit-normal accounts.
func (r *PgxReportingRepository) SumAccountBalance(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(e.debit - e.credit), 0)
		FROM journal_entries e
		JOIN transactions t ON t.transaction_id = e.transaction_id
		WHERE e.account_id = $1
		  AND t.status IN ('POSTED', 'VOID')
		  AND t.transaction_date < $2;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, before).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balance for account %s: %w", accountID, err)
	}
	return balance, nil
}
