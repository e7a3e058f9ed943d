package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/models"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fiscalPeriodColumns = `period_id, year, month, status, month_closed_at, month_closed_by, month_closed_notes, tax_filed_at, tax_filed_by, tax_filed_notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal period data.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepositoryFacade {
	return &PgxFiscalPeriodRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

func scanFiscalPeriod(row pgx.Row) (*models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.Year,
		&m.Month,
		&m.Status,
		&m.MonthClosedAt,
		&m.MonthClosedBy,
		&m.MonthClosedNotes,
		&m.TaxFiledAt,
		&m.TaxFiledBy,
		&m.TaxFiledNotes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveFiscalPeriod persists a new fiscal period record. The unique
// (year, month) index rejects a second record for the same month.
func (r *PgxFiscalPeriodRepository) SaveFiscalPeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	query := `
		INSERT INTO fiscal_periods (` + fiscalPeriodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PeriodID,
		m.Year,
		m.Month,
		m.Status,
		m.MonthClosedAt,
		m.MonthClosedBy,
		m.MonthClosedNotes,
		m.TaxFiledAt,
		m.TaxFiledBy,
		m.TaxFiledNotes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fiscal period %d-%02d already exists", apperrors.ErrDuplicate, m.Year, m.Month)
		}
		return fmt.Errorf("failed to save fiscal period %d-%02d: %w", m.Year, m.Month, err)
	}
	return nil
}

// FindFiscalPeriodByID retrieves a fiscal period by its identifier.
func (r *PgxFiscalPeriodRepository) FindFiscalPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE period_id = $1;`

	m, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period by ID %s: %w", periodID, err)
	}

	period := mapping.ToDomainFiscalPeriod(*m)
	return &period, nil
}

// FindFiscalPeriodByYearMonth retrieves the period record for a given year
// and month, or ErrNotFound when none exists yet.
func (r *PgxFiscalPeriodRepository) FindFiscalPeriodByYearMonth(ctx context.Context, year int, month int) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE year = $1 AND month = $2;`

	m, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period %d-%02d: %w", year, month, err)
	}

	period := mapping.ToDomainFiscalPeriod(*m)
	return &period, nil
}

// ListFiscalPeriods retrieves period records, optionally narrowed to a year
// and status, ordered by year then month.
func (r *PgxFiscalPeriodRepository) ListFiscalPeriods(ctx context.Context, year *int, status *domain.FiscalPeriodStatus) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods`
	args := []interface{}{}
	conditions := []string{}
	if year != nil {
		args = append(args, *year)
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)))
	}
	if status != nil {
		args = append(args, string(*status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY year, month;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods: %w", err)
	}
	defer rows.Close()

	periods := []models.FiscalPeriod{}
	for rows.Next() {
		m, err := scanFiscalPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		periods = append(periods, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows: %w", rows.Err())
	}

	return mapping.ToDomainFiscalPeriodSlice(periods), nil
}

// UpdateFiscalPeriod updates the status and stamp fields of a period.
func (r *PgxFiscalPeriodRepository) UpdateFiscalPeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	query := `
		UPDATE fiscal_periods
		SET status = $2, month_closed_at = $3, month_closed_by = $4, month_closed_notes = $5, tax_filed_at = $6, tax_filed_by = $7, tax_filed_notes = $8, last_updated_at = $9, last_updated_by = $10
		WHERE period_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.PeriodID,
		m.Status,
		m.MonthClosedAt,
		m.MonthClosedBy,
		m.MonthClosedNotes,
		m.TaxFiledAt,
		m.TaxFiledBy,
		m.TaxFiledNotes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update fiscal period %s: %w", m.PeriodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
