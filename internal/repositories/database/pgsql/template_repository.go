package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/models"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const templateColumns = `template_id, template_name, category, description, is_system, is_active, version, usage_count, last_used_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxTemplateRepository struct {
	BaseRepository
}

// newPgxTemplateRepository creates a new repository for journal template data.
func newPgxTemplateRepository(pool *pgxpool.Pool) portsrepo.TemplateRepositoryFacade {
	return &PgxTemplateRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TemplateRepositoryFacade = (*PgxTemplateRepository)(nil)

func scanTemplate(row pgx.Row) (*models.JournalTemplate, error) {
	var m models.JournalTemplate
	err := row.Scan(
		&m.TemplateID,
		&m.TemplateName,
		&m.Category,
		&m.Description,
		&m.IsSystem,
		&m.IsActive,
		&m.Version,
		&m.UsageCount,
		&m.LastUsedAt,
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

func insertTemplateLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalTemplateLine) error {
	query := `
		INSERT INTO journal_template_lines (line_id, template_id, account_id, side, formula, line_order, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelTemplateLine(line)
		batch.Queue(query, m.LineID, m.TemplateID, m.AccountID, m.Side, m.Formula, m.LineOrder, m.Memo)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert template line %d: %w", i+1, err)
		}
	}
	return br.Close()
}

// SaveTemplate inserts a template header and its lines in one transaction.
func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, template domain.JournalTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelTemplate(template)
	query := `
		INSERT INTO journal_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		m.TemplateID,
		m.TemplateName,
		m.Category,
		m.Description,
		m.IsSystem,
		m.IsActive,
		m.Version,
		m.UsageCount,
		m.LastUsedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: template %s already exists", apperrors.ErrDuplicate, m.TemplateID)
		}
		return fmt.Errorf("failed to save template %s: %w", m.TemplateID, err)
	}

	if err := insertTemplateLines(ctx, tx, template.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTemplateByID retrieves a template header without its lines.
func (r *PgxTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.JournalTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM journal_templates WHERE template_id = $1;`

	m, err := scanTemplate(r.Pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find template by ID %s: %w", templateID, err)
	}

	tpl := mapping.ToDomainTemplate(*m)
	return &tpl, nil
}

func (r *PgxTemplateRepository) findLines(ctx context.Context, templateID string) ([]domain.JournalTemplateLine, error) {
	query := `
		SELECT line_id, template_id, account_id, side, formula, line_order, memo
		FROM journal_template_lines
		WHERE template_id = $1
		ORDER BY line_order;
	`
	rows, err := r.Pool.Query(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query template lines for %s: %w", templateID, err)
	}
	defer rows.Close()

	lines := []models.JournalTemplateLine{}
	for rows.Next() {
		var m models.JournalTemplateLine
		if err := rows.Scan(&m.LineID, &m.TemplateID, &m.AccountID, &m.Side, &m.Formula, &m.LineOrder, &m.Memo); err != nil {
			return nil, fmt.Errorf("failed to scan template line row: %w", err)
		}
		lines = append(lines, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating template line rows: %w", rows.Err())
	}

	return mapping.ToDomainTemplateLineSlice(lines), nil
}

// FindTemplateWithLines retrieves a template header and its current line set.
func (r *PgxTemplateRepository) FindTemplateWithLines(ctx context.Context, templateID string) (*domain.JournalTemplate, error) {
	tpl, err := r.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	lines, err := r.findLines(ctx, templateID)
	if err != nil {
		return nil, err
	}
	tpl.Lines = lines
	return tpl, nil
}

// ListTemplates retrieves a paginated list of templates ordered by name.
func (r *PgxTemplateRepository) ListTemplates(ctx context.Context, category *domain.TemplateCategory, activeOnly bool, limit int, offset int) ([]domain.JournalTemplate, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + templateColumns + ` FROM journal_templates WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if category != nil {
		query += fmt.Sprintf(" AND category = $%d", argPos)
		args = append(args, string(*category))
		argPos++
	}
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += fmt.Sprintf(" ORDER BY template_name LIMIT $%d OFFSET $%d;", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.JournalTemplate{}
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, mapping.ToDomainTemplate(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", rows.Err())
	}

	return templates, nil
}

// UpdateTemplate updates a template header and replaces its full line set.
func (r *PgxTemplateRepository) UpdateTemplate(ctx context.Context, template domain.JournalTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelTemplate(template)
	query := `
		UPDATE journal_templates
		SET template_name = $2, category = $3, description = $4, is_active = $5, version = $6, last_updated_at = $7, last_updated_by = $8
		WHERE template_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TemplateID,
		m.TemplateName,
		m.Category,
		m.Description,
		m.IsActive,
		m.Version,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update template %s: %w", m.TemplateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_template_lines WHERE template_id = $1;`, m.TemplateID); err != nil {
		return fmt.Errorf("failed to clear template lines for %s: %w", m.TemplateID, err)
	}
	if err := insertTemplateLines(ctx, tx, template.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteTemplate removes a template and its lines.
func (r *PgxTemplateRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM journal_template_lines WHERE template_id = $1;`, templateID); err != nil {
		return fmt.Errorf("failed to delete template lines for %s: %w", templateID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_templates WHERE template_id = $1;`, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", templateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// RecordTemplateUsage bumps the usage counter and stamps the last-used time.
func (r *PgxTemplateRepository) RecordTemplateUsage(ctx context.Context, templateID string, usedAt time.Time) error {
	query := `
		UPDATE journal_templates
		SET usage_count = usage_count + 1, last_used_at = $2
		WHERE template_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, templateID, usedAt)
	if err != nil {
		return fmt.Errorf("failed to record template usage for %s: %w", templateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
