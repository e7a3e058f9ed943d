package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/models"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/utils/mapping"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, template_id, transaction_date, amount, description, reference_number, project_id, transaction_number, status, posted_at, posted_by, void_reason, void_notes, voided_at, voided_by, closing_year, closing_seq, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, transaction_id, account_id, debit, credit, is_reversal, reversed_entry_id, project_id, memo, line_order, voided_at, created_at, created_by`

// Sequence types for per-year document numbering.
const (
	sequenceTypeTransaction = "TRANSACTION"
	sequenceTypeClosing     = "CLOSING"
	sequencePrefixTrx       = "TRX"
	sequencePrefixClosing   = "FC"
)

// qualifyColumns prefixes every column in a comma-separated list with a table
// alias, for queries that join other tables.
func qualifyColumns(alias string, columns string) string {
	return alias + "." + strings.ReplaceAll(columns, ", ", ", "+alias+".")
}

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction and
// journal entry data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TemplateID,
		&m.TransactionDate,
		&m.Amount,
		&m.Description,
		&m.ReferenceNumber,
		&m.ProjectID,
		&m.TransactionNumber,
		&m.Status,
		&m.PostedAt,
		&m.PostedBy,
		&m.VoidReason,
		&m.VoidNotes,
		&m.VoidedAt,
		&m.VoidedBy,
		&m.ClosingYear,
		&m.ClosingSeq,
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

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TransactionID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.IsReversal,
		&m.ReversedEntryID,
		&m.ProjectID,
		&m.Memo,
		&m.LineOrder,
		&m.VoidedAt,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// nextDocumentNumber locks the sequence row for (sequenceType, year), creating
// it on first use, and returns the next formatted document number. Must run
// inside the caller's transaction so the gapless guarantee holds.
func nextDocumentNumber(ctx context.Context, tx pgx.Tx, sequenceType string, prefix string, year int) (string, error) {
	query := `
		INSERT INTO transaction_sequences (sequence_type, year, prefix, last_number)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (sequence_type, year)
		DO UPDATE SET last_number = transaction_sequences.last_number + 1
		RETURNING last_number;
	`
	var lastNumber int
	if err := tx.QueryRow(ctx, query, sequenceType, year, prefix).Scan(&lastNumber); err != nil {
		return "", fmt.Errorf("failed to advance %s sequence for year %d: %w", sequenceType, year, err)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, lastNumber), nil
}

func insertOverridesAndVariables(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if len(txn.AccountOverrides) > 0 {
		batch := &pgx.Batch{}
		query := `
			INSERT INTO transaction_account_overrides (transaction_id, line_id, account_id)
			VALUES ($1, $2, $3);
		`
		for lineID, accountID := range txn.AccountOverrides {
			batch.Queue(query, txn.TransactionID, lineID, accountID)
		}
		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to insert account override for transaction %s: %w", txn.TransactionID, err)
			}
		}
		if err := br.Close(); err != nil {
			return err
		}
	}

	if len(txn.Variables) > 0 {
		batch := &pgx.Batch{}
		query := `
			INSERT INTO transaction_variables (transaction_id, variable_name, variable_value)
			VALUES ($1, $2, $3);
		`
		for name, value := range txn.Variables {
			batch.Queue(query, txn.TransactionID, name, value)
		}
		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to insert variable for transaction %s: %w", txn.TransactionID, err)
			}
		}
		if err := br.Close(); err != nil {
			return err
		}
	}

	return nil
}

func insertTransactionHeader(ctx context.Context, tx pgx.Tx, m models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.TemplateID,
		m.TransactionDate,
		m.Amount,
		m.Description,
		m.ReferenceNumber,
		m.ProjectID,
		m.TransactionNumber,
		m.Status,
		m.PostedAt,
		m.PostedBy,
		m.VoidReason,
		m.VoidNotes,
		m.VoidedAt,
		m.VoidedBy,
		m.ClosingYear,
		m.ClosingSeq,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return err
}

func insertEntries(ctx context.Context, tx pgx.Tx, entries []domain.JournalEntry) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, entry := range entries {
		m := mapping.ToModelJournalEntry(entry)
		batch.Queue(query,
			m.EntryID,
			m.TransactionID,
			m.AccountID,
			m.Debit,
			m.Credit,
			m.IsReversal,
			m.ReversedEntryID,
			m.ProjectID,
			m.Memo,
			m.LineOrder,
			m.VoidedAt,
			m.CreatedAt,
			m.CreatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert journal entry %d: %w", i+1, err)
		}
	}
	return br.Close()
}

// SaveTransaction persists a new draft transaction with its overrides and
// stored variables in one unit of work.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := insertTransactionHeader(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, txn.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	if err := insertOverridesAndVariables(ctx, tx, txn); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) findOverrides(ctx context.Context, transactionID string) (map[string]string, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT line_id, account_id FROM transaction_account_overrides WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account overrides for %s: %w", transactionID, err)
	}
	defer rows.Close()

	overrides := map[string]string{}
	for rows.Next() {
		var lineID, accountID string
		if err := rows.Scan(&lineID, &accountID); err != nil {
			return nil, fmt.Errorf("failed to scan account override row: %w", err)
		}
		overrides[lineID] = accountID
	}
	return overrides, rows.Err()
}

func (r *PgxTransactionRepository) findVariables(ctx context.Context, transactionID string) (map[string]decimal.Decimal, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT variable_name, variable_value FROM transaction_variables WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variables for %s: %w", transactionID, err)
	}
	defer rows.Close()

	variables := map[string]decimal.Decimal{}
	for rows.Next() {
		var name string
		var value decimal.Decimal
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan variable row: %w", err)
		}
		variables[name] = value
	}
	return variables, rows.Err()
}

// FindTransactionByID retrieves a transaction header with its account
// overrides and stored variables. Entries are loaded separately.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)

	if txn.AccountOverrides, err = r.findOverrides(ctx, transactionID); err != nil {
		return nil, err
	}
	if txn.Variables, err = r.findVariables(ctx, transactionID); err != nil {
		return nil, err
	}

	return &txn, nil
}

// FindEntriesByTransactionID retrieves all journal entries of a transaction in
// line order, reversals included.
func (r *PgxTransactionRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE transaction_id = $1 ORDER BY line_order;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", rows.Err())
	}

	return mapping.ToDomainJournalEntrySlice(entries), nil
}

// ListTransactions retrieves a filtered, token-paginated transaction list.
// Ordering is transaction_date DESC with created_at DESC as the tie-breaker,
// which the pagination token encodes.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + qualifyColumns("t", transactionColumns) + `
		FROM transactions t
	`
	filterClause := `WHERE 1=1`
	args := []interface{}{}

	if filter.Category != nil {
		baseQuery += ` JOIN journal_templates jt ON jt.template_id = t.template_id`
		args = append(args, string(*filter.Category))
		filterClause += ` AND jt.category = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		filterClause += ` AND t.status = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		filterClause += ` AND t.transaction_date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		filterClause += ` AND t.transaction_date <= $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		pos := strconv.Itoa(len(args))
		filterClause += ` AND (t.description ILIKE $` + pos + ` OR t.reference_number ILIKE $` + pos + `)`
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += fmt.Sprintf(" AND (t.transaction_date, t.created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	orderByClause := `ORDER BY t.transaction_date DESC, t.created_at DESC`
	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, *m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	var newNextToken *string
	if len(modelTxns) == fetchLimit {
		modelTxns = modelTxns[:limit]
		last := modelTxns[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		newNextToken = &token
	}

	txns := make([]domain.Transaction, len(modelTxns))
	for i, m := range modelTxns {
		txns[i] = mapping.ToDomainTransaction(m)
	}

	return txns, newNextToken, nil
}

// UpdateDraftTransaction updates the editable header fields of a draft and
// replaces its overrides and variables. The status guard in the WHERE clause
// keeps posted transactions immutable even under concurrent posting.
func (r *PgxTransactionRepository) UpdateDraftTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET template_id = $2, transaction_date = $3, amount = $4, description = $5, reference_number = $6, project_id = $7, last_updated_at = $8, last_updated_by = $9
		WHERE transaction_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.TemplateID,
		m.TransactionDate,
		m.Amount,
		m.Description,
		m.ReferenceNumber,
		m.ProjectID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft transaction %s: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissingDraft(ctx, m.TransactionID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_account_overrides WHERE transaction_id = $1;`, m.TransactionID); err != nil {
		return fmt.Errorf("failed to clear account overrides for %s: %w", m.TransactionID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_variables WHERE transaction_id = $1;`, m.TransactionID); err != nil {
		return fmt.Errorf("failed to clear variables for %s: %w", m.TransactionID, err)
	}
	if err := insertOverridesAndVariables(ctx, tx, txn); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteDraftTransaction removes a draft transaction with its overrides and
// variables. Non-draft transactions are never deleted.
func (r *PgxTransactionRepository) DeleteDraftTransaction(ctx context.Context, transactionID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_account_overrides WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to delete account overrides for %s: %w", transactionID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_variables WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to delete variables for %s: %w", transactionID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1 AND status = 'DRAFT';`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete draft transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissingDraft(ctx, transactionID)
	}

	return r.Commit(ctx, tx)
}

// classifyMissingDraft distinguishes "no such transaction" from "exists but
// not DRAFT" after a status-guarded write touched zero rows.
func (r *PgxTransactionRepository) classifyMissingDraft(ctx context.Context, transactionID string) error {
	existing, err := r.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: transaction %s is %s, expected DRAFT", apperrors.ErrInvalidState, transactionID, existing.Status)
}

// lockTransaction fetches a transaction header FOR UPDATE inside tx.
func lockTransaction(ctx context.Context, tx pgx.Tx, transactionID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`

	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	return m, nil
}

// PostTransaction marks a draft POSTED in one unit of work: lock the row,
// re-verify DRAFT, take the next document number for the transaction's year,
// insert the entries and stamp the header.
func (r *PgxTransactionRepository) PostTransaction(ctx context.Context, transactionID string, entries []domain.JournalEntry, postedBy string, postedAt time.Time) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m, err := lockTransaction(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if m.Status != string(domain.StatusDraft) {
		return nil, fmt.Errorf("%w: transaction %s is %s, expected DRAFT", apperrors.ErrInvalidState, transactionID, m.Status)
	}

	docNumber, err := nextDocumentNumber(ctx, tx, sequenceTypeTransaction, sequencePrefixTrx, m.TransactionDate.Year())
	if err != nil {
		return nil, err
	}

	if err := insertEntries(ctx, tx, entries); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE transactions
		SET status = $2, transaction_number = $3, posted_at = $4, posted_by = $5, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, transactionID, string(domain.StatusPosted), docNumber, postedAt, postedBy); err != nil {
		return nil, fmt.Errorf("failed to mark transaction %s posted: %w", transactionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	posted := mapping.ToDomainTransaction(*m)
	posted.Status = domain.StatusPosted
	posted.TransactionNumber = &docNumber
	posted.PostedAt = &postedAt
	posted.PostedBy = &postedBy
	posted.LastUpdatedAt = postedAt
	posted.LastUpdatedBy = postedBy
	posted.Entries = entries
	return &posted, nil
}

// VoidTransaction marks a posted transaction VOID in one unit of work: lock
// the row, re-verify POSTED, append the reversal entries, stamp voided_at on
// every entry and update the header.
func (r *PgxTransactionRepository) VoidTransaction(ctx context.Context, transactionID string, reversals []domain.JournalEntry, reason string, notes string, voidedBy string, voidedAt time.Time) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m, err := lockTransaction(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if m.Status != string(domain.StatusPosted) {
		return nil, fmt.Errorf("%w: transaction %s is %s, expected POSTED", apperrors.ErrInvalidState, transactionID, m.Status)
	}

	if err := insertEntries(ctx, tx, reversals); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE journal_entries SET voided_at = $2 WHERE transaction_id = $1;`, transactionID, voidedAt); err != nil {
		return nil, fmt.Errorf("failed to stamp voided entries for %s: %w", transactionID, err)
	}

	updateQuery := `
		UPDATE transactions
		SET status = $2, void_reason = $3, void_notes = $4, voided_at = $5, voided_by = $6, last_updated_at = $5, last_updated_by = $6
		WHERE transaction_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, transactionID, string(domain.StatusVoid), reason, notes, voidedAt, voidedBy); err != nil {
		return nil, fmt.Errorf("failed to mark transaction %s void: %w", transactionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	voided := mapping.ToDomainTransaction(*m)
	voided.Status = domain.StatusVoid
	voided.VoidReason = &reason
	voided.VoidNotes = &notes
	voided.VoidedAt = &voidedAt
	voided.VoidedBy = &voidedBy
	voided.LastUpdatedAt = voidedAt
	voided.LastUpdatedBy = voidedBy
	return &voided, nil
}

// SaveClosingTransactions persists already-balanced closing transactions with
// their entries in one unit of work, assigning FC document numbers in
// sequence order. The unique (closing_year, closing_seq) index rejects a
// concurrent second closing.
func (r *PgxTransactionRepository) SaveClosingTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	for i := range txns {
		txn := txns[i]
		docNumber, err := nextDocumentNumber(ctx, tx, sequenceTypeClosing, sequencePrefixClosing, txn.TransactionDate.Year())
		if err != nil {
			return err
		}
		txn.TransactionNumber = &docNumber

		if err := insertTransactionHeader(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: closing transactions for year %d already exist", apperrors.ErrDuplicate, *txn.ClosingYear)
			}
			return fmt.Errorf("failed to insert closing transaction %s: %w", txn.TransactionID, err)
		}
		if err := insertEntries(ctx, tx, txn.Entries); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// HasClosingTransactions reports whether any closing transaction exists for
// the year, voided or not.
func (r *PgxTransactionRepository) HasClosingTransactions(ctx context.Context, year int) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE closing_year = $1);`, year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check closing transactions for year %d: %w", year, err)
	}
	return exists, nil
}

// FindClosingTransactions retrieves the closing transactions for a year in
// closing sequence order.
func (r *PgxTransactionRepository) FindClosingTransactions(ctx context.Context, year int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE closing_year = $1 ORDER BY closing_seq;`

	rows, err := r.Pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query closing transactions for year %d: %w", year, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan closing transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating closing transaction rows: %w", rows.Err())
	}

	return txns, nil
}
