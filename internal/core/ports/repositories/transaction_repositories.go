package repositories

import (
	"context"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
)

// TransactionFilter narrows transaction listings. Nil fields mean "any".
type TransactionFilter struct {
	Status   *domain.TransactionStatus
	Category *domain.TemplateCategory
	From     *time.Time
	To       *time.Time
	Search   string
}

// TransactionReader defines read operations for transactions and their entries
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction header with its account
	// overrides and stored variables.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindEntriesByTransactionID retrieves all journal entries of a
	// transaction in line order, reversals included.
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)

	// ListTransactions retrieves a filtered, token-paginated transaction list.
	ListTransactions(ctx context.Context, filter TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for draft transactions
type TransactionWriter interface {
	// SaveTransaction persists a new draft transaction with its overrides
	// and variables.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateDraftTransaction updates the editable header fields of a draft.
	UpdateDraftTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteDraftTransaction removes a draft transaction and its overrides
	// and variables.
	DeleteDraftTransaction(ctx context.Context, transactionID string) error
}

// TransactionPoster defines the posting and voiding units of work. Each call
// is one atomic unit: the transaction row is locked, its status re-verified
// under the lock, and either everything commits or nothing does.
type TransactionPoster interface {
	// PostTransaction persists the prepared entries, assigns the next
	// sequential document number for the transaction's year and marks the
	// transaction POSTED. Fails with ErrInvalidState if the row is no longer
	// DRAFT by the time the lock is acquired.
	PostTransaction(ctx context.Context, transactionID string, entries []domain.JournalEntry, postedBy string, postedAt time.Time) (*domain.Transaction, error)

	// VoidTransaction appends the prepared reversal entries, stamps voided_at
	// on every entry and marks the transaction VOID. Fails with
	// ErrInvalidState if the row is not POSTED under the lock.
	VoidTransaction(ctx context.Context, transactionID string, reversals []domain.JournalEntry, reason string, notes string, voidedBy string, voidedAt time.Time) (*domain.Transaction, error)

	// SaveClosingTransactions persists already-balanced closing transactions
	// with their entries in one unit of work, assigning FC document numbers.
	// The store's unique (closing_year, closing_seq) index rejects a second
	// closing for the same year with ErrDuplicate.
	SaveClosingTransactions(ctx context.Context, txns []domain.Transaction) error
}

// ClosingReader defines read operations for fiscal year closing state
type ClosingReader interface {
	// HasClosingTransactions reports whether any closing transaction exists
	// for the year, voided or not.
	HasClosingTransactions(ctx context.Context, year int) (bool, error)

	// FindClosingTransactions retrieves the closing transactions for a year
	// in closing sequence order.
	FindClosingTransactions(ctx context.Context, year int) ([]domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionPoster
	ClosingReader
}
