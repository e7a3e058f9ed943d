package services

import (
	"context"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction with its journal entries.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated transaction list.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for draft transactions
type TransactionWriterSvc interface {
	// CreateTransaction persists a new draft transaction.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorID string) (*domain.Transaction, error)

	// UpdateTransaction updates a draft transaction. Posted and voided
	// transactions are immutable.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, updaterID string) (*domain.Transaction, error)

	// DeleteTransaction removes a draft transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionPosterSvc defines the posting lifecycle operations
type TransactionPosterSvc interface {
	// PreviewTransaction computes the journal entries posting would create,
	// without persisting anything.
	PreviewTransaction(ctx context.Context, transactionID string) (*dto.PreviewTransactionResponse, error)

	// PostTransaction evaluates the draft against its template, verifies
	// balance and period state, assigns the document number and marks the
	// transaction POSTED. Variables in req overlay the stored ones.
	PostTransaction(ctx context.Context, transactionID string, req dto.PostTransactionRequest, postedBy string) (*domain.Transaction, error)

	// VoidTransaction appends exact reversal entries and marks a posted
	// transaction VOID.
	VoidTransaction(ctx context.Context, transactionID string, req dto.VoidTransactionRequest, voidedBy string) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionPosterSvc
}
