package dto

import (
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to create a draft transaction.
type CreateTransactionRequest struct {
	TemplateID       string                     `json:"templateID" binding:"required"`
	TransactionDate  time.Time                  `json:"transactionDate" binding:"required" time_format:"2006-01-02"`
	Amount           decimal.Decimal            `json:"amount" binding:"required"`
	Description      string                     `json:"description" binding:"required"`
	ReferenceNumber  string                     `json:"referenceNumber"`
	ProjectID        *string                    `json:"projectID"`
	AccountOverrides map[string]string          `json:"accountOverrides"` // template line ID -> replacement account ID
	Variables        map[string]decimal.Decimal `json:"variables"`
}

// UpdateTransactionRequest defines the data allowed for updating a draft.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateTransactionRequest struct {
	TransactionDate  *time.Time                  `json:"transactionDate"`
	Amount           *decimal.Decimal            `json:"amount"`
	Description      *string                     `json:"description"`
	ReferenceNumber  *string                     `json:"referenceNumber"`
	ProjectID        *string                     `json:"projectID"`
	AccountOverrides *map[string]string          `json:"accountOverrides"`
	Variables        *map[string]decimal.Decimal `json:"variables"`
}

// PostTransactionRequest carries optional variables supplied at posting time.
// They overlay the variables stored with the draft.
type PostTransactionRequest struct {
	Variables map[string]decimal.Decimal `json:"variables"`
}

// VoidTransactionRequest defines the payload for voiding a posted transaction.
type VoidTransactionRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

// JournalEntryResponse defines the data returned for a single journal entry.
type JournalEntryResponse struct {
	EntryID         string          `json:"entryID"`
	AccountID       string          `json:"accountID"`
	AccountCode     string          `json:"accountCode,omitempty"`
	AccountName     string          `json:"accountName,omitempty"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	IsReversal      bool            `json:"isReversal"`
	ReversedEntryID *string         `json:"reversedEntryID,omitempty"`
	Memo            string          `json:"memo"`
	LineOrder       int             `json:"lineOrder"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID     string                     `json:"transactionID"`
	TemplateID        *string                    `json:"templateID,omitempty"`
	TransactionNumber *string                    `json:"transactionNumber,omitempty"`
	TransactionDate   time.Time                  `json:"transactionDate"`
	Amount            decimal.Decimal            `json:"amount"`
	Description       string                     `json:"description"`
	ReferenceNumber   string                     `json:"referenceNumber"`
	ProjectID         *string                    `json:"projectID,omitempty"`
	Status            domain.TransactionStatus   `json:"status"`
	AccountOverrides  map[string]string          `json:"accountOverrides,omitempty"`
	Variables         map[string]decimal.Decimal `json:"variables,omitempty"`
	PostedAt          *time.Time                 `json:"postedAt,omitempty"`
	PostedBy          *string                    `json:"postedBy,omitempty"`
	VoidReason        *string                    `json:"voidReason,omitempty"`
	VoidNotes         *string                    `json:"voidNotes,omitempty"`
	VoidedAt          *time.Time                 `json:"voidedAt,omitempty"`
	VoidedBy          *string                    `json:"voidedBy,omitempty"`
	Entries           []JournalEntryResponse     `json:"entries,omitempty"`
	CreatedAt         time.Time                  `json:"createdAt"`
	CreatedBy         string                     `json:"createdBy"`
}

// PreviewEntryResponse defines one computed line of a posting preview.
type PreviewEntryResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode,omitempty"`
	AccountName string          `json:"accountName,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Formula     string          `json:"formula"`
	Memo        string          `json:"memo"`
}

// PreviewTransactionResponse shows the entries posting would produce,
// without persisting anything.
type PreviewTransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	TotalDebit    decimal.Decimal        `json:"totalDebit"`
	TotalCredit   decimal.Decimal        `json:"totalCredit"`
	Balanced      bool                   `json:"balanced"`
	Entries       []PreviewEntryResponse `json:"entries"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Status    *domain.TransactionStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOID"`
	Category  *domain.TemplateCategory  `form:"category" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER ADJUSTMENT SYSTEM"`
	From      *time.Time                `form:"from" time_format:"2006-01-02"`
	To        *time.Time                `form:"to" time_format:"2006-01-02"`
	Search    string                    `form:"search"`
	Limit     int                       `form:"limit,default=20"`
	NextToken *string                   `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(entry *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:         entry.EntryID,
		AccountID:       entry.AccountID,
		Debit:           entry.Debit,
		Credit:          entry.Credit,
		IsReversal:      entry.IsReversal,
		ReversedEntryID: entry.ReversedEntryID,
		Memo:            entry.Memo,
		LineOrder:       entry.LineOrder,
	}
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:     txn.TransactionID,
		TemplateID:        txn.TemplateID,
		TransactionNumber: txn.TransactionNumber,
		TransactionDate:   txn.TransactionDate,
		Amount:            txn.Amount,
		Description:       txn.Description,
		ReferenceNumber:   txn.ReferenceNumber,
		ProjectID:         txn.ProjectID,
		Status:            txn.Status,
		AccountOverrides:  txn.AccountOverrides,
		Variables:         txn.Variables,
		PostedAt:          txn.PostedAt,
		PostedBy:          txn.PostedBy,
		VoidReason:        txn.VoidReason,
		VoidNotes:         txn.VoidNotes,
		VoidedAt:          txn.VoidedAt,
		VoidedBy:          txn.VoidedBy,
		CreatedAt:         txn.CreatedAt,
		CreatedBy:         txn.CreatedBy,
	}
	if len(txn.Entries) > 0 {
		resp.Entries = make([]JournalEntryResponse, len(txn.Entries))
		for i, entry := range txn.Entries {
			resp.Entries[i] = ToJournalEntryResponse(&entry)
		}
	}
	return resp
}

// ToListTransactionResponse converts a slice of domain.Transaction to DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}
