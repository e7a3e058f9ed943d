package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the state machine driving balanced entry generation.
// DRAFT -> POSTED -> VOID; drafts may be deleted, posted transactions never.
type TransactionStatus string

const (
	StatusDraft  TransactionStatus = "DRAFT"
	StatusPosted TransactionStatus = "POSTED"
	StatusVoid   TransactionStatus = "VOID"
)

// Transaction is one user-supplied financial event. Entries are generated from
// the referenced template at posting time; the document number is assigned only
// then so that discarded drafts leave no numbering gaps.
type Transaction struct {
	TransactionID     string            `json:"transactionID"`
	TemplateID        *string           `json:"templateID,omitempty"` // nil for fiscal closing transactions
	TransactionDate   time.Time         `json:"transactionDate"`
	Amount            decimal.Decimal   `json:"amount"` // principal amount, 2-decimal accounting scale
	Description       string            `json:"description"`
	ReferenceNumber   string            `json:"referenceNumber,omitempty"`
	ProjectID         *string           `json:"projectID,omitempty"`
	TransactionNumber *string           `json:"transactionNumber,omitempty"` // nil until posted
	Status            TransactionStatus `json:"status"`

	// Per-line account redirections, template line ID -> account ID.
	AccountOverrides map[string]string `json:"accountOverrides,omitempty"`
	// Stored formula variables for detailed templates.
	Variables map[string]decimal.Decimal `json:"variables,omitempty"`

	PostedAt *time.Time `json:"postedAt,omitempty"`
	PostedBy *string    `json:"postedBy,omitempty"`

	VoidReason *string    `json:"voidReason,omitempty"`
	VoidNotes  *string    `json:"voidNotes,omitempty"`
	VoidedAt   *time.Time `json:"voidedAt,omitempty"`
	VoidedBy   *string    `json:"voidedBy,omitempty"`

	// Set only on fiscal year closing transactions; the store enforces
	// uniqueness of (ClosingYear, ClosingSeq).
	ClosingYear *int `json:"closingYear,omitempty"`
	ClosingSeq  *int `json:"closingSeq,omitempty"`

	Entries []JournalEntry `json:"entries,omitempty"`
	AuditFields
}

// IsDraft reports whether the transaction can still be edited or deleted.
func (t *Transaction) IsDraft() bool { return t.Status == StatusDraft }

// IsPosted reports whether the transaction has a persisted, balanced entry set.
func (t *Transaction) IsPosted() bool { return t.Status == StatusPosted }
