package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a transaction header.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	TemplateID        *string         `db:"template_id"`
	TransactionDate   time.Time       `db:"transaction_date"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	ReferenceNumber   string          `db:"reference_number"`
	ProjectID         *string         `db:"project_id"`
	TransactionNumber *string         `db:"transaction_number"`
	Status            string          `db:"status"`
	PostedAt          *time.Time      `db:"posted_at"`
	PostedBy          *string         `db:"posted_by"`
	VoidReason        *string         `db:"void_reason"`
	VoidNotes         *string         `db:"void_notes"`
	VoidedAt          *time.Time      `db:"voided_at"`
	VoidedBy          *string         `db:"voided_by"`
	ClosingYear       *int            `db:"closing_year"`
	ClosingSeq        *int            `db:"closing_seq"`
	AuditFields
}

// JournalEntry is the database representation of one ledger line.
type JournalEntry struct {
	EntryID         string          `db:"entry_id"`
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	Debit           decimal.Decimal `db:"debit"`
	Credit          decimal.Decimal `db:"credit"`
	IsReversal      bool            `db:"is_reversal"`
	ReversedEntryID *string         `db:"reversed_entry_id"`
	ProjectID       *string         `db:"project_id"`
	Memo            string          `db:"memo"`
	LineOrder       int             `db:"line_order"`
	VoidedAt        *time.Time      `db:"voided_at"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}

// TransactionSequence backs gapless per-year document numbering. Rows are
// locked FOR UPDATE inside the posting unit of work.
type TransactionSequence struct {
	SequenceType string `db:"sequence_type"`
	Year         int    `db:"year"`
	Prefix       string `db:"prefix"`
	LastNumber   int    `db:"last_number"`
}
