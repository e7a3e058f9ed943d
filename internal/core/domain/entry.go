package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one ledger line of a transaction. Exactly one of Debit and
// Credit is nonzero. Entries are append-only: voiding adds reversal entries,
// it never mutates or removes originals.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	IsReversal      bool            `json:"isReversal"`
	ReversedEntryID *string         `json:"reversedEntryID,omitempty"`
	ProjectID       *string         `json:"projectID,omitempty"`
	Memo            string          `json:"memo,omitempty"`
	LineOrder       int             `json:"lineOrder"`
	VoidedAt        *time.Time      `json:"voidedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// Reversed returns a new entry on the same account with debit and credit
// swapped, flagged as a reversal of e.
func (e JournalEntry) Reversed(entryID string, lineOrder int, now time.Time, actor string) JournalEntry {
	reversedID := e.EntryID
	return JournalEntry{
		EntryID:         entryID,
		TransactionID:   e.TransactionID,
		AccountID:       e.AccountID,
		Debit:           e.Credit,
		Credit:          e.Debit,
		IsReversal:      true,
		ReversedEntryID: &reversedID,
		ProjectID:       e.ProjectID,
		Memo:            e.Memo,
		LineOrder:       lineOrder,
		CreatedAt:       now,
		CreatedBy:       actor,
	}
}
