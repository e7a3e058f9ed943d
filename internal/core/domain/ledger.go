package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralLedgerLine is one entry in an account's running-balance ledger view.
type GeneralLedgerLine struct {
	EntryID         string          `json:"entryID"`
	TransactionID   string          `json:"transactionID"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	IsReversal      bool            `json:"isReversal"`
	RunningBalance  decimal.Decimal `json:"runningBalance"`
}

// GeneralLedger is the running-balance view of one account over a date range.
// Balances are signed by the account's normal balance side.
type GeneralLedger struct {
	Account        Account             `json:"account"`
	From           time.Time           `json:"from"`
	To             time.Time           `json:"to"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
	Lines          []GeneralLedgerLine `json:"lines"`
}
