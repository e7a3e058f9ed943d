package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeStatementItem is one revenue or expense account's net posted balance
// over a reporting range.
type IncomeStatementItem struct {
	Account Account         `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// IncomeStatement aggregates income-statement balances for a date range.
type IncomeStatement struct {
	TotalRevenue decimal.Decimal       `json:"totalRevenue"`
	TotalExpense decimal.Decimal       `json:"totalExpense"`
	RevenueItems []IncomeStatementItem `json:"revenueItems"`
	ExpenseItems []IncomeStatementItem `json:"expenseItems"`
}

// NetIncome is total revenue minus total expense.
func (s IncomeStatement) NetIncome() decimal.Decimal {
	return s.TotalRevenue.Sub(s.TotalExpense)
}

// ClosingLinePreview is one candidate closing entry line with a human-readable memo.
type ClosingLinePreview struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo"`
}

// ClosingEntryPreview is one candidate balanced closing transaction.
type ClosingEntryPreview struct {
	ReferenceNumber string               `json:"referenceNumber"`
	Description     string               `json:"description"`
	Date            time.Time            `json:"date"`
	Lines           []ClosingLinePreview `json:"lines"`
}

// ClosingPreview describes what executing the fiscal year closing would do,
// without side effects.
type ClosingPreview struct {
	Year          int                   `json:"year"`
	TotalRevenue  decimal.Decimal       `json:"totalRevenue"`
	TotalExpense  decimal.Decimal       `json:"totalExpense"`
	NetIncome     decimal.Decimal       `json:"netIncome"`
	Entries       []ClosingEntryPreview `json:"entries"`
	AlreadyClosed bool                  `json:"alreadyClosed"`
}
