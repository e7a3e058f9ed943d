package dto

import (
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClosingLineResponse is one line of a closing entry preview.
type ClosingLineResponse struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo"`
}

// ClosingEntryResponse is one candidate closing transaction.
type ClosingEntryResponse struct {
	ReferenceNumber string                `json:"referenceNumber"`
	Description     string                `json:"description"`
	Date            string                `json:"date"`
	Lines           []ClosingLineResponse `json:"lines"`
}

// ClosingPreviewResponse represents the fiscal year closing preview response
type ClosingPreviewResponse struct {
	Year          int                    `json:"year"`
	TotalRevenue  decimal.Decimal        `json:"totalRevenue"`
	TotalExpense  decimal.Decimal        `json:"totalExpense"`
	NetIncome     decimal.Decimal        `json:"netIncome"`
	AlreadyClosed bool                   `json:"alreadyClosed"`
	Entries       []ClosingEntryResponse `json:"entries"`
}

// ExecuteClosingResponse wraps the transactions created by a closing run.
type ExecuteClosingResponse struct {
	Year         int                   `json:"year"`
	NetIncome    decimal.Decimal       `json:"netIncome"`
	Transactions []TransactionResponse `json:"transactions"`
}

// IncomeStatementItemResponse is one account row of an income statement.
type IncomeStatementItemResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
}

// IncomeStatementResponse represents the income statement report response
type IncomeStatementResponse struct {
	FromDate string                        `json:"fromDate"`
	ToDate   string                        `json:"toDate"`
	Revenue  []IncomeStatementItemResponse `json:"revenue"`
	Expenses []IncomeStatementItemResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue decimal.Decimal `json:"totalRevenue"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		NetIncome    decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// ToClosingPreviewResponse converts a domain closing preview to a DTO response
func ToClosingPreviewResponse(preview *domain.ClosingPreview) ClosingPreviewResponse {
	response := ClosingPreviewResponse{
		Year:          preview.Year,
		TotalRevenue:  preview.TotalRevenue,
		TotalExpense:  preview.TotalExpense,
		NetIncome:     preview.NetIncome,
		AlreadyClosed: preview.AlreadyClosed,
		Entries:       make([]ClosingEntryResponse, len(preview.Entries)),
	}
	for i, entry := range preview.Entries {
		lines := make([]ClosingLineResponse, len(entry.Lines))
		for j, line := range entry.Lines {
			lines[j] = ClosingLineResponse{
				AccountCode: line.AccountCode,
				AccountName: line.AccountName,
				Debit:       line.Debit,
				Credit:      line.Credit,
				Memo:        line.Memo,
			}
		}
		response.Entries[i] = ClosingEntryResponse{
			ReferenceNumber: entry.ReferenceNumber,
			Description:     entry.Description,
			Date:            entry.Date.Format("2006-01-02"),
			Lines:           lines,
		}
	}
	return response
}

// ToIncomeStatementResponse converts a domain income statement to a DTO response
func ToIncomeStatementResponse(stmt *domain.IncomeStatement, from, to time.Time) IncomeStatementResponse {
	response := IncomeStatementResponse{
		FromDate: from.Format("2006-01-02"),
		ToDate:   to.Format("2006-01-02"),
		Revenue:  make([]IncomeStatementItemResponse, len(stmt.RevenueItems)),
		Expenses: make([]IncomeStatementItemResponse, len(stmt.ExpenseItems)),
	}
	for i, item := range stmt.RevenueItems {
		response.Revenue[i] = IncomeStatementItemResponse{
			AccountID:   item.Account.AccountID,
			AccountCode: item.Account.AccountCode,
			AccountName: item.Account.AccountName,
			Balance:     item.Balance,
		}
	}
	for i, item := range stmt.ExpenseItems {
		response.Expenses[i] = IncomeStatementItemResponse{
			AccountID:   item.Account.AccountID,
			AccountCode: item.Account.AccountCode,
			AccountName: item.Account.AccountName,
			Balance:     item.Balance,
		}
	}
	response.Summary.TotalRevenue = stmt.TotalRevenue
	response.Summary.TotalExpense = stmt.TotalExpense
	response.Summary.NetIncome = stmt.NetIncome()
	return response
}
