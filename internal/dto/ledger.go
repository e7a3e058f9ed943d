package dto

import (
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GeneralLedgerLineResponse is one running-balance row of a ledger view.
type GeneralLedgerLineResponse struct {
	EntryID         string          `json:"entryID"`
	TransactionID   string          `json:"transactionID"`
	TransactionDate string          `json:"transactionDate"`
	Description     string          `json:"description"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	IsReversal      bool            `json:"isReversal"`
	RunningBalance  decimal.Decimal `json:"runningBalance"`
}

// GeneralLedgerResponse represents the general ledger report response
type GeneralLedgerResponse struct {
	Account        AccountResponse             `json:"account"`
	FromDate       string                      `json:"fromDate"`
	ToDate         string                      `json:"toDate"`
	OpeningBalance decimal.Decimal             `json:"openingBalance"`
	ClosingBalance decimal.Decimal             `json:"closingBalance"`
	Lines          []GeneralLedgerLineResponse `json:"lines"`
}

// GeneralLedgerParams defines query parameters for the ledger report.
type GeneralLedgerParams struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// ToGeneralLedgerResponse converts a domain general ledger to a DTO response
func ToGeneralLedgerResponse(ledger *domain.GeneralLedger) GeneralLedgerResponse {
	response := GeneralLedgerResponse{
		Account:        ToAccountResponse(&ledger.Account),
		FromDate:       ledger.From.Format("2006-01-02"),
		ToDate:         ledger.To.Format("2006-01-02"),
		OpeningBalance: ledger.OpeningBalance,
		ClosingBalance: ledger.ClosingBalance,
		Lines:          make([]GeneralLedgerLineResponse, len(ledger.Lines)),
	}
	for i, line := range ledger.Lines {
		response.Lines[i] = GeneralLedgerLineResponse{
			EntryID:         line.EntryID,
			TransactionID:   line.TransactionID,
			TransactionDate: line.TransactionDate.Format("2006-01-02"),
			Description:     line.Description,
			Debit:           line.Debit,
			Credit:          line.Credit,
			IsReversal:      line.IsReversal,
			RunningBalance:  line.RunningBalance,
		}
	}
	return response
}
