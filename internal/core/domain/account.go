package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// JournalSide is one of the two columns of a double-entry ledger line.
type JournalSide string

const (
	Debit  JournalSide = "DEBIT"
	Credit JournalSide = "CREDIT"
)

// NormalBalance returns the side on which accounts of this type normally carry
// their balance. It is a pure function of the account type, never stored.
func (t AccountType) NormalBalance() JournalSide {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// IsIncomeStatement reports whether accounts of this type are swept by the
// fiscal year closing.
func (t AccountType) IsIncomeStatement() bool {
	return t == Revenue || t == Expense
}

// Account represents one node of the chart of accounts. The posting engine
// only ever reads accounts; hierarchy management lives elsewhere.
type Account struct {
	AccountID       string      `json:"accountID"`
	AccountCode     string      `json:"accountCode"` // hierarchical, e.g. "1.1.01"
	AccountName     string      `json:"accountName"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"`
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}
