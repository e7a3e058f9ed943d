package models

// AccountType mirrors domain.AccountType at the persistence boundary.
type AccountType string

// Account is the database representation of a chart-of-accounts node.
type Account struct {
	AccountID       string      `db:"account_id"`
	AccountCode     string      `db:"account_code"`
	AccountName     string      `db:"account_name"`
	AccountType     AccountType `db:"account_type"`
	ParentAccountID *string     `db:"parent_account_id"`
	Description     string      `db:"description"`
	IsActive        bool        `db:"is_active"`
	AuditFields
}
