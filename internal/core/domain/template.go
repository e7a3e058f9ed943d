package domain

import "time"

// TemplateCategory classifies journal templates for filtering in the UI.
type TemplateCategory string

const (
	CategoryIncome     TemplateCategory = "INCOME"
	CategoryExpense    TemplateCategory = "EXPENSE"
	CategoryTransfer   TemplateCategory = "TRANSFER"
	CategoryAdjustment TemplateCategory = "ADJUSTMENT"
	CategorySystem     TemplateCategory = "SYSTEM"
)

// JournalTemplate is a reusable rule set mapping one logical transaction onto
// balanced ledger postings. Lines carry formulas instead of fixed amounts.
// System templates are immutable and undeletable.
type JournalTemplate struct {
	TemplateID   string                `json:"templateID"`
	TemplateName string                `json:"templateName"`
	Category     TemplateCategory      `json:"category"`
	Description  string                `json:"description"`
	IsSystem     bool                  `json:"isSystem"`
	IsActive     bool                  `json:"isActive"`
	Version      int                   `json:"version"` // bumped on every edit
	UsageCount   int                   `json:"usageCount"`
	LastUsedAt   *time.Time            `json:"lastUsedAt,omitempty"`
	Lines        []JournalTemplateLine `json:"lines,omitempty"`
	AuditFields
}

// JournalTemplateLine is one (account, side, formula) rule within a template.
// An empty formula or the literal "amount" means the transaction's principal
// amount verbatim.
type JournalTemplateLine struct {
	LineID     string      `json:"lineID"`
	TemplateID string      `json:"templateID"`
	AccountID  string      `json:"accountID"`
	Side       JournalSide `json:"side"`
	Formula    string      `json:"formula"`
	LineOrder  int         `json:"lineOrder"`
	Memo       string      `json:"memo"`
}
