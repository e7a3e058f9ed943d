package models

import "time"

// JournalTemplate is the database representation of a journal template header.
type JournalTemplate struct {
	TemplateID   string     `db:"template_id"`
	TemplateName string     `db:"template_name"`
	Category     string     `db:"category"`
	Description  string     `db:"description"`
	IsSystem     bool       `db:"is_system"`
	IsActive     bool       `db:"is_active"`
	Version      int        `db:"version"`
	UsageCount   int        `db:"usage_count"`
	LastUsedAt   *time.Time `db:"last_used_at"`
	AuditFields
}

// JournalTemplateLine is the database representation of one template line.
type JournalTemplateLine struct {
	LineID     string `db:"line_id"`
	TemplateID string `db:"template_id"`
	AccountID  string `db:"account_id"`
	Side       string `db:"side"`
	Formula    string `db:"formula"`
	LineOrder  int    `db:"line_order"`
	Memo       string `db:"memo"`
}
