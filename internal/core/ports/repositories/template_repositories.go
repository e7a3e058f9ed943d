package repositories

import (
	"context"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
)

// TemplateReader defines read operations for journal templates
type TemplateReader interface {
	// FindTemplateByID retrieves a template header without its lines.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.JournalTemplate, error)

	// FindTemplateWithLines retrieves a template with its current line set in line order.
	FindTemplateWithLines(ctx context.Context, templateID string) (*domain.JournalTemplate, error)

	// ListTemplates retrieves templates filtered by category and active flag.
	// Nil filters mean "any".
	ListTemplates(ctx context.Context, category *domain.TemplateCategory, activeOnly bool, limit int, offset int) ([]domain.JournalTemplate, error)
}

// TemplateWriter defines write operations for journal templates
type TemplateWriter interface {
	// SaveTemplate persists a template header and its lines atomically.
	SaveTemplate(ctx context.Context, template domain.JournalTemplate) error

	// UpdateTemplate replaces a template's header fields and its whole line
	// set atomically, bumping the stored version to template.Version.
	UpdateTemplate(ctx context.Context, template domain.JournalTemplate) error

	// DeleteTemplate removes a template and its lines.
	DeleteTemplate(ctx context.Context, templateID string) error

	// RecordTemplateUsage increments usage_count and stamps last_used_at.
	RecordTemplateUsage(ctx context.Context, templateID string, usedAt time.Time) error
}

// TemplateRepositoryFacade combines all template-related repository interfaces
type TemplateRepositoryFacade interface {
	TemplateReader
	TemplateWriter
}
