package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cartera/internal/core"
	"cartera/internal/storage"
)

// TemplateService manages transaction templates: reusable presets that can
// be applied by hand or fired automatically on a monthly/yearly schedule.
type TemplateService struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewTemplateService(storage *storage.SQLiteRepository) *TemplateService {
	return &TemplateService{storage: storage, now: time.Now}
}

// Create validates and stores a template. A template may reference its
// category by ID or, for imports and quick entry, by name; a named category
// is resolved (or created) when the template is applied, not here.
func (s *TemplateService) Create(ctx context.Context, tmpl core.TransactionTemplate) (core.TransactionTemplate, error) {
	if err := tmpl.Validate(); err != nil {
		return core.TransactionTemplate{}, err
	}
	if tmpl.Recurrence == "" {
		tmpl.Recurrence = core.RepeatNone
	}
	if tmpl.Recurrence != core.RepeatNone && tmpl.StartDate.IsZero() {
		now := s.now().UTC()
		tmpl.StartDate = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}
	return s.storage.CreateTemplate(ctx, tmpl)
}

func (s *TemplateService) List(ctx context.Context, userID int64) ([]core.TransactionTemplate, error) {
	return s.storage.ListTemplates(ctx, userID)
}

func (s *TemplateService) Delete(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteTemplate(ctx, userID, id)
}

// Apply instantiates a transaction from a template on the given date. A
// template carrying only a category name gets the category resolved or
// created first.
func (s *TemplateService) Apply(ctx context.Context, userID, templateID int64, date core.Date) (int64, error) {
	tmpl, err := s.storage.GetTemplate(ctx, userID, templateID)
	if err != nil {
		return 0, fmt.Errorf("loading template %d: %w", templateID, err)
	}

	categoryID := tmpl.CategoryID
	if categoryID == 0 && tmpl.CategoryName != "" {
		category, err := s.storage.GetOrCreateCategoryByName(ctx, userID, tmpl.CategoryName)
		if err != nil {
			return 0, fmt.Errorf("resolving template category %q: %w", tmpl.CategoryName, err)
		}
		categoryID = category.ID
	}

	if date.IsZero() {
		now := s.now().UTC()
		date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}

	tx, err := s.storage.CreateTransaction(ctx, core.Transaction{
		UserID:         userID,
		Type:           tmpl.Type,
		Amount:         tmpl.Amount,
		Date:           date,
		CategoryID:     categoryID,
		AssetID:        tmpl.AssetID,
		RelatedAssetID: tmpl.RelatedAssetID,
		LiabilityID:    tmpl.LiabilityID,
		Description:    tmpl.Description,
	})
	if err != nil {
		return 0, fmt.Errorf("applying template %d: %w", templateID, err)
	}

	slog.InfoContext(ctx, "Applied transaction template",
		"template_id", templateID,
		"transaction_id", tx.ID,
		"amount_cents", tmpl.Amount.Cents)
	return tx.ID, nil
}

// ProcessDueTemplates walks the recurring templates and applies every one
// that is due. One broken template never blocks the rest; failures are
// logged and skipped.
func (s *TemplateService) ProcessDueTemplates(ctx context.Context, now time.Time) (int, error) {
	templates, err := s.storage.ListRecurringTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing recurring templates: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring templates",
		"total", len(templates),
		"processing_date", now.Format("2006-01-02"))

	applied := 0
	for _, tmpl := range templates {
		checker, err := GetDuenessChecker(tmpl.Recurrence)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping template with unsupported recurrence",
				"template_id", tmpl.ID, "recurrence", tmpl.Recurrence)
			continue
		}

		lastApplied, err := s.storage.TemplateLastApplied(ctx, tmpl.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to read last application time",
				"template_id", tmpl.ID, "error", err)
			continue
		}

		if !checker.IsDue(lastApplied, now, tmpl.StartDate) {
			continue
		}

		date := core.NewDate(now.Year(), int(now.Month()), now.Day())
		if _, err := s.Apply(ctx, tmpl.UserID, tmpl.ID, date); err != nil {
			slog.ErrorContext(ctx, "Failed to apply recurring template",
				"template_id", tmpl.ID, "error", err)
			continue
		}

		if err := s.storage.MarkTemplateApplied(ctx, tmpl.ID, date); err != nil {
			slog.ErrorContext(ctx, "Failed to mark template applied",
				"template_id", tmpl.ID, "error", err)
		}
		applied++
	}

	slog.InfoContext(ctx, "Recurring template processing complete",
		"applied", applied, "total_checked", len(templates))
	return applied, nil
}
