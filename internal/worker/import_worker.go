// Package worker runs the background side of the ledger: consuming
// spreadsheet import jobs from the queue and firing recurring transaction
// templates on schedule.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cartera/internal/amqp"
	"cartera/internal/services"
)

type ImportWorker struct {
	imports   *services.ImportService
	templates *services.TemplateService
}

func NewImportWorker(imports *services.ImportService, templates *services.TemplateService) *ImportWorker {
	return &ImportWorker{imports: imports, templates: templates}
}

// HandleImportJob processes one queued import job. Errors propagate so the
// consumer can nack and requeue the delivery.
func (w *ImportWorker) HandleImportJob(ctx context.Context, msg *amqp.ImportJobMessage) error {
	slog.InfoContext(ctx, "Processing import job",
		"user_id", msg.UserID,
		"spreadsheet_id", msg.SpreadsheetID,
		"tab", msg.Tab)

	result, err := w.imports.ImportSpreadsheet(ctx, msg.UserID, msg.SpreadsheetID, msg.Tab)
	if err != nil {
		return fmt.Errorf("import spreadsheet: %w", err)
	}

	slog.InfoContext(ctx, "Import job done",
		"imported", result.Imported,
		"skipped", result.Skipped)
	return nil
}

// RunRecurringLoop fires due recurring templates once immediately, then on
// every tick until ctx is cancelled.
func (w *ImportWorker) RunRecurringLoop(ctx context.Context, interval time.Duration) error {
	if w.templates == nil {
		return fmt.Errorf("recurring loop needs a template service")
	}

	w.processRecurring(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping recurring template loop", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			w.processRecurring(ctx)
		}
	}
}

func (w *ImportWorker) processRecurring(ctx context.Context) {
	applied, err := w.templates.ProcessDueTemplates(ctx, time.Now().UTC())
	if err != nil {
		slog.ErrorContext(ctx, "Recurring template run failed", "error", err)
		return
	}
	if applied > 0 {
		slog.InfoContext(ctx, "Recurring template run applied transactions", "count", applied)
	}
}
