package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cartera/internal/core"
)

func (r *SQLiteRepository) CreateTemplate(ctx context.Context, t core.TransactionTemplate) (core.TransactionTemplate, error) {
	now := time.Now().UTC()
	if t.Recurrence == "" {
		t.Recurrence = core.RepeatNone
	}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if t.CategoryID != 0 {
			var owner int64
			err := tx.QueryRowContext(ctx,
				`SELECT user_id FROM categories WHERE id = ? AND user_id = ?`,
				t.CategoryID, t.UserID).Scan(&owner)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("category %d: %w", t.CategoryID, core.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("check category: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO transaction_templates
			 (user_id, name, type, amount_cents, category_id, asset_id, related_asset_id,
			  liability_id, category_name, description, recurrence, start_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.UserID, t.Name, string(t.Type), t.Amount.Cents,
			idArg(t.CategoryID), idArg(t.AssetID), idArg(t.RelatedAssetID), idArg(t.LiabilityID),
			t.CategoryName, t.Description, string(t.Recurrence), dateArg(t.StartDate), now, now)
		if err != nil {
			return fmt.Errorf("create template: %w", err)
		}
		t.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("create template id: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.TransactionTemplate{}, err
	}

	t.CreatedAt, t.UpdatedAt = now, now
	slog.InfoContext(ctx, "Template created", "id", t.ID, "user_id", t.UserID, "name", t.Name)
	return t, nil
}

func scanTemplate(row interface{ Scan(...any) error }) (core.TransactionTemplate, error) {
	var (
		t                     core.TransactionTemplate
		ttype, recurrence     string
		cat, asset, rel, liab sql.NullInt64
		start                 sql.NullString
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &ttype, &t.Amount.Cents,
		&cat, &asset, &rel, &liab, &t.CategoryName, &t.Description,
		&recurrence, &start, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return core.TransactionTemplate{}, err
	}
	t.Type = core.TransactionType(ttype)
	t.Recurrence = core.Recurrence(recurrence)
	t.CategoryID = nullID(cat)
	t.AssetID = nullID(asset)
	t.RelatedAssetID = nullID(rel)
	t.LiabilityID = nullID(liab)
	t.StartDate = nullDate(start)
	return t, nil
}

const templateColumns = `id, user_id, name, type, amount_cents, category_id, asset_id,
	related_asset_id, liability_id, category_name, description, recurrence, start_date,
	created_at, updated_at`

func (r *SQLiteRepository) GetTemplate(ctx context.Context, userID, id int64) (core.TransactionTemplate, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM transaction_templates WHERE id = ? AND user_id = ?`,
		id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.TransactionTemplate{}, fmt.Errorf("template %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.TransactionTemplate{}, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTemplates(ctx context.Context, userID int64) ([]core.TransactionTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM transaction_templates WHERE user_id = ? ORDER BY name, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListRecurringTemplates returns templates with a recurrence, for the worker.
func (r *SQLiteRepository) ListRecurringTemplates(ctx context.Context) ([]core.TransactionTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM transaction_templates WHERE recurrence != 'none' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring templates: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TemplateLastApplied returns when a recurring template last produced a
// transaction; the zero time means never.
func (r *SQLiteRepository) TemplateLastApplied(ctx context.Context, id int64) (time.Time, error) {
	var last sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT last_applied FROM transaction_templates WHERE id = ?`, id).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("template %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get template last applied: %w", err)
	}
	d := nullDate(last)
	return d.Time, nil
}

// MarkTemplateApplied records the application date and bumps updated_at.
func (r *SQLiteRepository) MarkTemplateApplied(ctx context.Context, id int64, date core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transaction_templates SET last_applied = ?, updated_at = ? WHERE id = ?`,
		date.ISO(), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark template applied: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transaction_templates WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %d: %w", id, core.ErrNotFound)
	}
	return nil
}
