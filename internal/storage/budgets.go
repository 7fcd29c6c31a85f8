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

// CreateBudget persists a budget after checking the category belongs to the
// same user. Check and insert run in one transaction.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := time.Now().UTC()
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var owner int64
		err := tx.QueryRowContext(ctx,
			`SELECT user_id FROM categories WHERE id = ? AND user_id = ?`,
			b.CategoryID, b.UserID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("category %d: %w", b.CategoryID, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (user_id, category_id, amount_cents, period, start_date, end_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			b.UserID, b.CategoryID, b.Amount.Cents, string(b.Period),
			dateArg(b.StartDate), dateArg(b.EndDate), now, now)
		if err != nil {
			return fmt.Errorf("create budget: %w", err)
		}
		b.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("create budget id: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Budget{}, err
	}

	b.CreatedAt, b.UpdatedAt = now, now
	slog.InfoContext(ctx, "Budget created",
		"id", b.ID, "user_id", b.UserID, "category_id", b.CategoryID,
		"amount_cents", b.Amount.Cents, "period", string(b.Period))
	return b, nil
}

// UpdateBudget rewrites a budget's fields and refreshes updated_at.
func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := time.Now().UTC()
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var owner int64
		err := tx.QueryRowContext(ctx,
			`SELECT user_id FROM categories WHERE id = ? AND user_id = ?`,
			b.CategoryID, b.UserID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("category %d: %w", b.CategoryID, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE budgets SET category_id = ?, amount_cents = ?, period = ?,
			        start_date = ?, end_date = ?, updated_at = ?
			 WHERE id = ? AND user_id = ?`,
			b.CategoryID, b.Amount.Cents, string(b.Period),
			dateArg(b.StartDate), dateArg(b.EndDate), now, b.ID, b.UserID)
		if err != nil {
			return fmt.Errorf("update budget: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("budget %d: %w", b.ID, core.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return core.Budget{}, err
	}
	b.UpdatedAt = now
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("budget %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var (
		b          core.Budget
		period     string
		start, end sql.NullString
	)
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount.Cents, &period,
		&start, &end, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return core.Budget{}, err
	}
	b.Period = core.BudgetPeriod(period)
	b.StartDate = nullDate(start)
	b.EndDate = nullDate(end)
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id int64) (core.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, amount_cents, period, start_date, end_date, created_at, updated_at
		 FROM budgets WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns all of a user's budgets, undated filtering included;
// the status engine decides which ones apply to a window.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, amount_cents, period, start_date, end_date, created_at, updated_at
		 FROM budgets WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
