package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"cartera/internal/core"
)

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, parent_id) VALUES (?, ?, ?)`,
		c.UserID, c.Name, idArg(c.ParentID))
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}
	return c, nil
}

// GetCategory resolves a category owned by the given user. Categories owned
// by other users are reported as not found, never as forbidden.
func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	var (
		c      core.Category
		parent sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, parent_id FROM categories WHERE id = ? AND user_id = ?`,
		id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &parent)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	c.ParentID = nullID(parent)
	return c, nil
}

// ListSubcategories returns the direct children of a category, ordered by name.
func (r *SQLiteRepository) ListSubcategories(ctx context.Context, userID, parentID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, parent_id FROM categories
		 WHERE user_id = ? AND parent_id = ? ORDER BY name`,
		userID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c      core.Category
			parent sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &parent); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		c.ParentID = nullID(parent)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetOrCreateCategoryByName finds a category by name for the user, creating
// it when absent. Lookup and insert share one transaction so two concurrent
// callers cannot both insert.
func (r *SQLiteRepository) GetOrCreateCategoryByName(ctx context.Context, userID int64, name string) (core.Category, error) {
	var c core.Category
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var parent sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT id, user_id, name, parent_id FROM categories WHERE user_id = ? AND name = ?`,
			userID, name).
			Scan(&c.ID, &c.UserID, &c.Name, &parent)
		if err == nil {
			c.ParentID = nullID(parent)
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lookup category by name: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO categories (user_id, name) VALUES (?, ?)`, userID, name)
		if err != nil {
			return fmt.Errorf("create category %q: %w", name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("create category id: %w", err)
		}
		c = core.Category{ID: id, UserID: userID, Name: name}
		slog.InfoContext(ctx, "Category auto-created", "user_id", userID, "name", name, "id", id)
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}
	return c, nil
}

// CategoryNames returns a name lookup for every category the user owns.
func (r *SQLiteRepository) CategoryNames(ctx context.Context, userID int64) (map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM categories WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("load category names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan category name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// DeleteCategory removes a category that has no transactions. When
// transactions still reference it the delete fails with the blocking count
// so the caller can reassign first.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var owner int64
		err := tx.QueryRowContext(ctx,
			`SELECT user_id FROM categories WHERE id = ? AND user_id = ?`, id, userID).
			Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}

		var count int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, id).
			Scan(&count); err != nil {
			return fmt.Errorf("count category transactions: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("category has %d associated transactions, reassign them first: %w",
				count, core.ErrConflict)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("delete category budgets: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

// ReassignTransactions moves every transaction from one category to another.
// Both categories must exist and belong to the user; moving zero rows is an
// error, not a silent no-op.
func (r *SQLiteRepository) ReassignTransactions(ctx context.Context, userID, fromID, toID int64) (int64, error) {
	var moved int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range []int64{fromID, toID} {
			var owner int64
			err := tx.QueryRowContext(ctx,
				`SELECT user_id FROM categories WHERE id = ? AND user_id = ?`, id, userID).
				Scan(&owner)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("check category %d: %w", id, err)
			}
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE transactions SET category_id = ? WHERE user_id = ? AND category_id = ?`,
			toID, userID, fromID)
		if err != nil {
			return fmt.Errorf("reassign transactions: %w", err)
		}
		moved, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reassign rows affected: %w", err)
		}
		if moved == 0 {
			return fmt.Errorf("category %d: %w", fromID, core.ErrNothingToReassign)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Transactions reassigned",
		"user_id", userID, "from_category", fromID, "to_category", toID, "moved", moved)
	return moved, nil
}
