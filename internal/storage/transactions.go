package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"cartera/internal/core"
)

// TransactionFilter narrows transaction queries. Zero fields mean
// "no constraint".
type TransactionFilter struct {
	UserID     int64
	CategoryID int64
	Type       core.TransactionType
	From       core.Date
	To         core.Date
}

func (f TransactionFilter) where() (string, []any) {
	clause := `user_id = ?`
	args := []any{f.UserID}
	if f.CategoryID != 0 {
		clause += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Type != "" {
		clause += ` AND type = ?`
		args = append(args, string(f.Type))
	}
	if !f.From.IsZero() {
		clause += ` AND tx_date >= ?`
		args = append(args, f.From.ISO())
	}
	if !f.To.IsZero() {
		clause += ` AND tx_date <= ?`
		args = append(args, f.To.ISO())
	}
	return clause, args
}

// CreateTransaction validates category ownership and inserts in one
// transaction, so the category cannot disappear between check and write.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
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
			`INSERT INTO transactions
			 (user_id, category_id, asset_id, liability_id, related_asset_id, type, amount_cents, tx_date, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.UserID, idArg(t.CategoryID), idArg(t.AssetID), idArg(t.LiabilityID),
			idArg(t.RelatedAssetID), string(t.Type), t.Amount.Cents, t.Date.ISO(), t.Description)
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		t.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("create transaction id: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID, "user_id", t.UserID, "type", string(t.Type),
		"amount_cents", t.Amount.Cents, "date", t.Date.ISO())
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ListTransactions returns matching rows ordered newest first with id as a
// stable tie-break for same-day entries.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	clause, args := f.where()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, asset_id, liability_id, related_asset_id,
		        type, amount_cents, tx_date, description
		 FROM transactions WHERE `+clause+` ORDER BY tx_date DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t                        core.Transaction
			cat, asset, liab, relTed sql.NullInt64
			ttype, date              string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &cat, &asset, &liab, &relTed,
			&ttype, &t.Amount.Cents, &date, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.CategoryID = nullID(cat)
		t.AssetID = nullID(asset)
		t.LiabilityID = nullID(liab)
		t.RelatedAssetID = nullID(relTed)
		t.Type = core.TransactionType(ttype)
		if t.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SumTransactions aggregates amounts matching the filter. An empty result
// set sums to zero, never to NULL.
func (r *SQLiteRepository) SumTransactions(ctx context.Context, f TransactionFilter) (core.Money, error) {
	clause, args := f.where()
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE `+clause, args...).
		Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum transactions: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// CountTransactions counts rows matching the filter.
func (r *SQLiteRepository) CountTransactions(ctx context.Context, f TransactionFilter) (int64, error) {
	clause, args := f.where()
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE `+clause, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
