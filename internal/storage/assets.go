package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cartera/internal/core"
)

func (r *SQLiteRepository) CreateAsset(ctx context.Context, a core.Asset) (core.Asset, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assets (user_id, type, name, acquisition_cents, acquisition_date)
		 VALUES (?, ?, ?, ?, ?)`,
		a.UserID, a.Type, a.Name, a.AcquisitionValue.Cents, dateArg(a.AcquisitionDate))
	if err != nil {
		return core.Asset{}, fmt.Errorf("create asset: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return core.Asset{}, fmt.Errorf("create asset id: %w", err)
	}
	return a, nil
}

func scanAsset(row interface{ Scan(...any) error }) (core.Asset, error) {
	var (
		a        core.Asset
		acquired sql.NullString
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.Name, &a.AcquisitionValue.Cents, &acquired)
	if err != nil {
		return core.Asset{}, err
	}
	a.AcquisitionDate = nullDate(acquired)
	return a, nil
}

func (r *SQLiteRepository) GetAsset(ctx context.Context, userID, id int64) (core.Asset, error) {
	a, err := scanAsset(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, name, acquisition_cents, acquisition_date
		 FROM assets WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Asset{}, fmt.Errorf("asset %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Asset{}, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

// ListAssets returns the user's assets ordered by name then id, so reports
// built from the list are stable.
func (r *SQLiteRepository) ListAssets(ctx context.Context, userID int64) ([]core.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, name, acquisition_cents, acquisition_date
		 FROM assets WHERE user_id = ? ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var out []core.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertAssetValue records a valuation snapshot, replacing any existing
// snapshot for the same asset and date.
func (r *SQLiteRepository) UpsertAssetValue(ctx context.Context, v core.AssetValue) error {
	if v.ValuationDate.IsZero() {
		return core.ErrInvalidDate
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO asset_values (asset_id, valuation_date, value_cents)
		 VALUES (?, ?, ?)
		 ON CONFLICT (asset_id, valuation_date) DO UPDATE SET value_cents = excluded.value_cents`,
		v.AssetID, v.ValuationDate.ISO(), v.Value.Cents)
	if err != nil {
		return fmt.Errorf("upsert asset value: %w", err)
	}
	return nil
}

// GetAssetValueAt fetches the snapshot for an exact valuation date. There is
// deliberately no nearest-prior fallback.
func (r *SQLiteRepository) GetAssetValueAt(ctx context.Context, assetID int64, date core.Date) (core.AssetValue, error) {
	return r.getAssetValue(ctx,
		`SELECT id, asset_id, valuation_date, value_cents FROM asset_values
		 WHERE asset_id = ? AND valuation_date = ?`, assetID, date.ISO())
}

// GetLatestAssetValue fetches the snapshot with the maximum valuation date.
func (r *SQLiteRepository) GetLatestAssetValue(ctx context.Context, assetID int64) (core.AssetValue, error) {
	return r.getAssetValue(ctx,
		`SELECT id, asset_id, valuation_date, value_cents FROM asset_values
		 WHERE asset_id = ? ORDER BY valuation_date DESC LIMIT 1`, assetID)
}

func (r *SQLiteRepository) getAssetValue(ctx context.Context, query string, args ...any) (core.AssetValue, error) {
	var (
		v    core.AssetValue
		date string
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&v.ID, &v.AssetID, &date, &v.Value.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.AssetValue{}, core.ErrNotFound
	}
	if err != nil {
		return core.AssetValue{}, fmt.Errorf("get asset value: %w", err)
	}
	if v.ValuationDate, err = core.ParseDate(date); err != nil {
		return core.AssetValue{}, fmt.Errorf("parse asset valuation date %q: %w", date, err)
	}
	return v, nil
}

// ListAssetValues returns every snapshot for an asset, newest first.
func (r *SQLiteRepository) ListAssetValues(ctx context.Context, assetID int64) ([]core.AssetValue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, asset_id, valuation_date, value_cents FROM asset_values
		 WHERE asset_id = ? ORDER BY valuation_date DESC`, assetID)
	if err != nil {
		return nil, fmt.Errorf("list asset values: %w", err)
	}
	defer rows.Close()

	var out []core.AssetValue
	for rows.Next() {
		var (
			v    core.AssetValue
			date string
		)
		if err := rows.Scan(&v.ID, &v.AssetID, &date, &v.Value.Cents); err != nil {
			return nil, fmt.Errorf("scan asset value: %w", err)
		}
		if v.ValuationDate, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse asset valuation date %q: %w", date, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// DeleteAssetValue removes a single valuation snapshot.
func (r *SQLiteRepository) DeleteAssetValue(ctx context.Context, assetID int64, date core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM asset_values WHERE asset_id = ? AND valuation_date = ?`,
		assetID, date.ISO())
	if err != nil {
		return fmt.Errorf("delete asset value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
