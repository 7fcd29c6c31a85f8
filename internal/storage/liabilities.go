package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cartera/internal/core"
)

func (r *SQLiteRepository) CreateLiability(ctx context.Context, l core.Liability) (core.Liability, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO liabilities (user_id, type, name, principal_cents, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.UserID, l.Type, l.Name, l.Principal.Cents, dateArg(l.StartDate), dateArg(l.EndDate))
	if err != nil {
		return core.Liability{}, fmt.Errorf("create liability: %w", err)
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return core.Liability{}, fmt.Errorf("create liability id: %w", err)
	}
	return l, nil
}

func scanLiability(row interface{ Scan(...any) error }) (core.Liability, error) {
	var (
		l          core.Liability
		start, end sql.NullString
	)
	err := row.Scan(&l.ID, &l.UserID, &l.Type, &l.Name, &l.Principal.Cents, &start, &end)
	if err != nil {
		return core.Liability{}, err
	}
	l.StartDate = nullDate(start)
	l.EndDate = nullDate(end)
	return l, nil
}

func (r *SQLiteRepository) GetLiability(ctx context.Context, userID, id int64) (core.Liability, error) {
	l, err := scanLiability(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, name, principal_cents, start_date, end_date
		 FROM liabilities WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Liability{}, fmt.Errorf("liability %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Liability{}, fmt.Errorf("get liability: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) ListLiabilities(ctx context.Context, userID int64) ([]core.Liability, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, name, principal_cents, start_date, end_date
		 FROM liabilities WHERE user_id = ? ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list liabilities: %w", err)
	}
	defer rows.Close()

	var out []core.Liability
	for rows.Next() {
		l, err := scanLiability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan liability: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpsertLiabilityValue(ctx context.Context, v core.LiabilityValue) error {
	if v.ValuationDate.IsZero() {
		return core.ErrInvalidDate
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO liability_values (liability_id, valuation_date, value_cents)
		 VALUES (?, ?, ?)
		 ON CONFLICT (liability_id, valuation_date) DO UPDATE SET value_cents = excluded.value_cents`,
		v.LiabilityID, v.ValuationDate.ISO(), v.Value.Cents)
	if err != nil {
		return fmt.Errorf("upsert liability value: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetLiabilityValueAt(ctx context.Context, liabilityID int64, date core.Date) (core.LiabilityValue, error) {
	return r.getLiabilityValue(ctx,
		`SELECT id, liability_id, valuation_date, value_cents FROM liability_values
		 WHERE liability_id = ? AND valuation_date = ?`, liabilityID, date.ISO())
}

func (r *SQLiteRepository) GetLatestLiabilityValue(ctx context.Context, liabilityID int64) (core.LiabilityValue, error) {
	return r.getLiabilityValue(ctx,
		`SELECT id, liability_id, valuation_date, value_cents FROM liability_values
		 WHERE liability_id = ? ORDER BY valuation_date DESC LIMIT 1`, liabilityID)
}

func (r *SQLiteRepository) getLiabilityValue(ctx context.Context, query string, args ...any) (core.LiabilityValue, error) {
	var (
		v    core.LiabilityValue
		date string
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&v.ID, &v.LiabilityID, &date, &v.Value.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.LiabilityValue{}, core.ErrNotFound
	}
	if err != nil {
		return core.LiabilityValue{}, fmt.Errorf("get liability value: %w", err)
	}
	if v.ValuationDate, err = core.ParseDate(date); err != nil {
		return core.LiabilityValue{}, fmt.Errorf("parse liability valuation date %q: %w", date, err)
	}
	return v, nil
}

func (r *SQLiteRepository) ListLiabilityValues(ctx context.Context, liabilityID int64) ([]core.LiabilityValue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, liability_id, valuation_date, value_cents FROM liability_values
		 WHERE liability_id = ? ORDER BY valuation_date DESC`, liabilityID)
	if err != nil {
		return nil, fmt.Errorf("list liability values: %w", err)
	}
	defer rows.Close()

	var out []core.LiabilityValue
	for rows.Next() {
		var (
			v    core.LiabilityValue
			date string
		)
		if err := rows.Scan(&v.ID, &v.LiabilityID, &date, &v.Value.Cents); err != nil {
			return nil, fmt.Errorf("scan liability value: %w", err)
		}
		if v.ValuationDate, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse liability valuation date %q: %w", date, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteLiabilityValue(ctx context.Context, liabilityID int64, date core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM liability_values WHERE liability_id = ? AND valuation_date = ?`,
		liabilityID, date.ISO())
	if err != nil {
		return fmt.Errorf("delete liability value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateInterest(ctx context.Context, i core.Interest) (core.Interest, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO interests (liability_id, rate, type, start_date) VALUES (?, ?, ?, ?)`,
		i.LiabilityID, i.Rate, string(i.Type), dateArg(i.StartDate))
	if err != nil {
		return core.Interest{}, fmt.Errorf("create interest: %w", err)
	}
	i.ID, err = res.LastInsertId()
	if err != nil {
		return core.Interest{}, fmt.Errorf("create interest id: %w", err)
	}
	return i, nil
}

// GetInterestByStartDate resolves the rate sharing the liability's start
// date; at most one active rate exists per start date.
func (r *SQLiteRepository) GetInterestByStartDate(ctx context.Context, liabilityID int64, start core.Date) (core.Interest, error) {
	var (
		i        core.Interest
		itype    string
		startCol sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, liability_id, rate, type, start_date FROM interests
		 WHERE liability_id = ? AND start_date = ? LIMIT 1`,
		liabilityID, start.ISO()).
		Scan(&i.ID, &i.LiabilityID, &i.Rate, &itype, &startCol)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Interest{}, core.ErrNotFound
	}
	if err != nil {
		return core.Interest{}, fmt.Errorf("get interest: %w", err)
	}
	i.Type = core.InterestType(itype)
	i.StartDate = nullDate(startCol)
	return i, nil
}
