package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"cartera/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "cartera.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedCategory(t *testing.T, repo *SQLiteRepository, userID int64, name string) core.Category {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), core.Category{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return c
}

func seedExpense(t *testing.T, repo *SQLiteRepository, userID, categoryID int64, cents int64, date core.Date) core.Transaction {
	t.Helper()
	tx, err := repo.CreateTransaction(context.Background(), core.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       core.Expense,
		Amount:     core.Money{Cents: cents},
		Date:       date,
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}
	return tx
}

func TestAssetValueResolution(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)

	a, err := repo.CreateAsset(ctx, core.Asset{UserID: u.ID, Name: "Brokerage", Type: "investment"})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	for _, v := range []struct {
		date  core.Date
		cents int64
	}{
		{core.NewDate(2024, 1, 1), 100000},
		{core.NewDate(2024, 6, 1), 120000},
	} {
		if err := repo.UpsertAssetValue(ctx, core.AssetValue{AssetID: a.ID, ValuationDate: v.date, Value: core.Money{Cents: v.cents}}); err != nil {
			t.Fatalf("upsert value: %v", err)
		}
	}

	t.Run("exact match only", func(t *testing.T) {
		_, err := repo.GetAssetValueAt(ctx, a.ID, core.NewDate(2024, 3, 1))
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for date without snapshot, got %v", err)
		}
	})

	t.Run("latest known", func(t *testing.T) {
		v, err := repo.GetLatestAssetValue(ctx, a.ID)
		if err != nil {
			t.Fatalf("latest value: %v", err)
		}
		if v.Value.Cents != 120000 || v.ValuationDate.ISO() != "2024-06-01" {
			t.Errorf("latest = %d on %s, want 120000 on 2024-06-01", v.Value.Cents, v.ValuationDate.ISO())
		}
	})

	t.Run("upsert replaces same date", func(t *testing.T) {
		if err := repo.UpsertAssetValue(ctx, core.AssetValue{AssetID: a.ID, ValuationDate: core.NewDate(2024, 6, 1), Value: core.Money{Cents: 130000}}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		values, err := repo.ListAssetValues(ctx, a.ID)
		if err != nil {
			t.Fatalf("list values: %v", err)
		}
		if len(values) != 2 {
			t.Fatalf("expected 2 snapshots after upsert, got %d", len(values))
		}
		if values[0].Value.Cents != 130000 {
			t.Errorf("newest snapshot = %d, want 130000", values[0].Value.Cents)
		}
	})
}

func TestReassignTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)
	food := seedCategory(t, repo, u.ID, "Food")
	dining := seedCategory(t, repo, u.ID, "Dining")
	travel := seedCategory(t, repo, u.ID, "Travel")

	for i := 0; i < 3; i++ {
		seedExpense(t, repo, u.ID, food.ID, 1000, core.NewDate(2024, 6, i+1))
	}
	seedExpense(t, repo, u.ID, travel.ID, 5000, core.NewDate(2024, 6, 10))

	moved, err := repo.ReassignTransactions(ctx, u.ID, food.ID, dining.ID)
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if moved != 3 {
		t.Errorf("moved %d rows, want 3", moved)
	}

	// Other categories untouched.
	n, err := repo.CountTransactions(ctx, TransactionFilter{UserID: u.ID, CategoryID: travel.ID})
	if err != nil || n != 1 {
		t.Errorf("travel count = %d (err=%v), want 1", n, err)
	}

	// Nothing left in the source category.
	if _, err := repo.ReassignTransactions(ctx, u.ID, food.ID, dining.ID); !errors.Is(err, core.ErrNothingToReassign) {
		t.Errorf("expected ErrNothingToReassign, got %v", err)
	}

	// Unknown target category.
	if _, err := repo.ReassignTransactions(ctx, u.ID, dining.ID, 999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown category, got %v", err)
	}
}

func TestDeleteCategoryGuard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)
	food := seedCategory(t, repo, u.ID, "Food")
	other := seedCategory(t, repo, u.ID, "Other")

	for i := 0; i < 3; i++ {
		seedExpense(t, repo, u.ID, food.ID, 1000, core.NewDate(2024, 6, i+1))
	}

	err := repo.DeleteCategory(ctx, u.ID, food.ID)
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if !strings.Contains(err.Error(), "3") {
		t.Errorf("error should mention the blocking count, got %q", err.Error())
	}

	if _, err := repo.ReassignTransactions(ctx, u.ID, food.ID, other.ID); err != nil {
		t.Fatalf("reassign before delete: %v", err)
	}
	if err := repo.DeleteCategory(ctx, u.ID, food.ID); err != nil {
		t.Fatalf("delete after reassign should succeed: %v", err)
	}
	if _, err := repo.GetCategory(ctx, u.ID, food.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("category should be gone, got %v", err)
	}
}

func TestSumTransactionsEmptyIsZero(t *testing.T) {
	repo := newTestRepo(t)
	u := seedUser(t, repo)

	sum, err := repo.SumTransactions(context.Background(), TransactionFilter{
		UserID: u.ID,
		Type:   core.Expense,
		From:   core.NewDate(2024, 1, 1),
		To:     core.NewDate(2024, 12, 31),
	})
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum.Cents != 0 {
		t.Errorf("empty sum = %d, want 0", sum.Cents)
	}
}

func TestCreateTransactionChecksOwnership(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)
	stranger, err := repo.CreateUser(ctx, core.User{Name: "Bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("create second user: %v", err)
	}
	theirs := seedCategory(t, repo, stranger.ID, "Private")

	_, err = repo.CreateTransaction(ctx, core.Transaction{
		UserID:     u.ID,
		CategoryID: theirs.ID,
		Type:       core.Expense,
		Amount:     core.Money{Cents: 100},
		Date:       core.NewDate(2024, 6, 1),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-user category must read as not found, got %v", err)
	}
}

func TestBudgetTimestampsAndRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)
	cat := seedCategory(t, repo, u.ID, "Groceries")

	b, err := repo.CreateBudget(ctx, core.Budget{
		UserID:     u.ID,
		CategoryID: cat.ID,
		Amount:     core.Money{Cents: 40000},
		Period:     core.Monthly,
		StartDate:  core.NewDate(2025, 6, 1),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if b.CreatedAt.IsZero() || b.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on create")
	}

	got, err := repo.GetBudget(ctx, u.ID, b.ID)
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	if got.StartDate.ISO() != "2025-06-01" || got.Period != core.Monthly || got.Amount.Cents != 40000 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	got.Amount = core.Money{Cents: 45000}
	updated, err := repo.UpdateBudget(ctx, got)
	if err != nil {
		t.Fatalf("update budget: %v", err)
	}
	if !updated.UpdatedAt.After(b.UpdatedAt) && !updated.UpdatedAt.Equal(b.UpdatedAt) {
		t.Error("updated_at should move forward on update")
	}
}

func TestGetOrCreateCategoryByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)

	first, err := repo.GetOrCreateCategoryByName(ctx, u.ID, "Subscriptions")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := repo.GetOrCreateCategoryByName(ctx, u.ID, "Subscriptions")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected the same category, got %d and %d", first.ID, second.ID)
	}
}
