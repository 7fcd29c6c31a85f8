package services

import (
	"context"
	"errors"
	"testing"

	"cartera/internal/core"
)

func TestCategoryDetail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)
	svc := NewCategoryService(repo)

	food := seedCategory(t, repo, u.ID, "Food")
	for _, name := range []string{"Restaurants", "Groceries"} {
		if _, err := svc.Create(ctx, core.Category{UserID: u.ID, Name: name, ParentID: food.ID}); err != nil {
			t.Fatalf("create subcategory %s: %v", name, err)
		}
	}

	seedExpense(t, repo, u.ID, food.ID, 3000, core.NewDate(2025, 5, 1))
	seedExpense(t, repo, u.ID, food.ID, 2000, core.NewDate(2025, 5, 2))
	seedTransaction(t, repo, core.Transaction{
		UserID: u.ID, CategoryID: food.ID, Type: core.Income,
		Amount: core.Money{Cents: 1000}, Date: core.NewDate(2025, 5, 3),
	})

	d, err := svc.Detail(ctx, u.ID, food.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(d.Subcategories) != 2 {
		t.Fatalf("subcategories = %d, want 2", len(d.Subcategories))
	}
	if d.Subcategories[0].Name != "Groceries" || d.Subcategories[1].Name != "Restaurants" {
		t.Errorf("subcategories should be ordered by name, got %q, %q",
			d.Subcategories[0].Name, d.Subcategories[1].Name)
	}
	if d.TotalIncome.Cents != 1000 || d.TotalExpense.Cents != 5000 {
		t.Errorf("totals = income %d expense %d, want 1000/5000",
			d.TotalIncome.Cents, d.TotalExpense.Cents)
	}
	if d.NetBalance.Cents != -4000 {
		t.Errorf("net balance = %d, want -4000", d.NetBalance.Cents)
	}
	if d.TransactionCount != 3 || len(d.Transactions) != 3 {
		t.Errorf("transaction count = %d (%d listed), want 3", d.TransactionCount, len(d.Transactions))
	}
	if d.Transactions[0].Date.ISO() != "2025-05-03" {
		t.Errorf("transactions should list newest first, got %s", d.Transactions[0].Date.ISO())
	}
}

func TestCategoryCreateValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)
	svc := NewCategoryService(repo)

	if _, err := svc.Create(ctx, core.Category{UserID: u.ID, Name: "  "}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	_, err := svc.Create(ctx, core.Category{UserID: u.ID, Name: "Orphan", ParentID: 123})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}
}

func TestCategoryReassign(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)
	svc := NewCategoryService(repo)

	from := seedCategory(t, repo, u.ID, "Old")
	to := seedCategory(t, repo, u.ID, "New")
	seedExpense(t, repo, u.ID, from.ID, 100, core.NewDate(2025, 1, 1))
	seedExpense(t, repo, u.ID, from.ID, 200, core.NewDate(2025, 1, 2))

	moved, err := svc.Reassign(ctx, u.ID, from.ID, to.ID)
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}

	_, err = svc.Reassign(ctx, u.ID, from.ID, to.ID)
	if !errors.Is(err, core.ErrNothingToReassign) {
		t.Fatalf("expected ErrNothingToReassign on empty source, got %v", err)
	}
}
