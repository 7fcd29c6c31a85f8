package services

import (
	"context"
	"path/filepath"
	"testing"

	"cartera/internal/core"
	"cartera/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "cartera.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *storage.SQLiteRepository) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedCategory(t *testing.T, repo *storage.SQLiteRepository, userID int64, name string) core.Category {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), core.Category{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return c
}

func seedTransaction(t *testing.T, repo *storage.SQLiteRepository, tx core.Transaction) core.Transaction {
	t.Helper()
	created, err := repo.CreateTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return created
}

func transactionFilterFor(userID int64) storage.TransactionFilter {
	return storage.TransactionFilter{UserID: userID}
}

func seedExpense(t *testing.T, repo *storage.SQLiteRepository, userID, categoryID int64, cents int64, date core.Date) core.Transaction {
	t.Helper()
	return seedTransaction(t, repo, core.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       core.Expense,
		Amount:     core.Money{Cents: cents},
		Date:       date,
	})
}
