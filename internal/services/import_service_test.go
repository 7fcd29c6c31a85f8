package services

import (
	"context"
	"errors"
	"testing"

	"cartera/internal/core"
	"cartera/internal/sheets"
	"cartera/internal/sheets/memory"
)

func TestImportSpreadsheet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo)

	store := memory.New()
	store.Add("sheet-1", "2025",
		sheets.TransactionRow{Date: "2025-01-10", Amount: "12.50", Category: "Food", Description: "groceries"},
		sheets.TransactionRow{Date: "2025-01-11", Amount: "1500", Type: "income", Description: "salary"},
		sheets.TransactionRow{Date: "not-a-date", Amount: "10"},
		sheets.TransactionRow{Date: "2025-01-12", Amount: "abc"},
		sheets.TransactionRow{Date: "2025-01-13", Amount: "5", Type: "transfer"},
	)

	svc := NewImportService(repo, store)
	result, err := svc.ImportSpreadsheet(ctx, u.ID, "sheet-1", "2025")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 3 {
		t.Fatalf("result = %+v, want 2 imported, 3 skipped", result)
	}

	txs, err := repo.ListTransactions(ctx, transactionFilterFor(u.ID))
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 stored transactions, got %d", len(txs))
	}

	// Newest first: the salary row, then the groceries row.
	if txs[0].Type != core.Income || txs[0].Amount.Cents != 150000 {
		t.Errorf("salary row wrong: %+v", txs[0])
	}
	if txs[1].Type != core.Expense || txs[1].Amount.Cents != 1250 || txs[1].Description != "groceries" {
		t.Errorf("groceries row wrong: %+v", txs[1])
	}
	if txs[1].CategoryID == 0 {
		t.Error("groceries row should have created its Food category")
	}
}

func TestImportSpreadsheetUnknownUser(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewImportService(repo, memory.New())

	_, err := svc.ImportSpreadsheet(context.Background(), 99, "sheet-1", "2025")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestImportSpreadsheetReaderFailure(t *testing.T) {
	repo := newTestRepo(t)
	u := seedUser(t, repo)
	svc := NewImportService(repo, memory.New())

	_, err := svc.ImportSpreadsheet(context.Background(), u.ID, "sheet-1", "missing-tab")
	if err == nil {
		t.Fatal("expected an error for an unknown tab")
	}
}
