package memory

import (
	"context"
	"testing"

	"cartera/internal/sheets"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New()
	s.Add("sheet-1", "2024", sheets.TransactionRow{Date: "2024-06-01", Amount: "12,50", Category: "Food"})
	s.Add("sheet-1", "2024", sheets.TransactionRow{Date: "2024-06-02", Amount: "3,20"})

	rows, err := s.ReadTransactionRows(context.Background(), "sheet-1", "2024")
	if err != nil {
		t.Fatalf("ReadTransactionRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Category != "Food" {
		t.Errorf("first row = %+v", rows[0])
	}
}

func TestStoreUnknownTab(t *testing.T) {
	s := New()
	if _, err := s.ReadTransactionRows(context.Background(), "sheet-1", "nope"); err == nil {
		t.Fatal("expected error for unknown tab")
	}
}
