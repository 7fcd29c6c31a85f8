package google

import "testing"

func TestParseRows(t *testing.T) {
	values := [][]interface{}{
		{"Date", "Amount", "Type", "Category", "Description"},
		{"2024-06-01", "12,50", "expense", "Food", "groceries"},
		{"2024-06-02", "2000", "income", "", "salary"},
		{"", "", "", "", ""},
	}

	rows, err := parseRows(values)
	if err != nil {
		t.Fatalf("parseRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Date != "2024-06-01" || rows[0].Amount != "12,50" || rows[0].Category != "Food" {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[1].Type != "income" || rows[1].Description != "salary" {
		t.Errorf("second row = %+v", rows[1])
	}
}

func TestParseRowsReorderedAndCaseInsensitiveHeader(t *testing.T) {
	values := [][]interface{}{
		{"description", "amount", "date"},
		{"coffee", "3,20", "2024-01-15"},
	}

	rows, err := parseRows(values)
	if err != nil {
		t.Fatalf("parseRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Date != "2024-01-15" || rows[0].Description != "coffee" {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestParseRowsMissingRequiredHeader(t *testing.T) {
	values := [][]interface{}{
		{"Description", "Amount"},
		{"coffee", "3,20"},
	}
	if _, err := parseRows(values); err == nil {
		t.Fatal("expected error for missing Date header")
	}
}

func TestParseRowsEmptySheet(t *testing.T) {
	rows, err := parseRows(nil)
	if err != nil {
		t.Fatalf("parseRows: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}
