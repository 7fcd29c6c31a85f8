package core

import (
	"errors"
	"testing"
)

func TestBudgetValidate(t *testing.T) {
	valid := Budget{
		CategoryID: 1,
		Amount:     Money{Cents: 50000},
		Period:     Monthly,
	}

	tests := []struct {
		name    string
		mutate  func(b *Budget)
		wantErr error
	}{
		{"valid monthly", func(b *Budget) {}, nil},
		{"valid yearly", func(b *Budget) { b.Period = Yearly }, nil},
		{"zero amount", func(b *Budget) { b.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(b *Budget) { b.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"bad period", func(b *Budget) { b.Period = "weekly" }, ErrInvalidPeriod},
		{"end before start", func(b *Budget) {
			b.StartDate = NewDate(2025, 6, 1)
			b.EndDate = NewDate(2025, 5, 1)
		}, ErrInvalidDateRange},
		{"end equals start is fine", func(b *Budget) {
			b.StartDate = NewDate(2025, 6, 1)
			b.EndDate = NewDate(2025, 6, 1)
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			err := b.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	tx := Transaction{
		Type:   Expense,
		Amount: Money{Cents: 5000},
		Date:   NewDate(2024, 6, 1),
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	bad := tx
	bad.Type = "transfer"
	if !errors.Is(bad.Validate(), ErrInvalidType) {
		t.Error("expected ErrInvalidType for unknown type")
	}

	// Zero amounts are allowed on transactions (imports can carry them),
	// negative ones are not.
	zero := tx
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Errorf("zero amount should be accepted: %v", err)
	}
	neg := tx
	neg.Amount = Money{Cents: -100}
	if !errors.Is(neg.Validate(), ErrInvalidAmount) {
		t.Error("expected ErrInvalidAmount for negative amount")
	}

	undated := tx
	undated.Date = Date{}
	if !errors.Is(undated.Validate(), ErrInvalidDate) {
		t.Error("expected ErrInvalidDate for zero date")
	}
}

func TestTemplateValidate(t *testing.T) {
	tpl := TransactionTemplate{
		Name:         "Rent",
		Type:         Expense,
		Amount:       Money{Cents: 90000},
		CategoryName: "Housing",
	}
	if err := tpl.Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}

	unnamed := tpl
	unnamed.Name = "  "
	if !errors.Is(unnamed.Validate(), ErrEmptyName) {
		t.Error("expected ErrEmptyName")
	}

	uncategorized := tpl
	uncategorized.CategoryName = ""
	if uncategorized.Validate() == nil {
		t.Error("expected error when neither category id nor name is set")
	}

	recurring := tpl
	recurring.Recurrence = RepeatMonthly
	if err := recurring.Validate(); err != nil {
		t.Errorf("monthly recurrence should be valid: %v", err)
	}
	recurring.Recurrence = "weekly"
	if !errors.Is(recurring.Validate(), ErrInvalidRecurrence) {
		t.Error("expected ErrInvalidRecurrence")
	}
}

func TestDateParseAndFormat(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.ISO() != "2024-03-15" {
		t.Errorf("round trip got %q", d.ISO())
	}
	if _, err := ParseDate("15/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Error("expected ErrInvalidDate for non-ISO input")
	}
	if (Date{}).ISO() != "" {
		t.Error("zero date should format as empty string")
	}
}
