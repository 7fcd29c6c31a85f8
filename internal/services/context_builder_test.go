package services

import (
	"context"
	"strings"
	"testing"

	"cartera/internal/core"
	"cartera/internal/storage"
)

// seedPortfolio builds a small but complete picture: one asset with two
// valuation snapshots, one liability with a rate, and a categorized expense.
func seedPortfolio(t *testing.T, repo *storage.SQLiteRepository) core.User {
	t.Helper()
	ctx := context.Background()
	u := seedUser(t, repo)

	asset, err := repo.CreateAsset(ctx, core.Asset{
		UserID: u.ID, Name: "Brokerage", Type: "investment",
		AcquisitionValue: core.Money{Cents: 100000},
		AcquisitionDate:  core.NewDate(2024, 1, 1),
	})
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
		if err := repo.UpsertAssetValue(ctx, core.AssetValue{
			AssetID: asset.ID, ValuationDate: v.date, Value: core.Money{Cents: v.cents},
		}); err != nil {
			t.Fatalf("upsert asset value: %v", err)
		}
	}

	liability, err := repo.CreateLiability(ctx, core.Liability{
		UserID: u.ID, Name: "Mortgage", Type: "mortgage",
		Principal: core.Money{Cents: 100000},
		StartDate: core.NewDate(2020, 1, 1),
	})
	if err != nil {
		t.Fatalf("create liability: %v", err)
	}
	if err := repo.UpsertLiabilityValue(ctx, core.LiabilityValue{
		LiabilityID: liability.ID, ValuationDate: core.NewDate(2024, 6, 1),
		Value: core.Money{Cents: 90000},
	}); err != nil {
		t.Fatalf("upsert liability value: %v", err)
	}
	if _, err := repo.CreateInterest(ctx, core.Interest{
		LiabilityID: liability.ID, Rate: 2.1, Type: core.FixedRate,
		StartDate: core.NewDate(2020, 1, 1),
	}); err != nil {
		t.Fatalf("create interest: %v", err)
	}

	food := seedCategory(t, repo, u.ID, "Food")
	seedTransaction(t, repo, core.Transaction{
		UserID: u.ID, CategoryID: food.ID, AssetID: asset.ID,
		Type: core.Expense, Amount: core.Money{Cents: 5000},
		Date: core.NewDate(2024, 6, 1),
	})
	seedTransaction(t, repo, core.Transaction{
		UserID: u.ID, Type: core.Income, Amount: core.Money{Cents: 250000},
		Date: core.NewDate(2024, 6, 5), Description: "Salary",
	})
	return u
}

func TestContextDocumentLayout(t *testing.T) {
	repo := newTestRepo(t)
	u := seedPortfolio(t, repo)
	builder := NewContextBuilder(repo, NewValuationService(repo))

	doc := builder.Build(context.Background(), u.ID, core.Date{})

	sections := []string{
		"FINANCIAL SUMMARY",
		"ASSETS",
		"LIABILITIES",
		"ASSET VALUE HISTORY",
		"LIABILITY VALUE HISTORY",
		"TRANSACTIONS",
	}
	last := -1
	for _, s := range sections {
		i := strings.Index(doc, s+"\n")
		if i < 0 {
			t.Fatalf("missing section %q in document:\n%s", s, doc)
		}
		if i < last {
			t.Fatalf("section %q out of order", s)
		}
		last = i
	}

	for _, want := range []string{
		"Total assets: 1.200,00€",
		"Total liabilities: 900,00€",
		"Net worth: 300,00€",
		"- Brokerage (investment): current value 1.200,00€, acquired for 1.000,00€ on 2024-01-01",
		"- Mortgage (mortgage): outstanding 900,00€, principal 1.000,00€, annual rate 2,10%, start 2020-01-01",
		"2024-06-01 | -50,00€ | Food [Brokerage]",
		"2024-06-05 | 2500,00€ | Salary",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q\n%s", want, doc)
		}
	}

	if strings.Contains(doc, "| 2.500,00€") {
		t.Errorf("transaction amounts must not use thousands grouping\n%s", doc)
	}
}

func TestContextDocumentHistoryNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	u := seedPortfolio(t, repo)
	builder := NewContextBuilder(repo, NewValuationService(repo))

	doc := builder.Build(context.Background(), u.ID, core.Date{})

	june := strings.Index(doc, "  2024-06-01: 1.200,00€")
	jan := strings.Index(doc, "  2024-01-01: 1.000,00€")
	if june < 0 || jan < 0 {
		t.Fatalf("history lines missing:\n%s", doc)
	}
	if june > jan {
		t.Error("asset history should list the newest snapshot first")
	}
}

func TestContextDocumentAsOf(t *testing.T) {
	repo := newTestRepo(t)
	u := seedPortfolio(t, repo)
	builder := NewContextBuilder(repo, NewValuationService(repo))

	doc := builder.Build(context.Background(), u.ID, core.NewDate(2024, 1, 1))

	// Snapshot resolution is exact-date: the asset had a January snapshot,
	// the liability did not and is omitted from its section.
	if !strings.Contains(doc, "- Brokerage (investment): current value 1.000,00€") {
		t.Errorf("asset section should use the 2024-01-01 snapshot:\n%s", doc)
	}
	if strings.Contains(doc, "- Mortgage") {
		t.Errorf("liability without a snapshot for the date should be omitted:\n%s", doc)
	}

	// The headline summary deliberately stays on latest values.
	if !strings.Contains(doc, "Total assets: 1.200,00€") {
		t.Errorf("summary should keep latest values regardless of as-of:\n%s", doc)
	}
}
