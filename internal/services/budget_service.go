package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cartera/internal/core"
	"cartera/internal/storage"
)

const unknownCategoryLabel = "Unknown category"

// BudgetService computes budget utilization and owns budget validation.
type BudgetService struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewBudgetService(storage *storage.SQLiteRepository) *BudgetService {
	return &BudgetService{storage: storage, now: time.Now}
}

// Create validates and persists a budget. A missing start date defaults to
// the first day of the current month (monthly) or the current year (yearly),
// so the stored row always carries an explicit start.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if b.StartDate.IsZero() {
		b.StartDate = defaultBudgetStart(b.Period, s.now())
		if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
			return core.Budget{}, core.ErrInvalidDateRange
		}
	}
	return s.storage.CreateBudget(ctx, b)
}

func (s *BudgetService) Update(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	return s.storage.UpdateBudget(ctx, b)
}

func (s *BudgetService) Delete(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteBudget(ctx, userID, id)
}

// Status derives the utilization of every budget active in the analysis
// window. When either bound is missing the window defaults to the current
// calendar month.
//
// Each budget is evaluated against its own effective window: the calendar
// month (monthly) or calendar year (yearly) containing the analysis window's
// start date. The analysis end date does not influence that choice.
func (s *BudgetService) Status(ctx context.Context, userID int64, periodStart, periodEnd core.Date) ([]core.BudgetStatus, error) {
	if periodStart.IsZero() || periodEnd.IsZero() {
		periodStart, periodEnd = monthWindow(core.Date{Time: s.now()})
	}

	budgets, err := s.storage.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}

	statuses := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		var effStart, effEnd core.Date
		switch b.Period {
		case core.Yearly:
			effStart, effEnd = yearWindow(periodStart)
		default:
			effStart, effEnd = monthWindow(periodStart)
		}

		// Budget not active in the effective window.
		if !b.StartDate.IsZero() && b.StartDate.After(effEnd) {
			continue
		}
		if !b.EndDate.IsZero() && b.EndDate.Before(effStart) {
			continue
		}

		spent, err := s.storage.SumTransactions(ctx, storage.TransactionFilter{
			UserID:     userID,
			CategoryID: b.CategoryID,
			Type:       core.Expense,
			From:       effStart,
			To:         effEnd,
		})
		if err != nil {
			return nil, fmt.Errorf("sum budget %d spend: %w", b.ID, err)
		}

		statuses = append(statuses, core.BudgetStatus{
			BudgetID:        b.ID,
			CategoryID:      b.CategoryID,
			CategoryName:    s.categoryLabel(ctx, userID, b.CategoryID),
			BudgetAmount:    b.Amount,
			SpentAmount:     spent,
			RemainingAmount: remaining(b.Amount, spent),
			PercentageUsed:  percentageUsed(b.Amount, spent),
			IsExceeded:      spent.Cents > b.Amount.Cents,
			PeriodStart:     effStart,
			PeriodEnd:       effEnd,
		})
	}

	return statuses, nil
}

// categoryLabel resolves a category name, degrading to a placeholder when
// the category cannot be resolved. Status reports never fail on a label.
func (s *BudgetService) categoryLabel(ctx context.Context, userID, categoryID int64) string {
	c, err := s.storage.GetCategory(ctx, userID, categoryID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Category lookup failed for budget status",
				"category_id", categoryID, "error", err)
		}
		return unknownCategoryLabel
	}
	return c.Name
}

func remaining(amount, spent core.Money) core.Money {
	r := amount.Cents - spent.Cents
	if r < 0 {
		r = 0
	}
	return core.Money{Cents: r}
}

func percentageUsed(amount, spent core.Money) float64 {
	if amount.Cents == 0 {
		return 0
	}
	return float64(spent.Cents) / float64(amount.Cents) * 100
}

func defaultBudgetStart(period core.BudgetPeriod, now time.Time) core.Date {
	if period == core.Yearly {
		return core.NewDate(now.Year(), 1, 1)
	}
	return core.NewDate(now.Year(), int(now.Month()), 1)
}

// monthWindow returns the first and last day of the calendar month
// containing d.
func monthWindow(d core.Date) (core.Date, core.Date) {
	y, m := d.Year(), int(d.Month())
	return core.NewDate(y, m, 1), core.NewDate(y, m+1, 0)
}

// yearWindow returns January 1 and December 31 of the year containing d.
func yearWindow(d core.Date) (core.Date, core.Date) {
	return core.NewDate(d.Year(), 1, 1), core.NewDate(d.Year(), 12, 31)
}
