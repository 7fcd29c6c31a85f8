package services

import (
	"context"
	"fmt"

	"cartera/internal/core"
	"cartera/internal/storage"
)

// DashboardService aggregates income and expense totals over date ranges.
// Unlike the context builder, a failed query fails the whole call.
type DashboardService struct {
	storage *storage.SQLiteRepository
}

func NewDashboardService(storage *storage.SQLiteRepository) *DashboardService {
	return &DashboardService{storage: storage}
}

// Metrics sums transaction amounts by type within [start, end], both ends
// inclusive. Empty ranges yield zero totals, never nulls.
func (s *DashboardService) Metrics(ctx context.Context, userID int64, start, end core.Date) (core.DashboardMetrics, error) {
	income, err := s.storage.SumTransactions(ctx, storage.TransactionFilter{
		UserID: userID, Type: core.Income, From: start, To: end,
	})
	if err != nil {
		return core.DashboardMetrics{}, fmt.Errorf("sum income: %w", err)
	}

	expense, err := s.storage.SumTransactions(ctx, storage.TransactionFilter{
		UserID: userID, Type: core.Expense, From: start, To: end,
	})
	if err != nil {
		return core.DashboardMetrics{}, fmt.Errorf("sum expense: %w", err)
	}

	return core.DashboardMetrics{
		TotalIncome:  income,
		TotalExpense: expense,
		NetProfit:    income.Sub(expense),
	}, nil
}
