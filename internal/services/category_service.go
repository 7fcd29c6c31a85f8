package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cartera/internal/core"
	"cartera/internal/storage"
)

// CategoryService owns the category rollup and lifecycle operations.
type CategoryService struct {
	storage *storage.SQLiteRepository
}

func NewCategoryService(storage *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{storage: storage}
}

func (s *CategoryService) Create(ctx context.Context, c core.Category) (core.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return core.Category{}, core.ErrEmptyName
	}
	if c.ParentID != 0 {
		if _, err := s.storage.GetCategory(ctx, c.UserID, c.ParentID); err != nil {
			return core.Category{}, fmt.Errorf("parent category: %w", err)
		}
	}
	return s.storage.CreateCategory(ctx, c)
}

// Detail builds the full category rollup: direct subcategories ordered by
// name, lifetime income/expense totals, and the complete transaction list
// ordered by (date desc, id desc). That ordering is a stable tie-break for
// same-day entries and callers rely on it.
func (s *CategoryService) Detail(ctx context.Context, userID, categoryID int64) (core.CategoryDetail, error) {
	category, err := s.storage.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return core.CategoryDetail{}, err
	}

	subcategories, err := s.storage.ListSubcategories(ctx, userID, categoryID)
	if err != nil {
		return core.CategoryDetail{}, fmt.Errorf("list subcategories: %w", err)
	}

	income, err := s.storage.SumTransactions(ctx, storage.TransactionFilter{
		UserID: userID, CategoryID: categoryID, Type: core.Income,
	})
	if err != nil {
		return core.CategoryDetail{}, fmt.Errorf("sum category income: %w", err)
	}
	expense, err := s.storage.SumTransactions(ctx, storage.TransactionFilter{
		UserID: userID, CategoryID: categoryID, Type: core.Expense,
	})
	if err != nil {
		return core.CategoryDetail{}, fmt.Errorf("sum category expense: %w", err)
	}

	transactions, err := s.storage.ListTransactions(ctx, storage.TransactionFilter{
		UserID: userID, CategoryID: categoryID,
	})
	if err != nil {
		return core.CategoryDetail{}, fmt.Errorf("list category transactions: %w", err)
	}

	return core.CategoryDetail{
		Category:         category,
		Subcategories:    subcategories,
		TotalIncome:      income,
		TotalExpense:     expense,
		NetBalance:       income.Sub(expense),
		TransactionCount: int64(len(transactions)),
		Transactions:     transactions,
	}, nil
}

// Reassign moves every transaction from one category to another. Zero moved
// rows surfaces core.ErrNothingToReassign.
func (s *CategoryService) Reassign(ctx context.Context, userID, fromID, toID int64) (int64, error) {
	return s.storage.ReassignTransactions(ctx, userID, fromID, toID)
}

// Delete removes a category; the store blocks the delete while transactions
// still reference it, reporting the count.
func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteCategory(ctx, userID, id)
}

// ResolveByIDOrName returns the referenced category, creating one by name
// when only a name is supplied.
func (s *CategoryService) ResolveByIDOrName(ctx context.Context, userID, id int64, name string) (core.Category, error) {
	if id != 0 {
		return s.storage.GetCategory(ctx, userID, id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, errors.New("category id or name required")
	}
	return s.storage.GetOrCreateCategoryByName(ctx, userID, name)
}
