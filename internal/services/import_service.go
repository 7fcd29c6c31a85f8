package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cartera/internal/core"
	"cartera/internal/sheets"
	"cartera/internal/storage"
)

// ImportService pulls transaction rows from a spreadsheet tab into a user's
// ledger. Rows are best-effort: a malformed row is logged and skipped, the
// rest of the tab still imports.
type ImportService struct {
	storage *storage.SQLiteRepository
	reader  sheets.RowReader
}

func NewImportService(storage *storage.SQLiteRepository, reader sheets.RowReader) *ImportService {
	return &ImportService{storage: storage, reader: reader}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func (s *ImportService) ImportSpreadsheet(ctx context.Context, userID int64, spreadsheetID, tab string) (ImportResult, error) {
	var result ImportResult

	if _, err := s.storage.GetUser(ctx, userID); err != nil {
		return result, fmt.Errorf("loading import user %d: %w", userID, err)
	}

	rows, err := s.reader.ReadTransactionRows(ctx, spreadsheetID, tab)
	if err != nil {
		return result, fmt.Errorf("reading spreadsheet %s tab %s: %w", spreadsheetID, tab, err)
	}

	for i, row := range rows {
		tx, err := s.rowToTransaction(ctx, userID, row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparseable import row",
				"row", i+2, // 1-based, after the header
				"error", err)
			result.Skipped++
			continue
		}
		if _, err := s.storage.CreateTransaction(ctx, tx); err != nil {
			slog.WarnContext(ctx, "Skipping import row that failed to store",
				"row", i+2,
				"error", err)
			result.Skipped++
			continue
		}
		result.Imported++
	}

	slog.InfoContext(ctx, "Spreadsheet import complete",
		"user_id", userID,
		"spreadsheet_id", spreadsheetID,
		"tab", tab,
		"imported", result.Imported,
		"skipped", result.Skipped)
	return result, nil
}

// rowToTransaction parses one raw row. The transaction type defaults to
// expense; a row naming a category the user does not have yet creates it.
func (s *ImportService) rowToTransaction(ctx context.Context, userID int64, row sheets.TransactionRow) (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", row.Date, err)
	}

	cents, err := core.ParseDecimalToCents(row.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", row.Amount, err)
	}

	txType := core.Expense
	if t := strings.ToLower(strings.TrimSpace(row.Type)); t != "" {
		txType = core.TransactionType(t)
		if !txType.Valid() {
			return core.Transaction{}, fmt.Errorf("type %q: %w", row.Type, core.ErrInvalidType)
		}
	}

	var categoryID int64
	if name := strings.TrimSpace(row.Category); name != "" {
		category, err := s.storage.GetOrCreateCategoryByName(ctx, userID, name)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("category %q: %w", name, err)
		}
		categoryID = category.ID
	}

	return core.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		CategoryID:  categoryID,
		Description: strings.TrimSpace(row.Description),
	}, nil
}
