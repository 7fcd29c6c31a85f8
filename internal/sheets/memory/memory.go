// Package memory is an in-memory RowReader for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"cartera/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	tabs map[string][]sheets.TransactionRow
}

var _ sheets.RowReader = (*Store)(nil)

func New() *Store {
	return &Store{tabs: map[string][]sheets.TransactionRow{}}
}

// Add registers rows for a spreadsheet tab.
func (s *Store) Add(spreadsheetID, tab string, rows ...sheets.TransactionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tabKey(spreadsheetID, tab)
	s.tabs[key] = append(s.tabs[key], rows...)
}

func (s *Store) ReadTransactionRows(_ context.Context, spreadsheetID, tab string) ([]sheets.TransactionRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.tabs[tabKey(spreadsheetID, tab)]
	if !ok {
		return nil, fmt.Errorf("no such tab %q in spreadsheet %q", tab, spreadsheetID)
	}
	out := make([]sheets.TransactionRow, len(rows))
	copy(out, rows)
	return out, nil
}

func tabKey(spreadsheetID, tab string) string {
	return spreadsheetID + "/" + tab
}
