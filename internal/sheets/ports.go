// Package sheets defines the ports for spreadsheet import sources.
package sheets

import "context"

// TransactionRow is one raw spreadsheet row. Fields are untyped strings;
// parsing and validation belong to the import service, which decides what
// to do with malformed rows.
type TransactionRow struct {
	Date        string
	Amount      string
	Type        string
	Category    string
	Description string
}

// RowReader reads transaction rows from one tab of a spreadsheet.
type RowReader interface {
	ReadTransactionRows(ctx context.Context, spreadsheetID, tab string) ([]TransactionRow, error)
}
