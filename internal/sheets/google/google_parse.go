package google

import (
	"fmt"
	"strings"

	"cartera/internal/sheets"
)

// parseRows converts a values matrix (as returned by the Sheets API) into
// transaction rows. The first row is a header; column positions come from
// it, so the tab may order its columns freely. Date and Amount are required
// headers, the rest optional.
func parseRows(values [][]interface{}) ([]sheets.TransactionRow, error) {
	if len(values) == 0 {
		return nil, nil
	}

	headers := toStrings(values[0])
	colDate := indexOf(headers, "Date")
	colAmount := indexOf(headers, "Amount")
	colType := indexOf(headers, "Type")
	colCategory := indexOf(headers, "Category")
	colDescription := indexOf(headers, "Description")

	if colDate == -1 || colAmount == -1 {
		missing := make([]string, 0, 2)
		if colDate == -1 {
			missing = append(missing, "Date")
		}
		if colAmount == -1 {
			missing = append(missing, "Amount")
		}
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	var rows []sheets.TransactionRow
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		r := sheets.TransactionRow{
			Date:        safeGet(row, colDate),
			Amount:      safeGet(row, colAmount),
			Type:        safeGet(row, colType),
			Category:    safeGet(row, colCategory),
			Description: safeGet(row, colDescription),
		}
		if strings.TrimSpace(r.Date) == "" && strings.TrimSpace(r.Amount) == "" {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	return out
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
