package amqp

import (
	"encoding/json"
	"time"
)

// ImportJobMessage asks the worker to import transactions from a spreadsheet
// tab into a user's ledger. It carries only coordinates; the worker reads the
// rows itself so the queue never holds financial data.
type ImportJobMessage struct {
	UserID        int64     `json:"user_id"`
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewImportJobMessage(userID int64, spreadsheetID, tab string) *ImportJobMessage {
	return &ImportJobMessage{
		UserID:        userID,
		SpreadsheetID: spreadsheetID,
		Tab:           tab,
		Timestamp:     time.Now(),
	}
}

func (m *ImportJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ImportJobMessageFromJSON(data []byte) (*ImportJobMessage, error) {
	var msg ImportJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
