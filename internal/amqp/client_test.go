package amqp

import (
	"fmt"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{-1, 1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := ExponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("ExponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestImportJobMessageRoundTrip(t *testing.T) {
	msg := NewImportJobMessage(7, "sheet-abc", "2024")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := ImportJobMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.UserID != 7 || decoded.SpreadsheetID != "sheet-abc" || decoded.Tab != "2024" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp not preserved")
	}
}

func TestImportJobMessageFromJSONInvalid(t *testing.T) {
	if _, err := ImportJobMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
