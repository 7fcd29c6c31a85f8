package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"cartera/internal/core"
)

// Completer is the minimal surface the chat orchestrator needs from a
// language model client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatService turns a free-form question about the user's finances into a
// grounded answer: extract an optional reference date from the question,
// build the context document for it, and hand prompt plus document to the
// model.
type ChatService struct {
	contexts *ContextBuilder
	llm      Completer
}

func NewChatService(contexts *ContextBuilder, llm Completer) *ChatService {
	return &ChatService{contexts: contexts, llm: llm}
}

const chatPrompt = `You are a personal finance assistant. Answer the user's question using only the financial data below. Amounts are in euros. Be concise and concrete; if the data does not contain the answer, say so.

FINANCIAL DATA:
%s

QUESTION: %s`

// Ask answers a question for the given user. Without a configured model
// client the assembled prompt itself is returned, which keeps the endpoint
// usable for local inspection.
func (s *ChatService) Ask(ctx context.Context, userID int64, question string) (string, error) {
	asOf := ExtractDate(question)
	if !asOf.IsZero() {
		slog.InfoContext(ctx, "Chat question references a date", "date", asOf.ISO())
	}

	document := s.contexts.Build(ctx, userID, asOf)
	prompt := fmt.Sprintf(chatPrompt, document, question)

	if s.llm == nil {
		slog.WarnContext(ctx, "No model client configured, returning prompt")
		return prompt, nil
	}

	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("completing chat request: %w", err)
	}
	return reply, nil
}

var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), "2006-01-02"},
	{regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`), "02/01/2006"},
	{regexp.MustCompile(`\b(\d{2}-[A-Za-z]{3}-\d{4})\b`), "02-Jan-2006"},
}

// ExtractDate scans a question for a reference date. Formats are tried in
// order (ISO, then dd/MM/yyyy, then dd-MMM-yyyy) and the first parseable
// match wins. No match means "use the latest values" and yields a zero Date.
func ExtractDate(question string) core.Date {
	for _, p := range datePatterns {
		match := p.re.FindString(question)
		if match == "" {
			continue
		}
		t, err := time.Parse(p.layout, match)
		if err != nil {
			continue
		}
		return core.NewDate(t.Year(), int(t.Month()), t.Day())
	}
	return core.Date{}
}
