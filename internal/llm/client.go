// Package llm is a small HTTP client for chat-completion style APIs. It is
// deliberately tolerant on the response side: providers disagree on reply
// shape, so extraction walks a list of known field layouts.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cartera/internal/core"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

// Complete sends the prompt as a single user message and returns the model's
// reply text. Any transport or non-2xx failure wraps ErrExternalService.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages:    []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling model API: %w: %v", core.ErrExternalService, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading model response: %w: %v", core.ErrExternalService, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("model API returned %d: %s: %w", resp.StatusCode, string(raw), core.ErrExternalService)
	}

	return extractReply(raw), nil
}

// extractReply pulls the reply text out of whatever shape the provider
// returned. Known layouts are tried in order; the raw body is the last
// resort so a mis-shaped but successful response is never silently dropped.
func extractReply(raw []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return string(raw)
	}

	// Anthropic-style: {"content": [{"type": "text", "text": "..."}]}
	if blocks, ok := payload["content"].([]any); ok {
		for _, b := range blocks {
			block, ok := b.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := block["text"].(string); ok && text != "" {
				return text
			}
		}
	}
	if content, ok := payload["content"].(string); ok && content != "" {
		return content
	}

	for _, key := range []string{"message", "completion", "response", "output"} {
		if text := anyText(payload[key]); text != "" {
			return text
		}
	}

	// OpenAI-style: {"choices": [{"message": {"content": "..."}}]}
	if choices, ok := payload["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if msg, ok := choice["message"].(map[string]any); ok {
				if text, ok := msg["content"].(string); ok && text != "" {
					return text
				}
			}
			if text, ok := choice["text"].(string); ok && text != "" {
				return text
			}
		}
	}

	return string(raw)
}

// anyText coerces a string, a {"content"/"text": ...} object, or an array
// of either into reply text.
func anyText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["content"].(string); ok {
			return s
		}
		if s, ok := t["text"].(string); ok {
			return s
		}
	case []any:
		for _, item := range t {
			if s := anyText(item); s != "" {
				return s
			}
		}
	}
	return ""
}
