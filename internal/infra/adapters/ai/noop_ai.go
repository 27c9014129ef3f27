package ai

import (
	"context"
	"strings"
	"time"

	"health-advisory-chat/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter answers from a small canned-reply table for local/dev
// runs without an API key. It simulates roughly the latency a real
// round-trip would have.
type NoopAIAdapter struct {
	delay time.Duration
}

// NewNoopAIAdapter constructs the noop adapter. delay <= 0 picks the
// default simulated latency of one second.
func NewNoopAIAdapter(delay time.Duration) *NoopAIAdapter {
	if delay <= 0 {
		delay = time.Second
	}
	return &NoopAIAdapter{delay: delay}
}

func (a *NoopAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := a.ChatWithUsage(ctx, model, messages)
	return reply, err
}

func (a *NoopAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	select {
	case <-time.After(a.delay):
	case <-ctx.Done():
		return "", adapter.Usage{}, ctx.Err()
	}
	if len(messages) == 0 {
		return "", adapter.Usage{}, nil
	}
	return cannedReply(messages[len(messages)-1].Content), adapter.Usage{}, nil
}

func (a *NoopAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		n += len(strings.Fields(m.Content))
	}
	return n, nil
}

func (a *NoopAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{
		Name:        "noop",
		Description: "Canned-reply model for offline development",
		MaxTokens:   1024,
		Supports:    []string{"chat"},
	}, nil
}

func (a *NoopAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop"}, nil
}

func cannedReply(userMessage string) string {
	message := strings.ToLower(userMessage)
	switch {
	case strings.Contains(message, "hello"), strings.Contains(message, "hi"), strings.Contains(message, "hey"):
		return "Hello! How can I assist you today?"
	case strings.Contains(message, "help"):
		return "I'm here to help! What do you need assistance with?"
	case strings.Contains(message, "thank"):
		return "You're welcome! Is there anything else I can help you with?"
	case strings.Contains(message, "bye"), strings.Contains(message, "goodbye"):
		return "Goodbye! Feel free to come back if you have more questions."
	default:
		return "I'm your AI assistant. How can I help you with that?"
	}
}
