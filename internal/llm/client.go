// Package llm abstracts the language model providers behind a single
// completion interface. Gemini is the default; OpenAI is available as an
// alternative via configuration.
package llm

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a single prompt message with a provider-neutral role.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type Request struct {
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// Client is implemented by each model provider.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Provider() string
}
