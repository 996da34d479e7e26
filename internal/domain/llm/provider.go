package llm

import "context"

// Message is a single LLM conversation message.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// GenerateRequest is an LLM generation request.
type GenerateRequest struct {
	Messages     []Message
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
}

// GenerateResponse is an LLM generation response.
type GenerateResponse struct {
	Content      string
	TokensUsed   int
	FinishReason string
}

// LLMProvider abstracts a text-generation backend.
type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}
