package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/Nyukimin/reqgather/internal/domain/interview"
	"github.com/Nyukimin/reqgather/internal/domain/llm"
)

// ValidatorFallback is returned when the backing provider fails.
const ValidatorFallback = "No critical issues found."

// Validator identifies concrete issues in a low-confidence section answer.
type Validator struct {
	provider llm.LLMProvider
}

// NewValidator creates a new Validator.
func NewValidator(provider llm.LLMProvider) *Validator {
	return &Validator{provider: provider}
}

// Validate returns the validator's raw issue text for the given answer.
// Provider failures are swallowed and replaced with ValidatorFallback.
func (v *Validator) Validate(ctx context.Context, answer string, sec interview.Section) string {
	req := llm.GenerateRequest{
		SystemPrompt: v.buildSystemPrompt(sec),
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(
				"Please validate this %s requirements response:\n\n%s", sec, answer)},
		},
		MaxTokens:   512,
		Temperature: 0.3,
	}

	resp, err := v.provider.Generate(ctx, req)
	if err != nil {
		log.Printf("validator: provider %s failed (%v), using fallback", v.provider.Name(), err)
		return ValidatorFallback
	}
	return resp.Content
}

func (v *Validator) buildSystemPrompt(sec interview.Section) string {
	return fmt.Sprintf(`You are an expert requirements validator for %s requirements.

Analyze the user's response and identify:
1. Any missing critical information
2. Areas that need clarification
3. Specific questions to ask to improve the response

List each issue on its own line.`, sec)
}
