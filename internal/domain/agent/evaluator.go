package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/Nyukimin/reqgather/internal/domain/interview"
	"github.com/Nyukimin/reqgather/internal/domain/llm"
)

// EvaluatorFallback is returned when the backing provider fails. Its score
// sits exactly on the validation threshold so a broken evaluator never
// triggers validation on its own.
const EvaluatorFallback = "Confidence Score: 7.0/10"

// Evaluator scores the completeness and quality of a section answer using
// the backing LLM. Output is free text; the caller extracts the numeric
// score from it.
type Evaluator struct {
	provider llm.LLMProvider
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(provider llm.LLMProvider) *Evaluator {
	return &Evaluator{provider: provider}
}

// Evaluate returns the evaluator's raw text for the given answer. Provider
// failures are swallowed and replaced with EvaluatorFallback.
func (e *Evaluator) Evaluate(ctx context.Context, answer string, sec interview.Section) string {
	req := llm.GenerateRequest{
		SystemPrompt: e.buildSystemPrompt(sec),
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(
				"Please evaluate this response for the %q section:\n\n%s", sec, answer)},
		},
		MaxTokens:   512,
		Temperature: 0.3,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		log.Printf("evaluator: provider %s failed (%v), using fallback", e.provider.Name(), err)
		return EvaluatorFallback
	}
	return resp.Content
}

func (e *Evaluator) buildSystemPrompt(sec interview.Section) string {
	return fmt.Sprintf(`You are an expert requirements analyst.

Evaluate the quality and completeness of the user's response for the %q section.

Provide:
1. A confidence score from 0-10 (where 10 is excellent)
2. Brief feedback explaining the score
3. 1-3 key strengths of the response
4. 1-3 areas for improvement

Start your reply with a line in exactly this form:
Confidence Score: N/10`, sec)
}
