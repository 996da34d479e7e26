package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nyukimin/reqgather/internal/domain/interview"
	"github.com/Nyukimin/reqgather/internal/domain/llm"
)

// Classifier attributes free-form "additional information" text to the
// interview sections it belongs to, using a single LLM call.
type Classifier struct {
	provider llm.LLMProvider
}

// NewClassifier creates a new Classifier.
func NewClassifier(provider llm.LLMProvider) *Classifier {
	return &Classifier{provider: provider}
}

// Classify splits the text into per-section notes. The LLM reply is parsed
// as repeated "SECTION NAME: free text" blocks; anything unparseable is
// dropped.
func (c *Classifier) Classify(ctx context.Context, text string) (map[interview.Section]string, error) {
	req := llm.GenerateRequest{
		SystemPrompt: c.buildSystemPrompt(),
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf("Additional information from the user:\n\n%s", text)},
		},
		MaxTokens:   1024,
		Temperature: 0.3, // low temperature for stable classification
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM classification failed: %w", err)
	}

	return interview.ParseSectionNotes(resp.Content), nil
}

func (c *Classifier) buildSystemPrompt() string {
	var names []string
	for _, sec := range interview.Sections() {
		names = append(names, sec.String())
	}

	return fmt.Sprintf(`You are a requirements classifier. Attribute each piece of the user's additional information to one of these requirements sections:

%s

Reply with one block per relevant section, in exactly this format:

SECTION NAME: the information belonging to that section

Only include sections the information actually belongs to. No explanations.`,
		strings.Join(names, "\n"))
}
