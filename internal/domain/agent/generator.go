package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/Nyukimin/reqgather/internal/domain/llm"
)

// Generator produces the final Markdown requirements document from the
// collected answer set, and revises it once on review feedback.
type Generator struct {
	provider llm.LLMProvider
}

// NewGenerator creates a new Generator.
func NewGenerator(provider llm.LLMProvider) *Generator {
	return &Generator{provider: provider}
}

// GenerateDocument returns the generated Markdown document for the project.
// On provider failure it returns an error string in place of a document;
// the caller persists whatever comes back.
func (g *Generator) GenerateDocument(ctx context.Context, projectName, data string) string {
	req := llm.GenerateRequest{
		SystemPrompt: g.buildSystemPrompt(projectName),
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(
				"Generate the requirements document for %q from this collected data:\n\n%s",
				projectName, data)},
		},
		MaxTokens:   4096,
		Temperature: 0.4,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		log.Printf("generator: provider %s failed: %v", g.provider.Name(), err)
		return fmt.Sprintf("Error generating document: %v", err)
	}
	return resp.Content
}

// Revise applies review feedback to an already generated document with a
// single additional generation call. Failure policy matches
// GenerateDocument.
func (g *Generator) Revise(ctx context.Context, document, feedback string) string {
	req := llm.GenerateRequest{
		SystemPrompt: "You are a professional technical writer. Revise the requirements document according to the reviewer's feedback. Return the complete revised Markdown document and nothing else.",
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(
				"Original document:\n\n%s\n\nReviewer feedback:\n\n%s", document, feedback)},
		},
		MaxTokens:   4096,
		Temperature: 0.4,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		log.Printf("generator: revision failed: %v", err)
		return fmt.Sprintf("Error generating document: %v", err)
	}
	return resp.Content
}

func (g *Generator) buildSystemPrompt(projectName string) string {
	return fmt.Sprintf(`You are a professional requirements analyst writing the final requirements document for the project %q.

Produce a complete Markdown document with:
- A title and executive summary
- One section per requirements area, incorporating the collected answers
- The per-section confidence scores included in the collected data
- A closing metadata section

Return only the Markdown document.`, projectName)
}
