package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/Nyukimin/reqgather/internal/domain/interview"
)

// Renderer writes plain-text interview output.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Welcome prints the run banner.
func (r *Renderer) Welcome(kbEnabled bool) {
	fmt.Fprintln(r.out, strings.Repeat("=", 50))
	fmt.Fprintln(r.out, "REQUIREMENTS GATHERING SYSTEM")
	fmt.Fprintln(r.out, "Interactive AI-Powered Requirements Collection")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "This system will guide you through:")
	for i, sec := range interview.Sections() {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, sec)
	}
	if kbEnabled {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Knowledge base augmentation is enabled.")
	}
	fmt.Fprintln(r.out, strings.Repeat("=", 50))
}

// DemoBanner prints the demo-mode notice.
func (r *Renderer) DemoBanner() {
	fmt.Fprintln(r.out, "DEMO MODE")
	fmt.Fprintf(r.out, "Running the requirements gathering system for a sample %q project.\n",
		"Task Management App")
	fmt.Fprintln(r.out)
}

// Progress prints the section checklist with the current position marked.
func (r *Renderer) Progress(current int) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Requirements Gathering Progress:")
	for i, sec := range interview.Sections() {
		var status string
		switch {
		case i < current:
			status = "[x]"
		case i == current:
			status = "[>]"
		default:
			status = "[ ]"
		}
		fmt.Fprintf(r.out, "  %s Section %d: %s\n", status, i+1, sec)
	}
	fmt.Fprintf(r.out, "Progress: %d/%d sections completed\n\n", current, interview.NumSections)
}

// Analysis prints a section's confidence score and evaluator feedback.
func (r *Renderer) Analysis(sec interview.Section, score float64, feedback string) {
	fmt.Fprintf(r.out, "\nResponse Analysis for %s:\n", sec)
	fmt.Fprintf(r.out, "Confidence Score: %.1f/10\n", score)
	if feedback != "" {
		fmt.Fprintln(r.out, feedback)
	}
}

// Issues prints validation issues for a section.
func (r *Renderer) Issues(sec interview.Section, issues string) {
	fmt.Fprintf(r.out, "\nResponse Validation Issues for %s:\n%s\n", sec, issues)
}

// KBResult prints a short one-line-per-source digest of a knowledge base
// retrieval. Results that carry no source blocks (no hits, query errors)
// print nothing.
func (r *Renderer) KBResult(resultText string) {
	var lines []string
	for _, block := range strings.Split(resultText, "\n\n") {
		parts := strings.SplitN(block, "\n", 2)
		if len(parts) < 2 {
			continue
		}
		body := strings.TrimSpace(parts[1])
		if len(body) > 50 {
			body = body[:50] + "..."
		}
		lines = append(lines, fmt.Sprintf("  - %s %s", strings.TrimSuffix(parts[0], ":"), body))
	}
	if len(lines) == 0 {
		return
	}

	fmt.Fprintln(r.out, "Knowledge Base Results Preview:")
	for _, line := range lines {
		fmt.Fprintln(r.out, line)
	}
}

// Summary prints the terminal run summary.
func (r *Renderer) Summary(result interview.RunResult) {
	fmt.Fprintln(r.out)
	switch result.Status {
	case interview.StatusSuccess:
		fmt.Fprintln(r.out, "Requirements gathering completed successfully!")
		fmt.Fprintf(r.out, "Project:   %s\n", result.ProjectName)
		fmt.Fprintf(r.out, "Document:  %s\n", result.SavedFilename)
		fmt.Fprintf(r.out, "Sections:  %d\n", result.Statistics.SectionsProcessed)
		fmt.Fprintf(r.out, "Responses: %d\n", result.Statistics.TotalResponses)
		if result.Statistics.KBEnhanced {
			fmt.Fprintln(r.out, "Knowledge Base Enhanced: yes")
		}
	case interview.StatusInterrupted:
		fmt.Fprintln(r.out, "Session was interrupted; no document was saved.")
	default:
		fmt.Fprintln(r.out, "Requirements gathering failed.")
		if result.Err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", result.Err)
		}
	}
}
