package interview

import "errors"

// HandoffMode distinguishes a checkpoint that resumes the workflow from one
// that ends the current workflow segment after its result is consumed.
type HandoffMode int

const (
	// HandoffContinue captures input and resumes the workflow.
	HandoffContinue HandoffMode = iota
	// HandoffTerminate captures input and signals the calling workflow
	// segment to stop once it has consumed the reply.
	HandoffTerminate
)

// ErrInterrupted marks a run cut short by the user (Ctrl-C or closed
// input). The orchestrator converts it into an interrupted RunResult.
var ErrInterrupted = errors.New("interrupted by user")

// affirmative are replies treated as consent.
var affirmative = []string{"yes", "y", "sure", "ok", "save"}

// Affirmative reports whether the reply consents to an optional action.
func Affirmative(reply string) bool {
	return inSet(reply, affirmative)
}
