package interview

import (
	"strings"
	"time"
)

// DefaultProjectName is used when the user submits an empty project name.
const DefaultProjectName = "Unnamed Project"

// answerPrefix is stripped from checkpoint replies before they are stored.
const answerPrefix = "ANSWER:"

// RunState carries all mutable state of a single interview run. It is
// created at the start of a run and threaded through every step; two
// concurrent runs never share one.
type RunState struct {
	RunID       string
	ProjectName string
	Answers     map[Section]string
	Scores      map[Section]float64
	Issues      map[Section]string
	Document    string
	KBEnhanced  bool
	StartedAt   time.Time
}

// NewRunState creates the state for a fresh run. An empty or blank project
// name falls back to DefaultProjectName.
func NewRunState(projectName string) *RunState {
	name := strings.TrimSpace(projectName)
	if name == "" {
		name = DefaultProjectName
	}
	return &RunState{
		RunID:       NewRunID(),
		ProjectName: name,
		Answers:     make(map[Section]string),
		Scores:      make(map[Section]float64),
		Issues:      make(map[Section]string),
		StartedAt:   time.Now(),
	}
}

// SetAnswer stores a checkpoint reply verbatim for the section, after
// stripping the known answer prefix if present.
func (s *RunState) SetAnswer(sec Section, text string) {
	s.Answers[sec] = StripAnswerPrefix(text)
}

// AppendAnswer attaches additional information to an already collected
// answer. A section with no prior answer receives the text as-is.
func (s *RunState) AppendAnswer(sec Section, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if existing, ok := s.Answers[sec]; ok && existing != "" {
		s.Answers[sec] = existing + "\n\n" + text
		return
	}
	s.Answers[sec] = text
}

// AllAnswered reports whether every section has an answer. Evaluation must
// not begin before this holds; a missing section at that point is a defect.
func (s *RunState) AllAnswered() bool {
	for _, sec := range Sections() {
		if _, ok := s.Answers[sec]; !ok {
			return false
		}
	}
	return true
}

// OverallConfidence is the arithmetic mean of the per-section scores.
// It returns 0 before evaluation.
func (s *RunState) OverallConfidence() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.Scores {
		sum += v
	}
	return sum / float64(len(s.Scores))
}

// StripAnswerPrefix removes the fixed "ANSWER:" prefix, if present, and
// trims surrounding whitespace.
func StripAnswerPrefix(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= len(answerPrefix) && strings.EqualFold(trimmed[:len(answerPrefix)], answerPrefix) {
		trimmed = strings.TrimSpace(trimmed[len(answerPrefix):])
	}
	return trimmed
}

// nothingToAdd are replies treated as "no additional information".
var nothingToAdd = []string{"no", "n", "none", ""}

// noChanges are replies treated as approval of the generated document.
var noChanges = []string{"no", "n", "none", "", "looks good", "approved"}

// NoAdditions reports whether the reply declines to add information.
func NoAdditions(reply string) bool {
	return inSet(reply, nothingToAdd)
}

// ApprovesDocument reports whether the reply accepts the document without
// requesting a revision.
func ApprovesDocument(reply string) bool {
	return inSet(reply, noChanges)
}

func inSet(reply string, set []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(reply))
	for _, s := range set {
		if normalized == s {
			return true
		}
	}
	return false
}

// Status is the terminal status of a run.
type Status string

const (
	StatusSuccess     Status = "success"
	StatusInterrupted Status = "interrupted"
	StatusError       Status = "error"
)

// Statistics summarizes a completed run.
type Statistics struct {
	SectionsProcessed int
	TotalResponses    int
	Timestamp         string
	KBEnhanced        bool
}

// RunResult is the single terminal record produced by every invocation.
type RunResult struct {
	Status        Status
	ProjectName   string
	SavedFilename string
	Err           error
	Statistics    Statistics
}
