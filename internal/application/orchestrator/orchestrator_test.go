package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/reqgather/internal/domain/interview"
)

// scriptedCheckpoint replays canned replies and records every handoff.
// Exhausted scripts answer "no".
type scriptedCheckpoint struct {
	replies  []string
	err      error
	messages []string
	modes    []interview.HandoffMode
}

func (c *scriptedCheckpoint) Handoff(message string, mode interview.HandoffMode) (string, bool, error) {
	c.messages = append(c.messages, message)
	c.modes = append(c.modes, mode)
	if c.err != nil {
		return "", mode == interview.HandoffTerminate, c.err
	}
	reply := "no"
	if len(c.replies) > 0 {
		reply = c.replies[0]
		c.replies = c.replies[1:]
	}
	return reply, mode == interview.HandoffTerminate, nil
}

type stubEvaluator struct {
	feedback string
}

func (e *stubEvaluator) Evaluate(context.Context, string, interview.Section) string {
	return e.feedback
}

type stubValidator struct {
	calls []interview.Section
}

func (v *stubValidator) Validate(_ context.Context, _ string, sec interview.Section) string {
	v.calls = append(v.calls, sec)
	return "Missing acceptance criteria."
}

type stubGenerator struct {
	document string
	revised  string

	lastData     string
	lastFeedback string
}

func (g *stubGenerator) GenerateDocument(_ context.Context, _, data string) string {
	g.lastData = data
	return g.document
}

func (g *stubGenerator) Revise(_ context.Context, _, feedback string) string {
	g.lastFeedback = feedback
	return g.revised
}

type stubClassifier struct {
	notes map[interview.Section]string
	err   error
}

func (c *stubClassifier) Classify(context.Context, string) (map[interview.Section]string, error) {
	return c.notes, c.err
}

type stubRetriever struct {
	result  string
	queries []string
}

func (r *stubRetriever) Retrieve(_ context.Context, query string) string {
	r.queries = append(r.queries, query)
	return r.result
}

type recordingStore struct {
	saved     bool
	timestamp string
	state     *interview.RunState
}

func (s *recordingStore) SaveInterviewRun(st *interview.RunState, timestamp string) error {
	s.saved = true
	s.timestamp = timestamp
	s.state = st
	return nil
}

// nopPresenter satisfies Presenter without output.
type nopPresenter struct{}

func (nopPresenter) Progress(int)                                {}
func (nopPresenter) Analysis(interview.Section, float64, string) {}
func (nopPresenter) Issues(interview.Section, string)            {}
func (nopPresenter) KBResult(string)                             {}

var sectionAnswers = []string{
	"Build a todo app for teams",
	"As a user I want to add tasks",
	"Must run on web and mobile",
	"90% of tasks completed within app",
	"Support CSV and JSON import",
}

func fixedClock() time.Time {
	return time.Date(2026, 8, 30, 10, 15, 30, 0, time.UTC)
}

func newTestDeps(cp *scriptedCheckpoint, gen *stubGenerator, dir string) Deps {
	return Deps{
		Checkpoint: cp,
		Evaluator:  &stubEvaluator{feedback: "Confidence Score: 8/10\nGood detail."},
		Validator:  &stubValidator{},
		Generator:  gen,
		Classifier: &stubClassifier{},
		Presenter:  nopPresenter{},
		OutputDir:  dir,
		Now:        fixedClock,
	}
}

func TestRunCompleteInterview(t *testing.T) {
	dir := t.TempDir()
	cp := &scriptedCheckpoint{replies: append(append([]string{}, sectionAnswers...), "no")}
	gen := &stubGenerator{document: "# Req Doc"}

	result := New(newTestDeps(cp, gen, dir)).Run(context.Background(), "Todo App")

	require.Equal(t, interview.StatusSuccess, result.Status)
	assert.Equal(t, "Todo App", result.ProjectName)
	assert.Equal(t, "requirements_20260830_101530.md", result.SavedFilename)
	assert.Equal(t, 5, result.Statistics.SectionsProcessed)
	assert.Equal(t, 5, result.Statistics.TotalResponses)
	assert.False(t, result.Statistics.KBEnhanced)

	content, err := os.ReadFile(filepath.Join(dir, result.SavedFilename))
	require.NoError(t, err)
	assert.Equal(t, "# Req Doc", string(content))

	// Every collected answer reaches the generator.
	for _, answer := range sectionAnswers {
		assert.Contains(t, gen.lastData, answer)
	}
	assert.Contains(t, gen.lastData, "Confidence: 8.0/10")
}

func TestRunTerminateEndsCollection(t *testing.T) {
	cp := &scriptedCheckpoint{replies: append(append([]string{}, sectionAnswers...), "no")}
	gen := &stubGenerator{document: "doc"}

	result := New(newTestDeps(cp, gen, t.TempDir())).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)

	// Five continue-mode section handoffs, one terminate-mode additions
	// handoff that ends collection, one terminate-mode review. No store is
	// configured, so nothing follows the review.
	require.Len(t, cp.modes, 7)
	for i := 0; i < 5; i++ {
		assert.Equal(t, interview.HandoffContinue, cp.modes[i])
	}
	assert.Equal(t, interview.HandoffTerminate, cp.modes[5])
	assert.Contains(t, cp.messages[5], "anything else")
	assert.Equal(t, interview.HandoffTerminate, cp.modes[6])
	assert.Contains(t, cp.messages[6], "review")
}

func TestRunInterrupted(t *testing.T) {
	cp := &scriptedCheckpoint{err: interview.ErrInterrupted}

	result := New(newTestDeps(cp, &stubGenerator{}, t.TempDir())).Run(context.Background(), "Todo App")

	assert.Equal(t, interview.StatusInterrupted, result.Status)
	assert.ErrorIs(t, result.Err, interview.ErrInterrupted)
	assert.Empty(t, result.SavedFilename)
}

func TestRunLowConfidenceTriggersValidation(t *testing.T) {
	cp := &scriptedCheckpoint{replies: append(append([]string{}, sectionAnswers...), "no")}
	gen := &stubGenerator{document: "doc"}
	val := &stubValidator{}

	deps := newTestDeps(cp, gen, t.TempDir())
	deps.Evaluator = &stubEvaluator{feedback: "Confidence Score: 4.5/10\nVague."}
	deps.Validator = val

	result := New(deps).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)

	assert.Len(t, val.calls, interview.NumSections)
	assert.Contains(t, gen.lastData, "Confidence: 4.5/10")
	assert.Contains(t, gen.lastData, "Validation notes:\nMissing acceptance criteria.")
}

func TestRunScoreAtThresholdSkipsValidation(t *testing.T) {
	cp := &scriptedCheckpoint{replies: append(append([]string{}, sectionAnswers...), "no")}
	val := &stubValidator{}

	deps := newTestDeps(cp, &stubGenerator{document: "doc"}, t.TempDir())
	deps.Evaluator = &stubEvaluator{feedback: "Confidence Score: 7.0/10"}
	deps.Validator = val

	result := New(deps).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)
	assert.Empty(t, val.calls)
}

func TestRunRevisionOnFeedback(t *testing.T) {
	dir := t.TempDir()
	replies := append(append([]string{}, sectionAnswers...), "no", "Add a deadlines section")
	cp := &scriptedCheckpoint{replies: replies}
	gen := &stubGenerator{document: "# Draft", revised: "# Draft v2"}

	result := New(newTestDeps(cp, gen, dir)).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)

	assert.Equal(t, "Add a deadlines section", gen.lastFeedback)
	content, err := os.ReadFile(filepath.Join(dir, result.SavedFilename))
	require.NoError(t, err)
	assert.Equal(t, "# Draft v2", string(content))
}

func TestRunStoreOptIn(t *testing.T) {
	replies := append(append([]string{}, sectionAnswers...), "no", "no", "yes")
	cp := &scriptedCheckpoint{replies: replies}
	st := &recordingStore{}

	deps := newTestDeps(cp, &stubGenerator{document: "doc"}, t.TempDir())
	deps.Store = st

	result := New(deps).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)

	require.True(t, st.saved)
	assert.Equal(t, "20260830_101530", st.timestamp)
	assert.Equal(t, "Todo App", st.state.ProjectName)
}

func TestRunStoreDeclined(t *testing.T) {
	replies := append(append([]string{}, sectionAnswers...), "no", "no", "no")
	cp := &scriptedCheckpoint{replies: replies}
	st := &recordingStore{}

	deps := newTestDeps(cp, &stubGenerator{document: "doc"}, t.TempDir())
	deps.Store = st

	result := New(deps).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)
	assert.False(t, st.saved)
}

func TestRunAsksForMissingProjectName(t *testing.T) {
	replies := append([]string{""}, sectionAnswers...)
	cp := &scriptedCheckpoint{replies: append(replies, "no")}

	result := New(newTestDeps(cp, &stubGenerator{document: "doc"}, t.TempDir())).
		Run(context.Background(), "")

	require.Equal(t, interview.StatusSuccess, result.Status)
	assert.Equal(t, interview.DefaultProjectName, result.ProjectName)
	assert.Contains(t, cp.messages[0], "name of your project")
}

func TestRunKnowledgeBaseAugmentation(t *testing.T) {
	cp := &scriptedCheckpoint{replies: append(append([]string{}, sectionAnswers...), "no")}
	retr := &stubRetriever{result: "Source 1 (s3://kb/guide.md):\nKeep scope statements measurable.\n"}

	deps := newTestDeps(cp, &stubGenerator{document: "doc"}, t.TempDir())
	deps.Retriever = retr

	result := New(deps).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)
	assert.True(t, result.Statistics.KBEnhanced)

	require.Len(t, retr.queries, interview.NumSections)
	assert.Equal(t, "best practices for gathering project scope requirements", retr.queries[0])
	assert.Contains(t, cp.messages[0], "Relevant knowledge base context:")
	assert.Contains(t, cp.messages[0], "Keep scope statements measurable.")
}

func TestRunKnowledgeBaseErrorLeavesQuestionUntouched(t *testing.T) {
	cp := &scriptedCheckpoint{replies: append(append([]string{}, sectionAnswers...), "no")}
	retr := &stubRetriever{result: "Error querying knowledge base: AccessDenied"}

	deps := newTestDeps(cp, &stubGenerator{document: "doc"}, t.TempDir())
	deps.Retriever = retr

	result := New(deps).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)
	assert.NotContains(t, cp.messages[0], "Relevant knowledge base context:")
	assert.NotContains(t, cp.messages[0], "AccessDenied")
}

func TestRunAdditionalInfoClassified(t *testing.T) {
	replies := append(append([]string{}, sectionAnswers...), "Also need XML import support")
	cp := &scriptedCheckpoint{replies: replies}
	gen := &stubGenerator{document: "doc"}

	deps := newTestDeps(cp, gen, t.TempDir())
	deps.Classifier = &stubClassifier{notes: map[interview.Section]string{
		interview.SectionFileFormatSupport: "Also need XML import support",
	}}

	result := New(deps).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)

	assert.Contains(t, gen.lastData, "Support CSV and JSON import\n\nAlso need XML import support")
	assert.Equal(t, 5, result.Statistics.TotalResponses)
}

func TestRunClassifierErrorDropsAdditions(t *testing.T) {
	replies := append(append([]string{}, sectionAnswers...), "extra details here")
	cp := &scriptedCheckpoint{replies: replies}
	gen := &stubGenerator{document: "doc"}

	deps := newTestDeps(cp, gen, t.TempDir())
	deps.Classifier = &stubClassifier{err: errors.New("provider unavailable")}

	result := New(deps).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)
	assert.NotContains(t, gen.lastData, "extra details here")
}

func TestRunGenerationErrorStillSavesFile(t *testing.T) {
	dir := t.TempDir()
	cp := &scriptedCheckpoint{replies: append(append([]string{}, sectionAnswers...), "no")}
	gen := &stubGenerator{document: "Error generating document: provider timeout"}

	result := New(newTestDeps(cp, gen, dir)).Run(context.Background(), "Todo App")
	require.Equal(t, interview.StatusSuccess, result.Status)

	content, err := os.ReadFile(filepath.Join(dir, result.SavedFilename))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Error generating document:"))
}
