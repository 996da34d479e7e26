// Package orchestrator drives a full requirements-gathering run: section
// collection with handoff checkpoints, confidence evaluation, gated
// validation, document generation, review, and persistence.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nyukimin/reqgather/internal/domain/interview"
)

// Checkpoint blocks the workflow for literal human input. The boolean
// reports whether the calling segment must stop after consuming the reply.
type Checkpoint interface {
	Handoff(message string, mode interview.HandoffMode) (string, bool, error)
}

// Retriever augments section questions with knowledge base context.
type Retriever interface {
	Retrieve(ctx context.Context, query string) string
}

// Evaluator scores a section answer. It returns feedback text containing a
// confidence score; it never fails.
type Evaluator interface {
	Evaluate(ctx context.Context, answer string, sec interview.Section) string
}

// Validator lists issues in a low-confidence answer.
type Validator interface {
	Validate(ctx context.Context, answer string, sec interview.Section) string
}

// Generator produces and revises the requirements document.
type Generator interface {
	GenerateDocument(ctx context.Context, projectName, data string) string
	Revise(ctx context.Context, document, feedback string) string
}

// Classifier assigns free-form additional information to sections.
type Classifier interface {
	Classify(ctx context.Context, text string) (map[interview.Section]string, error)
}

// RunStore persists completed runs.
type RunStore interface {
	SaveInterviewRun(st *interview.RunState, timestamp string) error
}

// Presenter renders interview progress and analysis to the user.
type Presenter interface {
	Progress(current int)
	Analysis(sec interview.Section, score float64, feedback string)
	Issues(sec interview.Section, issues string)
	KBResult(resultText string)
}

// Deps bundles the orchestrator's collaborators. Retriever and Store are
// optional; the run degrades gracefully without them.
type Deps struct {
	Checkpoint Checkpoint
	Evaluator  Evaluator
	Validator  Validator
	Generator  Generator
	Classifier Classifier
	Presenter  Presenter
	Retriever  Retriever
	Store      RunStore

	// OutputDir receives the generated requirements_<timestamp>.md file.
	// Empty means the current directory.
	OutputDir string

	// Now is the clock used for output timestamps. Nil means time.Now.
	Now func() time.Time
}

// Orchestrator runs one interview at a time over a fresh RunState; nothing
// is shared between runs.
type Orchestrator struct {
	deps Deps
}

// New creates an Orchestrator from its collaborators.
func New(deps Deps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{deps: deps}
}

// Run executes the complete interview for the given project and always
// returns a terminal RunResult. An empty project name is asked for at a
// checkpoint; a blank reply falls back to the default name.
func (o *Orchestrator) Run(ctx context.Context, projectName string) interview.RunResult {
	if projectName == "" {
		reply, _, err := o.deps.Checkpoint.Handoff("What is the name of your project?", interview.HandoffContinue)
		if err != nil {
			return o.failure(interview.DefaultProjectName, err)
		}
		projectName = reply
	}

	st := interview.NewRunState(projectName)
	st.KBEnhanced = o.deps.Retriever != nil
	log.Printf("orchestrator: starting run %s for project %q", st.RunID, st.ProjectName)

	result, err := o.runInterview(ctx, st)
	if err != nil {
		return o.failure(st.ProjectName, err)
	}
	return result
}

func (o *Orchestrator) failure(projectName string, err error) interview.RunResult {
	status := interview.StatusError
	if errors.Is(err, interview.ErrInterrupted) || errors.Is(err, context.Canceled) {
		status = interview.StatusInterrupted
	}
	return interview.RunResult{
		Status:      status,
		ProjectName: projectName,
		Err:         err,
	}
}

func (o *Orchestrator) runInterview(ctx context.Context, st *interview.RunState) (interview.RunResult, error) {
	// 1. Collect all five sections, then any additional information.
	if err := o.collect(ctx, st); err != nil {
		return interview.RunResult{}, err
	}

	// Every section must be answered before evaluation starts.
	if !st.AllAnswered() {
		return interview.RunResult{}, fmt.Errorf("interview left sections unanswered")
	}

	// 2. Score every answer; validate the ones below the threshold.
	o.evaluate(ctx, st)
	o.validate(ctx, st)

	// 3. Generate the document and offer one revision round.
	if err := o.generate(ctx, st); err != nil {
		return interview.RunResult{}, err
	}

	// 4. Persist: the file write is unconditional, the store is opt-in.
	timestamp := o.deps.Now().Format("20060102_150405")
	filename, err := o.writeDocument(st, timestamp)
	if err != nil {
		return interview.RunResult{}, err
	}
	if err := o.offerStore(st, timestamp); err != nil {
		return interview.RunResult{}, err
	}

	return interview.RunResult{
		Status:        interview.StatusSuccess,
		ProjectName:   st.ProjectName,
		SavedFilename: filename,
		Statistics: interview.Statistics{
			SectionsProcessed: interview.NumSections,
			TotalResponses:    len(st.Answers),
			Timestamp:         timestamp,
			KBEnhanced:        st.KBEnhanced,
		},
	}, nil
}

// collect walks the five sections, then asks a terminate-mode checkpoint
// for additional information. The terminate flag ends this segment; no
// further input is requested here once it is set.
func (o *Orchestrator) collect(ctx context.Context, st *interview.RunState) error {
	for i, sec := range interview.Sections() {
		o.deps.Presenter.Progress(i)

		question := sec.Question()
		if o.deps.Retriever != nil {
			kbText := o.deps.Retriever.Retrieve(ctx, kbQuery(sec))
			o.deps.Presenter.KBResult(kbText)
			question = augmentQuestion(question, kbText)
		}

		reply, _, err := o.deps.Checkpoint.Handoff(
			fmt.Sprintf("Section %d of %d: %s\n\n%s", i+1, interview.NumSections, sec, question),
			interview.HandoffContinue)
		if err != nil {
			return err
		}
		st.SetAnswer(sec, reply)
	}
	o.deps.Presenter.Progress(interview.NumSections)

	for {
		reply, stop, err := o.deps.Checkpoint.Handoff(
			"Is there anything else you would like to add to any section? (type 'no' to finish)",
			interview.HandoffTerminate)
		if err != nil {
			return err
		}
		if !interview.NoAdditions(reply) {
			o.classifyAdditions(ctx, st, reply)
		}
		if stop {
			return nil
		}
	}
}

// classifyAdditions routes free-form extra input to its sections. A failed
// classification is logged and the input dropped; collection already holds
// a complete answer set.
func (o *Orchestrator) classifyAdditions(ctx context.Context, st *interview.RunState, text string) {
	notes, err := o.deps.Classifier.Classify(ctx, text)
	if err != nil {
		log.Printf("orchestrator: classification failed, additional information dropped: %v", err)
		return
	}
	for sec, note := range notes {
		st.AppendAnswer(sec, note)
	}
}

func (o *Orchestrator) evaluate(ctx context.Context, st *interview.RunState) {
	for _, sec := range interview.Sections() {
		feedback := o.deps.Evaluator.Evaluate(ctx, st.Answers[sec], sec)
		score, matched := interview.ExtractScore(feedback)
		if !matched {
			log.Printf("orchestrator: no confidence score in evaluation for %s, using default %.1f", sec, interview.DefaultScore)
		}
		st.Scores[sec] = score
		o.deps.Presenter.Analysis(sec, score, feedback)
	}
}

func (o *Orchestrator) validate(ctx context.Context, st *interview.RunState) {
	for _, sec := range interview.Sections() {
		if st.Scores[sec] >= interview.ValidationThreshold {
			continue
		}
		issues := o.deps.Validator.Validate(ctx, st.Answers[sec], sec)
		st.Issues[sec] = issues
		o.deps.Presenter.Issues(sec, issues)
	}
}

// generate produces the document from the collected material and offers the
// user one terminate-mode review checkpoint. Any reply other than approval
// is fed back verbatim as revision feedback.
func (o *Orchestrator) generate(ctx context.Context, st *interview.RunState) error {
	st.Document = o.deps.Generator.GenerateDocument(ctx, st.ProjectName, serializeAnswers(st))

	feedback, _, err := o.deps.Checkpoint.Handoff(
		"Please review the generated requirements document:\n\n"+st.Document+
			"\n\nDescribe any changes you would like, or reply 'no' to approve.",
		interview.HandoffTerminate)
	if err != nil {
		return err
	}
	if !interview.ApprovesDocument(feedback) {
		st.Document = o.deps.Generator.Revise(ctx, st.Document, feedback)
	}
	return nil
}

// writeDocument saves whatever document the run holds, including a
// generation error message; the file is the run's record either way.
func (o *Orchestrator) writeDocument(st *interview.RunState, timestamp string) (string, error) {
	filename := fmt.Sprintf("requirements_%s.md", timestamp)
	path := filename
	if o.deps.OutputDir != "" {
		path = filepath.Join(o.deps.OutputDir, filename)
	}
	if err := os.WriteFile(path, []byte(st.Document), 0o644); err != nil {
		return "", fmt.Errorf("failed to save document: %w", err)
	}
	return filename, nil
}

// offerStore asks whether to keep the run in the store. A declined offer or
// a store failure never fails the run; the document file is already saved.
func (o *Orchestrator) offerStore(st *interview.RunState, timestamp string) error {
	if o.deps.Store == nil {
		return nil
	}

	reply, _, err := o.deps.Checkpoint.Handoff(
		"Save this run to the requirements store? (yes/no)", interview.HandoffContinue)
	if err != nil {
		return err
	}
	if !interview.Affirmative(reply) {
		return nil
	}
	if err := o.deps.Store.SaveInterviewRun(st, timestamp); err != nil {
		log.Printf("orchestrator: failed to store run: %v", err)
	}
	return nil
}

// kbQuery is the fixed retrieval query for a section.
func kbQuery(sec interview.Section) string {
	return fmt.Sprintf("best practices for gathering %s requirements", strings.ToLower(sec.String()))
}

// augmentQuestion appends usable knowledge base context to a question.
// Error strings and empty results leave the question untouched.
func augmentQuestion(question, kbText string) string {
	if kbText == "" || !strings.Contains(kbText, "Source 1") {
		return question
	}
	return question + "\n\nRelevant knowledge base context:\n" + kbText
}

// serializeAnswers renders the collected material for document generation.
func serializeAnswers(st *interview.RunState) string {
	var b strings.Builder
	for _, sec := range interview.Sections() {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", sec, st.Answers[sec])
		if score, ok := st.Scores[sec]; ok {
			fmt.Fprintf(&b, "Confidence: %.1f/10\n\n", score)
		}
		if issues, ok := st.Issues[sec]; ok {
			fmt.Fprintf(&b, "Validation notes:\n%s\n\n", issues)
		}
	}
	return b.String()
}
