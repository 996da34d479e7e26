package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/reqgather/internal/domain/interview"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() RunRecord {
	return RunRecord{
		ProjectID:         "task-management-app",
		Timestamp:         "20260830_101530",
		ProjectName:       "Task Management App",
		Document:          "# Req Doc",
		OverallConfidence: 7.4,
		Sections: map[string]SectionRecord{
			"PROJECT SCOPE": {Content: "Build a todo app for teams", Confidence: 8},
			"USER STORIES":  {Content: "As a user I want to add tasks", Confidence: 6.8},
		},
	}
}

func TestOpenCreatesSchemaAndDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	// Schema exists: an upsert against a fresh database must work.
	require.NoError(t, s.UpsertRun(sampleRun()))
}

func TestUpsertAndGetRun(t *testing.T) {
	s := openTestStore(t)
	rec := sampleRun()
	require.NoError(t, s.UpsertRun(rec))

	got, err := s.GetRun(rec.ProjectID, rec.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, rec.ProjectName, got.ProjectName)
	assert.Equal(t, rec.Document, got.Document)
	assert.Equal(t, rec.OverallConfidence, got.OverallConfidence)
	assert.Equal(t, rec.Sections, got.Sections)
}

func TestUpsertReplacesExistingRun(t *testing.T) {
	s := openTestStore(t)
	rec := sampleRun()
	require.NoError(t, s.UpsertRun(rec))

	rec.Document = "# Req Doc v2"
	rec.OverallConfidence = 8.1
	require.NoError(t, s.UpsertRun(rec))

	got, err := s.GetRun(rec.ProjectID, rec.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, "# Req Doc v2", got.Document)
	assert.Equal(t, 8.1, got.OverallConfidence)

	timestamps, err := s.ListProjectRuns(rec.ProjectID)
	require.NoError(t, err)
	assert.Len(t, timestamps, 1)
}

func TestGetRunMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun("nope", "20260101_000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestListProjectRunsOrder(t *testing.T) {
	s := openTestStore(t)

	rec := sampleRun()
	for _, ts := range []string{"20260830_090000", "20260830_110000", "20260830_100000"} {
		rec.Timestamp = ts
		require.NoError(t, s.UpsertRun(rec))
	}

	timestamps, err := s.ListProjectRuns(rec.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260830_110000", "20260830_100000", "20260830_090000"}, timestamps)
}

func TestSaveInterviewRun(t *testing.T) {
	s := openTestStore(t)

	st := interview.NewRunState("Task Management App")
	st.SetAnswer(interview.SectionProjectScope, "Build a todo app for teams")
	st.SetAnswer(interview.SectionUserStories, "As a user I want to add tasks")
	st.Scores[interview.SectionProjectScope] = 8
	st.Scores[interview.SectionUserStories] = 6
	st.Document = "# Req Doc"

	require.NoError(t, s.SaveInterviewRun(st, "20260830_101530"))

	got, err := s.GetRun("task-management-app", "20260830_101530")
	require.NoError(t, err)
	assert.Equal(t, "Task Management App", got.ProjectName)
	assert.Equal(t, "# Req Doc", got.Document)
	assert.InDelta(t, 7.0, got.OverallConfidence, 1e-9)
	assert.Equal(t, "Build a todo app for teams", got.Sections["PROJECT SCOPE"].Content)
	assert.InDelta(t, 6.0, got.Sections["USER STORIES"].Confidence, 1e-9)
}
