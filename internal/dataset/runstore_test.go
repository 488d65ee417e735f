package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwatch-data/hallway.report/internal/report"
)

func openTestStore(t *testing.T) *RunStore {
	t.Helper()
	s, err := OpenRunStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunStoreRecordAndQuery(t *testing.T) {
	s := openTestStore(t)

	res := &report.Result{
		Success:          true,
		FramesAnalyzed:   5,
		HazardousObjects: 2,
		Method:           report.Method,
	}

	id, err := s.RecordRun("clip1", res)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = s.RecordRun("clip1", &report.Result{Success: false, Method: report.Method})
	require.NoError(t, err)

	runs, err := s.Runs("clip1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "clip1", r.Identity)
		assert.False(t, r.CreatedAt.IsZero())
	}
}

func TestRunStoreIsolatesIdentities(t *testing.T) {
	s := openTestStore(t)

	_, err := s.RecordRun("a", &report.Result{Success: true, Method: report.Method})
	require.NoError(t, err)

	runs, err := s.Runs("b")
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunStoreMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s1, err := OpenRunStore(path)
	require.NoError(t, err)
	_, err = s1.RecordRun("x", &report.Result{Success: true, Method: report.Method})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening applies no new migrations and keeps existing rows.
	s2, err := OpenRunStore(path)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.Runs("x")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
