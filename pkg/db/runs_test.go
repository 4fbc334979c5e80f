package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	require.NoError(t, err, "failed to create test database")

	// Every pooled connection would get its own in-memory database.
	database.SetMaxOpenConns(1)

	require.NoError(t, database.InitSchema(), "failed to initialize schema")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func sampleRun(uuid string) Run {
	return Run{
		RunUUID:         uuid,
		InputPath:       "books/cat.txt",
		ContentHash:     "deadbeef",
		SizeBytes:       36,
		SegmentCount:    2,
		WorkerCount:     2,
		IntermediateDir: "intermediate",
		Language:        "english",
	}
}

func TestCreateRun(t *testing.T) {
	db := setupTestDB(t)

	runID, err := db.CreateRun(sampleRun("u-1"))
	require.NoError(t, err)
	assert.NotZero(t, runID)

	run, err := db.GetRunByID(runID)
	require.NoError(t, err)
	assert.Equal(t, "u-1", run.RunUUID)
	assert.Equal(t, StatusRunning, run.Status)
	assert.Equal(t, "books/cat.txt", run.InputPath)
	assert.Equal(t, int64(36), run.SizeBytes)
	assert.Equal(t, "english", run.Language)
	assert.False(t, run.CreatedAt.IsZero())

	_, err = db.CreateRun(sampleRun("u-1"))
	assert.Error(t, err, "duplicate uuid must be rejected")
}

func TestCompleteRun(t *testing.T) {
	db := setupTestDB(t)

	runID, err := db.CreateRun(sampleRun("u-2"))
	require.NoError(t, err)

	segments := []Segment{
		{Index: 1, Start: 21, End: 36, WordCount: 4, DistinctCount: 4},
		{Index: 0, Start: 0, End: 21, WordCount: 5, DistinctCount: 3, ArtifactPath: "intermediate/segment_0_counts.txt"},
	}
	keywords := []Keyword{
		{Rank: 1, Word: "the", Count: 3},
		{Rank: 2, Word: "cat", Count: 2},
	}
	require.NoError(t, db.CompleteRun(runID, segments, keywords, 9, 5, 1500*time.Millisecond))

	run, err := db.GetRunByID(runID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, run.Status)
	assert.Equal(t, 9, run.TotalWords)
	assert.Equal(t, 5, run.DistinctWords)
	assert.Equal(t, 1500*time.Millisecond, run.Duration)

	gotSegments, err := db.GetRunSegments(runID)
	require.NoError(t, err)
	require.Len(t, gotSegments, 2)
	assert.Equal(t, 0, gotSegments[0].Index)
	assert.Equal(t, "intermediate/segment_0_counts.txt", gotSegments[0].ArtifactPath)
	assert.Equal(t, "", gotSegments[1].ArtifactPath)

	gotKeywords, err := db.GetRunKeywords(runID)
	require.NoError(t, err)
	assert.Equal(t, keywords, gotKeywords)
}

func TestCompleteRun_UnknownRun(t *testing.T) {
	db := setupTestDB(t)

	err := db.CompleteRun(999, nil, nil, 0, 0, 0)
	assert.True(t, errors.Is(err, ErrRunNotFound), "err=%v", err)
}

func TestFailRun(t *testing.T) {
	db := setupTestDB(t)

	runID, err := db.CreateRun(sampleRun("u-3"))
	require.NoError(t, err)
	require.NoError(t, db.FailRun(runID, errors.New("segment 3: bad sector"), time.Second))

	run, err := db.GetRunByID(runID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, "segment 3: bad sector", run.ErrorMessage)
}

func TestGetRunByID_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetRunByID(42)
	assert.True(t, errors.Is(err, ErrRunNotFound))

	_, err = db.LatestRunID()
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)

	var ids []int64
	for _, u := range []string{"a", "b", "c"} {
		id, err := db.CreateRun(sampleRun(u))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	tests := []struct {
		name  string
		limit int
		want  []int64
	}{
		{name: "no limit", limit: 0, want: []int64{ids[2], ids[1], ids[0]}},
		{name: "limit 2", limit: 2, want: []int64{ids[2], ids[1]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := db.ListRuns(tt.limit)
			require.NoError(t, err)
			got := make([]int64, len(runs))
			for i, r := range runs {
				got[i] = r.RunID
			}
			assert.Equal(t, tt.want, got)
		})
	}

	latest, err := db.LatestRunID()
	require.NoError(t, err)
	assert.Equal(t, ids[2], latest)
}

func TestFindRunsByHash(t *testing.T) {
	db := setupTestDB(t)

	done, err := db.CreateRun(sampleRun("done"))
	require.NoError(t, err)
	require.NoError(t, db.CompleteRun(done, nil, nil, 9, 5, 0))

	failed, err := db.CreateRun(sampleRun("failed"))
	require.NoError(t, err)
	require.NoError(t, db.FailRun(failed, errors.New("boom"), 0))

	other := sampleRun("other")
	other.ContentHash = "cafebabe"
	_, err = db.CreateRun(other)
	require.NoError(t, err)

	runs, err := db.FindRunsByHash("deadbeef")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, done, runs[0].RunID)
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultDBName)

	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.CreateRun(sampleRun("file"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening finds the existing schema and data.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())

	runs, err := db.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
