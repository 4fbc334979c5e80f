package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

// Run represents one count invocation.
type Run struct {
	RunID           int64
	RunUUID         string
	CreatedAt       time.Time
	InputPath       string
	ContentHash     string
	SizeBytes       int64
	SegmentCount    int
	WorkerCount     int
	IntermediateDir string
	Language        string
	Status          string
	ErrorMessage    string
	TotalWords      int
	DistinctWords   int
	Duration        time.Duration
}

// Segment is one planned range of a run.
type Segment struct {
	Index         int
	Start         int64
	End           int64
	WordCount     int
	DistinctCount int
	ArtifactPath  string
}

// Keyword is one ranked word of a run.
type Keyword struct {
	Rank  int
	Word  string
	Count int
}

// CreateRun inserts a run in the running state and returns its id.
func (db *DB) CreateRun(r Run) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (run_uuid, input_path, content_hash, size_bytes, segment_count,
		                  worker_count, intermediate_dir, language, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunUUID, r.InputPath, NewNullString(r.ContentHash), r.SizeBytes, r.SegmentCount,
		r.WorkerCount, NewNullString(r.IntermediateDir), NewNullString(r.Language), StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// CompleteRun stores segments and keywords and marks the run successful.
func (db *DB) CompleteRun(runID int64, segments []Segment, keywords []Keyword, totalWords, distinctWords int, duration time.Duration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // No-op after commit

	for _, s := range segments {
		_, err := tx.Exec(`
			INSERT INTO run_segments (run_id, segment_index, start_offset, end_offset,
			                          word_count, distinct_count, artifact_path)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, s.Index, s.Start, s.End, s.WordCount, s.DistinctCount, NewNullString(s.ArtifactPath))
		if err != nil {
			return fmt.Errorf("failed to insert segment %d: %w", s.Index, err)
		}
	}

	for _, k := range keywords {
		_, err := tx.Exec(`
			INSERT INTO run_keywords (run_id, word_rank, word, occurrences)
			VALUES (?, ?, ?, ?)
		`, runID, k.Rank, k.Word, k.Count)
		if err != nil {
			return fmt.Errorf("failed to insert keyword %q: %w", k.Word, err)
		}
	}

	result, err := tx.Exec(`
		UPDATE runs
		SET status = ?, total_words = ?, distinct_words = ?, duration_ms = ?
		WHERE run_id = ?
	`, StatusSuccess, totalWords, distinctWords, duration.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// FailRun marks a run failed with the given error.
func (db *DB) FailRun(runID int64, runErr error, duration time.Duration) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := db.Exec(`
		UPDATE runs SET status = ?, error_message = ?, duration_ms = ?
		WHERE run_id = ?
	`, StatusFailed, NewNullString(msg), duration.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("failed to mark run failed: %w", err)
	}
	return nil
}

const runColumns = `
	run_id, run_uuid, created_at, input_path, content_hash, size_bytes, segment_count,
	worker_count, intermediate_dir, language, status, error_message, total_words,
	distinct_words, duration_ms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var hash, dir, lang, errMsg sql.NullString
	var durationMS int64
	if err := row.Scan(&r.RunID, &r.RunUUID, &r.CreatedAt, &r.InputPath, &hash, &r.SizeBytes,
		&r.SegmentCount, &r.WorkerCount, &dir, &lang, &r.Status, &errMsg, &r.TotalWords,
		&r.DistinctWords, &durationMS); err != nil {
		return nil, err
	}
	r.ContentHash = hash.String
	r.IntermediateDir = dir.String
	r.Language = lang.String
	r.ErrorMessage = errMsg.String
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return &r, nil
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	run, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LatestRunID returns the most recent run id.
func (db *DB) LatestRunID() (int64, error) {
	var runID int64
	err := db.QueryRow(`SELECT run_id FROM runs ORDER BY run_id DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no runs recorded", ErrRunNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return runID, nil
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, run_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// FindRunsByHash returns successful runs over identical content, newest first.
func (db *DB) FindRunsByHash(contentHash string) ([]Run, error) {
	rows, err := db.Query(`SELECT `+runColumns+` FROM runs
		WHERE content_hash = ? AND status = ?
		ORDER BY run_id DESC`, contentHash, StatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("failed to find runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRunSegments retrieves a run's segments in index order.
func (db *DB) GetRunSegments(runID int64) ([]Segment, error) {
	rows, err := db.Query(`
		SELECT segment_index, start_offset, end_offset, word_count, distinct_count, artifact_path
		FROM run_segments
		WHERE run_id = ?
		ORDER BY segment_index
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run segments: %w", err)
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		var s Segment
		var artifact sql.NullString
		if err := rows.Scan(&s.Index, &s.Start, &s.End, &s.WordCount, &s.DistinctCount, &artifact); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		s.ArtifactPath = artifact.String
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

// GetRunKeywords retrieves a run's stored keywords in rank order.
func (db *DB) GetRunKeywords(runID int64) ([]Keyword, error) {
	rows, err := db.Query(`
		SELECT word_rank, word, occurrences FROM run_keywords
		WHERE run_id = ?
		ORDER BY word_rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run keywords: %w", err)
	}
	defer rows.Close()

	var keywords []Keyword
	for rows.Next() {
		var k Keyword
		if err := rows.Scan(&k.Rank, &k.Word, &k.Count); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

// NewNullString converts empty strings to SQL NULL.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
