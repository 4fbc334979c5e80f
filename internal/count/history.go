package count

import (
	"log/slog"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
)

// historyKeywords is how many ranked words are stored per run.
const historyKeywords = 25

// recordHistory stores the run in the history database. Failures are logged,
// never returned: history is a side channel and must not change the run outcome.
func recordHistory(logger *slog.Logger, database *db.DB, config *models.RunConfig, runID string, result *Result, runErr error, elapsed time.Duration) {
	run := db.Run{
		RunUUID:         runID,
		InputPath:       config.File,
		SegmentCount:    config.Segments,
		WorkerCount:     config.WorkerCount,
		IntermediateDir: config.IntermediateDir,
	}
	if result != nil {
		run.SizeBytes = result.SizeBytes
		run.ContentHash = result.ContentHash
		run.Language = result.Language
	}

	id, err := database.CreateRun(run)
	if err != nil {
		logger.Warn("Failed to record run", "run_id", runID, "error", err)
		return
	}

	if runErr != nil {
		if err := database.FailRun(id, runErr, elapsed); err != nil {
			logger.Warn("Failed to record run failure", "run_id", runID, "error", err)
		}
		return
	}

	segments := make([]db.Segment, len(result.Segments))
	for i, s := range result.Segments {
		segments[i] = db.Segment{
			Index:         s.Index,
			Start:         s.Range.Start,
			End:           s.Range.End,
			WordCount:     s.Counts.Total(),
			DistinctCount: len(s.Counts),
			ArtifactPath:  s.Artifact,
		}
	}

	top := mapreduce.Limit(mapreduce.Rank(result.Global), historyKeywords)
	keywords := make([]db.Keyword, len(top))
	for i, e := range top {
		keywords[i] = db.Keyword{Rank: i + 1, Word: e.Word, Count: e.Count}
	}

	if err := database.CompleteRun(id, segments, keywords, result.Stats.TotalWords, result.Stats.DistinctWords, elapsed); err != nil {
		logger.Warn("Failed to record run results", "run_id", runID, "error", err)
		return
	}
	logger.Info("Run recorded", "run_id", runID, "history_id", id, "db", database.Path())
}

// previousRuns logs earlier successful runs over the same content.
func previousRuns(logger *slog.Logger, database *db.DB, contentHash string) {
	if contentHash == "" {
		return
	}
	runs, err := database.FindRunsByHash(contentHash)
	if err != nil {
		logger.Warn("Failed to look up previous runs", "error", err)
		return
	}
	if len(runs) > 0 {
		logger.Info("Content counted before", "previous_runs", len(runs), "latest_history_id", runs[0].RunID)
	}
}
