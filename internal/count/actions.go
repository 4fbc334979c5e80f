package count

import (
	"bufio"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wordfreq/internal/common"
	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/analytics"
	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/segment"
	"github.com/dtnitsch/wordfreq/pkg/storage"
)

// Exit codes: 1 for bad arguments, 2 for everything that failed at runtime.
const (
	exitUsage   = 1
	exitRuntime = 2
)

// ExitError maps an error to a cli exit error with the matching status.
func ExitError(err error) error {
	if err == nil {
		return nil
	}
	code := exitRuntime
	if errors.Is(err, models.ErrInvalidArgument) {
		code = exitUsage
	}
	return cli.Exit(fmt.Sprintf("Error: %s", err), code)
}

// ConfigFromFlags loads --config when given and lets explicitly set flags win.
func ConfigFromFlags(c *cli.Context) (*models.RunConfig, error) {
	config := &models.RunConfig{}
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrInvalidArgument, err)
		}
		config = loaded
	}

	if c.IsSet("file") || config.File == "" {
		config.File = c.String("file")
	}
	if c.IsSet("segments") || config.Segments == 0 {
		config.Segments = c.Int("segments")
	}
	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}
	if c.IsSet("intermediate-dir") || config.IntermediateDir == "" {
		config.IntermediateDir = c.String("intermediate-dir")
	}
	if c.IsSet("top") {
		config.TopN = c.Int("top")
	}
	if c.IsSet("exclude-stopwords") {
		config.ExcludeStopwords = c.Bool("exclude-stopwords")
	}
	if c.IsSet("detect-language") {
		config.DetectLanguage = c.Bool("detect-language")
	}
	if c.IsSet("history-db") {
		config.HistoryDB = c.String("history-db")
	}
	if c.IsSet("word-chars") {
		config.WordChars = c.String("word-chars")
	}
	return config, nil
}

func CountAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.Bool("verbose"))
	startTime := time.Now()

	config, err := ConfigFromFlags(c)
	if err != nil {
		return ExitError(err)
	}
	if err := config.Validate(); err != nil {
		return ExitError(err)
	}

	var database *db.DB
	if config.HistoryDB != "" {
		database, err = db.Open(config.HistoryDB)
		if err != nil {
			return ExitError(fmt.Errorf("%w: %w", models.ErrIO, err))
		}
		defer database.Close()
	}

	runID := uuid.NewString()
	logger.Info("Starting run", "run_id", runID, "file", config.File, "segments", config.Segments, "workers", config.WorkerCount)

	result, runErr := Run(c.Context, logger, config, runID)
	if database != nil {
		recordHistory(logger, database, config, runID, result, runErr, time.Since(startTime))
	}
	if runErr != nil {
		logger.Error("Run failed", "run_id", runID, "error", runErr)
		return ExitError(runErr)
	}
	if database != nil {
		previousRuns(logger, database, result.ContentHash)
	}

	if result.SummaryPath != "" {
		logger.Info("Intermediate per-segment outputs written", "dir", config.IntermediateDir, "summary", result.SummaryPath)
	}

	w := bufio.NewWriter(c.App.Writer)
	if err := mapreduce.WriteRanked(w, result.Ranked); err != nil {
		return ExitError(fmt.Errorf("%w: writing output: %w", models.ErrIO, err))
	}
	if err := w.Flush(); err != nil {
		return ExitError(fmt.Errorf("%w: writing output: %w", models.ErrIO, err))
	}

	logger.Info("Run finished", "run_id", runID, "elapsed", time.Since(startTime).String())
	return nil
}

// PlanAction prints the planned byte ranges without counting.
func PlanAction(c *cli.Context) error {
	config := &models.RunConfig{
		File:      c.String("file"),
		Segments:  c.Int("segments"),
		WordChars: c.String("word-chars"),
	}
	if err := config.Validate(); err != nil {
		return ExitError(err)
	}

	f, size, err := OpenInput(config.File)
	if err != nil {
		return ExitError(err)
	}
	defer f.Close()

	ranges, err := segment.Plan(f, size, config.Segments, WordClass(config))
	if err != nil {
		return ExitError(err)
	}
	if err := segment.Verify(ranges, size); err != nil {
		return ExitError(err)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "File size: %d bytes (%s)\n", size, humanize.Bytes(uint64(size)))
	fmt.Fprintf(out, "%-8s %-14s %-14s %-12s\n", "Segment", "Start", "End", "Length")
	for i, rng := range ranges {
		fmt.Fprintf(out, "%-8d %-14d %-14d %-12s\n", i, rng.Start, rng.End, humanize.Bytes(uint64(rng.Len())))
	}
	return nil
}

// MergeAction re-reduces the segment artifacts left in an intermediate directory.
func MergeAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.Bool("verbose"))

	store, err := storage.Open(c.String("dir"))
	if err != nil {
		return ExitError(err)
	}

	paths, err := store.ListSegments()
	if err != nil {
		return ExitError(err)
	}
	if len(paths) == 0 {
		return ExitError(fmt.Errorf("%w: no segment artifacts in %s", models.ErrFileNotFound, store.Dir()))
	}

	maps := make([]models.FrequencyMap, len(paths))
	for i, path := range paths {
		maps[i], err = storage.ReadSegment(path)
		if err != nil {
			return ExitError(err)
		}
		logger.Debug("Loaded segment artifact", "path", path, "distinct", len(maps[i]))
	}
	logger.Info("Merged segment artifacts", "dir", store.Dir(), "artifacts", len(paths))

	a := &analytics.Analytics{ExcludeStopwords: c.Bool("exclude-stopwords")}
	ranked := mapreduce.Limit(a.Ranked(mapreduce.Reduce(maps)), c.Int("top"))

	w := bufio.NewWriter(c.App.Writer)
	if err := mapreduce.WriteRanked(w, ranked); err != nil {
		return ExitError(fmt.Errorf("%w: writing output: %w", models.ErrIO, err))
	}
	return ExitError(w.Flush())
}
