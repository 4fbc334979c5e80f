package count

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/wordfreq/internal/common"
	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/analytics"
	"github.com/dtnitsch/wordfreq/pkg/detector"
	"github.com/dtnitsch/wordfreq/pkg/manifest"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/segment"
	"github.com/dtnitsch/wordfreq/pkg/storage"
	"github.com/dtnitsch/wordfreq/pkg/tokenizer"
)

// OpenInput opens path read-only and returns the file with its size.
func OpenInput(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", models.ErrFileNotFound, path)
		}
		return nil, 0, fmt.Errorf("%w: opening %s: %w", models.ErrIO, path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%w: stat %s: %w", models.ErrIO, path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%w: %s is a directory", models.ErrInvalidArgument, path)
	}
	return f, info.Size(), nil
}

// WordClass returns the tokenizer class for a configuration.
func WordClass(config *models.RunConfig) tokenizer.Class {
	return tokenizer.NewClass("'" + config.WordChars)
}

// Run plans the input file, counts every segment concurrently, and merges the
// results. Any failing segment aborts the whole run and no result is returned.
func Run(ctx context.Context, logger *slog.Logger, config *models.RunConfig, runID string) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	f, size, err := OpenInput(config.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	class := WordClass(config)
	ranges, err := segment.Plan(f, size, config.Segments, class)
	if err != nil {
		return nil, err
	}
	if err := segment.Verify(ranges, size); err != nil {
		return nil, err
	}
	logger.Info("Planned segments", "file", config.File, "size_bytes", size, "segments", len(ranges))
	for i, rng := range ranges {
		logger.Debug("Segment", "segment", i, "start", rng.Start, "end", rng.End, "length", rng.Len())
	}

	var store *storage.Storage
	if config.IntermediateDir != "" {
		store, err = storage.New(config.IntermediateDir)
		if err != nil {
			return nil, err
		}
	}

	segments, err := countSegments(ctx, logger, f, ranges, class, store, config.WorkerCount)
	if err != nil {
		return nil, err
	}

	maps := make([]models.FrequencyMap, len(segments))
	for i, s := range segments {
		maps[i] = s.Counts
	}
	global := mapreduce.Reduce(maps)

	a := &analytics.Analytics{ExcludeStopwords: config.ExcludeStopwords}
	result := &Result{
		RunID:     runID,
		File:      config.File,
		SizeBytes: size,
		Ranges:    ranges,
		Segments:  segments,
		Global:    global,
		Ranked:    mapreduce.Limit(a.Ranked(global), config.TopN),
		Stats:     a.Summarize(global),
	}
	logger.Info("Reduce phase complete", "total_words", result.Stats.TotalWords, "distinct_words", result.Stats.DistinctWords)

	if store != nil || config.HistoryDB != "" {
		result.ContentHash, err = common.ReaderHash(io.NewSectionReader(f, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: hashing %s: %w", models.ErrIO, config.File, err)
		}
	}

	if config.DetectLanguage {
		result.Language, err = detector.New().DetectFile(f, size)
		if err != nil {
			return nil, err
		}
		logger.Info("Detected language", "language", result.Language)
	}

	if store != nil {
		result.SummaryPath, err = manifest.GenerateSummary(manifest.Input{
			RunID:       runID,
			InputFile:   config.File,
			SizeBytes:   size,
			ContentHash: result.ContentHash,
			Language:    result.Language,
			Segments:    segments,
			Global:      global,
			TopN:        config.TopN,
		}, a, store)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// countSegments runs one worker per range and waits for all of them.
// workers > 0 caps how many run at once. Each worker writes only its own slot.
func countSegments(ctx context.Context, logger *slog.Logger, r io.ReaderAt, ranges []models.ByteRange, class tokenizer.Class, store *storage.Storage, workers int) ([]manifest.SegmentResult, error) {
	results := make([]manifest.SegmentResult, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, rng := range ranges {
		g.Go(func() error {
			logger.Debug("Worker started segment", "segment", i, "start", rng.Start, "end", rng.End)

			counts, err := mapreduce.Map(gctx, r, rng, class)
			if err != nil {
				logger.Error("Error counting segment", "segment", i, "error", err)
				return fmt.Errorf("segment %d %s: %w", i, rng, err)
			}

			res := manifest.SegmentResult{Index: i, Range: rng, Counts: counts}
			if store != nil {
				res.Artifact, err = store.SaveSegment(i, counts)
				if err != nil {
					logger.Error("Error saving segment artifact", "segment", i, "error", err)
					return fmt.Errorf("segment %d: %w", i, err)
				}
			}
			results[i] = res

			logger.Debug("Worker finished segment", "segment", i, "words", counts.Total(), "distinct", len(counts))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("All segment workers finished", "segments", len(ranges))
	return results, nil
}
