package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/analytics"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/storage"
)

// SegmentResult is the outcome of one segment worker.
type SegmentResult struct {
	Index    int
	Range    models.ByteRange
	Counts   models.FrequencyMap
	Artifact string
}

// Input carries everything a summary is built from.
type Input struct {
	RunID       string
	InputFile   string
	SizeBytes   int64
	ContentHash string
	Language    string
	Segments    []SegmentResult
	Global      models.FrequencyMap
	TopN        int
}

// Build assembles a RunSummary.
func Build(in Input, a *analytics.Analytics) RunSummary {
	top := in.TopN
	if top <= 0 {
		top = 25
	}

	summary := RunSummary{
		RunID:       in.RunID,
		GeneratedAt: time.Now().Format(time.RFC3339),
		InputFile:   in.InputFile,
		SizeBytes:   in.SizeBytes,
		Size:        humanize.Bytes(uint64(in.SizeBytes)),
		ContentHash: in.ContentHash,
		Language:    in.Language,
		Stats:       a.Summarize(in.Global),
		TopKeywords: mapreduce.TopKeywords(in.Global, top),
		Segments:    make([]SegmentSummary, len(in.Segments)),
	}

	for i, seg := range in.Segments {
		summary.Segments[i] = SegmentSummary{
			Index:         seg.Index,
			Start:         seg.Range.Start,
			End:           seg.Range.End,
			Words:         seg.Counts.Total(),
			DistinctWords: len(seg.Counts),
			Artifact:      seg.Artifact,
		}
	}

	return summary
}

// GenerateSummary writes summary.yaml into the storage directory.
// Returns the path to the generated manifest file.
func GenerateSummary(in Input, a *analytics.Analytics, s *storage.Storage) (string, error) {
	data, err := yaml.Marshal(Build(in, a))
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}

	path := filepath.Join(s.Dir(), FileName)
	if err := s.SaveFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReadSummary loads a summary.yaml file.
func ReadSummary(path string) (*RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrIO, err)
	}

	var summary RunSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary %s: %w", path, err)
	}
	return &summary, nil
}
