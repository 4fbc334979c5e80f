package manifest

import (
	"github.com/dtnitsch/wordfreq/pkg/analytics"
)

// FileName is the summary written next to the segment artifacts.
const FileName = "summary.yaml"

// RunSummary represents the structure of the summary YAML file.
// It gives a lightweight overview of a run without reading every artifact.
type RunSummary struct {
	RunID       string           `yaml:"run_id"`
	GeneratedAt string           `yaml:"generated_at"`
	InputFile   string           `yaml:"input_file"`
	SizeBytes   int64            `yaml:"size_bytes"`
	Size        string           `yaml:"size"`
	ContentHash string           `yaml:"content_hash"`
	Language    string           `yaml:"language,omitempty"`
	Stats       analytics.Stats  `yaml:"stats"`
	TopKeywords []string         `yaml:"top_keywords"`
	Segments    []SegmentSummary `yaml:"segments"`
}

// SegmentSummary represents one planned segment and its local counts.
type SegmentSummary struct {
	Index         int    `yaml:"index"`
	Start         int64  `yaml:"start"`
	End           int64  `yaml:"end"`
	Words         int    `yaml:"words"`
	DistinctWords int    `yaml:"distinct_words"`
	Artifact      string `yaml:"artifact,omitempty"`
}
