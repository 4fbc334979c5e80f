package count

import (
	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/analytics"
	"github.com/dtnitsch/wordfreq/pkg/manifest"
)

// Result holds the outcome of a complete counting run.
type Result struct {
	RunID       string
	File        string
	SizeBytes   int64
	ContentHash string
	Language    string
	Ranges      []models.ByteRange
	Segments    []manifest.SegmentResult
	Global      models.FrequencyMap
	Ranked      []models.RankedEntry
	Stats       analytics.Stats
	SummaryPath string
}
