package mapreduce

import (
	"fmt"
	"io"
	"sort"

	"github.com/dtnitsch/wordfreq/models"
)

// Rank sorts word counts by count (descending), breaking ties by word (ascending).
func Rank(wordCounts models.FrequencyMap) []models.RankedEntry {
	ranked := make([]models.RankedEntry, 0, len(wordCounts))
	for w, c := range wordCounts {
		ranked = append(ranked, models.RankedEntry{Word: w, Count: c})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	return ranked
}

// Limit returns at most n entries; n <= 0 keeps everything.
func Limit(ranked []models.RankedEntry, n int) []models.RankedEntry {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// TopKeywords returns the top N keywords from aggregated word counts as formatted strings.
// Each string is formatted as "word:count" (e.g., "learning:1153").
func TopKeywords(wordCounts models.FrequencyMap, n int) []string {
	top := Limit(Rank(wordCounts), n)

	keywords := make([]string, len(top))
	for i, e := range top {
		keywords[i] = fmt.Sprintf("%s:%d", e.Word, e.Count)
	}
	return keywords
}

// WriteRanked writes one "word\tcount" line per entry.
func WriteRanked(w io.Writer, ranked []models.RankedEntry) error {
	for _, e := range ranked {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", e.Word, e.Count); err != nil {
			return err
		}
	}
	return nil
}
