package analytics

import (
	"strings"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
)

// Analytics derives presentation views from a merged frequency map.
// It never changes the merged counts themselves.
type Analytics struct {
	ExcludeStopwords bool
}

// commonWords is a map of frequently occurring words that can be hidden from ranked views.
var commonWords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {}, "and": {},
	"any": {}, "are": {}, "aren't": {}, "as": {}, "at": {},

	"be": {}, "because": {}, "been": {}, "before": {}, "being": {}, "between": {},
	"both": {}, "but": {}, "by": {},

	"can": {}, "can't": {}, "could": {}, "couldn't": {},

	"did": {}, "didn't": {}, "do": {}, "does": {}, "doesn't": {}, "don't": {},

	"each": {}, "for": {}, "from": {},

	"had": {}, "has": {}, "have": {}, "he": {}, "he's": {}, "her": {}, "here": {},
	"him": {}, "his": {}, "how": {},

	"i": {}, "i'm": {}, "if": {}, "in": {}, "into": {}, "is": {}, "isn't": {},
	"it": {}, "it's": {}, "its": {},

	"me": {}, "more": {}, "most": {}, "my": {},

	"no": {}, "nor": {}, "not": {}, "now": {},

	"of": {}, "on": {}, "once": {}, "only": {}, "or": {}, "other": {}, "our": {},
	"out": {}, "over": {}, "own": {},

	"same": {}, "she": {}, "she's": {}, "should": {}, "so": {}, "some": {}, "such": {},

	"than": {}, "that": {}, "that's": {}, "the": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"through": {}, "to": {}, "too": {},

	"under": {}, "until": {}, "up": {}, "us": {},

	"very": {},

	"was": {}, "wasn't": {}, "we": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "who": {}, "whom": {}, "why": {},
	"will": {}, "with": {}, "won't": {}, "would": {},

	"you": {}, "you're": {}, "your": {}, "yours": {},
}

// IsStopword checks if a word is a common stopword.
func IsStopword(word string) bool {
	_, exists := commonWords[strings.ToLower(word)]
	return exists
}

// Ranked returns the ranked view of counts, dropping stopwords when configured.
func (a *Analytics) Ranked(counts models.FrequencyMap) []models.RankedEntry {
	ranked := mapreduce.Rank(counts)
	if !a.ExcludeStopwords {
		return ranked
	}

	kept := ranked[:0]
	for _, e := range ranked {
		if !IsStopword(e.Word) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Stats summarizes a merged map.
type Stats struct {
	TotalWords    int `yaml:"total_words" json:"total_words"`
	DistinctWords int `yaml:"distinct_words" json:"distinct_words"`
	Hapaxes       int `yaml:"hapaxes" json:"hapaxes"`
}

// Summarize computes word totals for counts.
func (a *Analytics) Summarize(counts models.FrequencyMap) Stats {
	s := Stats{DistinctWords: len(counts)}
	for _, c := range counts {
		s.TotalWords += c
		if c == 1 {
			s.Hapaxes++
		}
	}
	return s
}
