package models

import "fmt"

// ByteRange is a half-open [Start, End) slice of the input file.
type ByteRange struct {
	Start int64 `yaml:"start" json:"start"`
	End   int64 `yaml:"end" json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() int64 {
	return r.End - r.Start
}

// Empty reports whether the range covers no bytes.
func (r ByteRange) Empty() bool {
	return r.Start == r.End
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// FrequencyMap maps a lower-cased word to its occurrence count.
type FrequencyMap map[string]int

// Total returns the sum of all counts.
func (m FrequencyMap) Total() int {
	total := 0
	for _, c := range m {
		total += c
	}
	return total
}

// RankedEntry is one line of the final sorted output.
type RankedEntry struct {
	Word  string `yaml:"word" json:"word"`
	Count int    `yaml:"count" json:"count"`
}

func (e RankedEntry) String() string {
	return fmt.Sprintf("%s\t%d", e.Word, e.Count)
}
