package mapreduce

import (
	"context"
	"fmt"
	"io"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/tokenizer"
)

// cancelCheckEvery is how many words Map counts between context checks.
const cancelCheckEvery = 4096

// Map generates a word frequency map for a single byte range of r.
// The range must come from segment.Plan; word safety is not re-checked here.
func Map(ctx context.Context, r io.ReaderAt, rng models.ByteRange, class tokenizer.Class) (models.FrequencyMap, error) {
	counts := make(models.FrequencyMap)
	if rng.Empty() {
		return counts, nil
	}

	section := io.NewSectionReader(r, rng.Start, rng.Len())
	s := class.Scanner(section, int(rng.Len())+1)

	seen := 0
	for s.Scan() {
		counts[tokenizer.Normalize(s.Bytes())]++
		seen++
		if seen%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading range %s: %w", models.ErrIO, rng, err)
	}

	return counts, nil
}

// MapText counts the words of an in-memory text in a single pass.
func MapText(text []byte, class tokenizer.Class) models.FrequencyMap {
	counts := make(models.FrequencyMap)
	for w := range class.Words(text) {
		counts[w]++
	}
	return counts
}

// Reduce aggregates a slice of word frequency maps into a single map.
// The result depends only on the set of maps, not their order.
func Reduce(intermediate []models.FrequencyMap) models.FrequencyMap {
	finalResults := make(models.FrequencyMap)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
