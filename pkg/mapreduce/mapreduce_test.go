package mapreduce

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/segment"
	"github.com/dtnitsch/wordfreq/pkg/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const catText = "The cat sat. The CAT sat on the mat!"

// countSegments plans n ranges over data and reduces their maps.
func countSegments(t require.TestingT, data []byte, n int) models.FrequencyMap {
	class := tokenizer.Default()
	r := bytes.NewReader(data)

	ranges, err := segment.Plan(r, int64(len(data)), n, class)
	require.NoError(t, err)

	maps := make([]models.FrequencyMap, len(ranges))
	for i, rng := range ranges {
		maps[i], err = Map(context.Background(), r, rng, class)
		require.NoError(t, err)
	}
	return Reduce(maps)
}

func TestMap(t *testing.T) {
	class := tokenizer.Default()
	r := strings.NewReader(catText)

	tests := []struct {
		name string
		rng  models.ByteRange
		want models.FrequencyMap
	}{
		{name: "first half", rng: models.ByteRange{Start: 0, End: 21}, want: models.FrequencyMap{"the": 2, "cat": 2, "sat": 1}},
		{name: "second half", rng: models.ByteRange{Start: 21, End: 36}, want: models.FrequencyMap{"sat": 1, "on": 1, "the": 1, "mat": 1}},
		{name: "empty range", rng: models.ByteRange{Start: 21, End: 21}, want: models.FrequencyMap{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Map(context.Background(), r, tt.rng, class)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type failingReader struct{}

func (failingReader) ReadAt(p []byte, off int64) (int, error) {
	return 0, errors.New("bad sector")
}

func TestMap_ReadError(t *testing.T) {
	_, err := Map(context.Background(), failingReader{}, models.ByteRange{Start: 0, End: 10}, tokenizer.Default())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrIO))
}

func TestMap_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := []byte(strings.Repeat("word ", cancelCheckEvery*2))
	_, err := Map(ctx, bytes.NewReader(data), models.ByteRange{Start: 0, End: int64(len(data))}, tokenizer.Default())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReduce(t *testing.T) {
	got := Reduce([]models.FrequencyMap{
		{"the": 2, "cat": 2, "sat": 1},
		nil,
		{},
		{"sat": 1, "on": 1, "the": 1, "mat": 1},
	})
	assert.Equal(t, models.FrequencyMap{"the": 3, "cat": 2, "sat": 2, "on": 1, "mat": 1}, got)
	assert.Equal(t, 9, got.Total())
}

func TestCatScenario(t *testing.T) {
	got := countSegments(t, []byte(catText), 2)
	assert.Equal(t, models.FrequencyMap{"the": 3, "cat": 2, "sat": 2, "on": 1, "mat": 1}, got)

	assert.Equal(t, []models.RankedEntry{
		{Word: "the", Count: 3},
		{Word: "cat", Count: 2},
		{Word: "sat", Count: 2},
		{Word: "mat", Count: 1},
		{Word: "on", Count: 1},
	}, Rank(got))
}

func TestEmptyFile(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		got := countSegments(t, nil, n)
		assert.Empty(t, got)
		assert.Empty(t, Rank(got))
	}
}

func TestSingleSegmentMatchesWholeFile(t *testing.T) {
	data := []byte("It's a truth universally acknowledged, that a single man...\nIT'S true.")
	assert.Equal(t, MapText(data, tokenizer.Default()), countSegments(t, data, 1))
}

func TestMergeEquivalence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.SampledFrom([]byte("aBc9' \n.-\xc3"))).Draw(t, "text")
		n := rapid.IntRange(1, 32).Draw(t, "n")

		want := MapText(data, tokenizer.Default())
		assert.Equal(t, want, countSegments(t, data, n))
	})
}

func TestReduce_OrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[a-d]{1,2}`)
		freq := rapid.MapOf(word, rapid.IntRange(1, 50))
		maps := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) models.FrequencyMap {
			return models.FrequencyMap(freq.Draw(t, "map"))
		}), 0, 8).Draw(t, "maps")

		perm := rapid.Permutation(maps).Draw(t, "perm")
		assert.Equal(t, Reduce(maps), Reduce(perm))
	})
}
