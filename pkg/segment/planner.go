// Package segment plans word-safe byte ranges over a file.
package segment

import (
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/tokenizer"
)

const peekSize = 4096

// Plan splits [0, size) into n contiguous ranges whose interior boundaries
// never fall inside a word. Each interior boundary starts at floor(size*i/n),
// moves past the end of the word it lands in, then past the separators that
// follow, so the next range begins on a word byte or at size.
//
// Boundaries never move backwards; when an earlier boundary already passed a
// later naive one, the later range is empty. An empty file yields n empty ranges.
func Plan(r io.ReaderAt, size int64, n int, class tokenizer.Class) ([]models.ByteRange, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: segment count must be > 0, got %d", models.ErrInvalidArgument, n)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative file size %d", models.ErrInvalidArgument, size)
	}

	bounds := make([]int64, n+1)
	bounds[n] = size
	p := &peeker{r: r, buf: make([]byte, peekSize)}

	for i := 1; i < n; i++ {
		b := naiveBoundary(size, i, n)
		prev := bounds[i-1]
		if b <= prev {
			bounds[i] = prev
			continue
		}

		adjusted, err := p.skip(b, size, class, true)
		if err != nil {
			return nil, err
		}
		adjusted, err = p.skip(adjusted, size, class, false)
		if err != nil {
			return nil, err
		}
		bounds[i] = adjusted
	}

	ranges := make([]models.ByteRange, n)
	for i := range ranges {
		ranges[i] = models.ByteRange{Start: bounds[i], End: bounds[i+1]}
	}
	return ranges, nil
}

// Verify checks that ranges tile [0, size) exactly.
func Verify(ranges []models.ByteRange, size int64) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%w: no ranges planned", models.ErrInvariantViolation)
	}
	if ranges[0].Start != 0 {
		return fmt.Errorf("%w: first range starts at %d", models.ErrInvariantViolation, ranges[0].Start)
	}
	for i, rng := range ranges {
		if rng.Start > rng.End {
			return fmt.Errorf("%w: range %d %s is inverted", models.ErrInvariantViolation, i, rng)
		}
		if i > 0 && rng.Start != ranges[i-1].End {
			return fmt.Errorf("%w: range %d %s does not follow %s", models.ErrInvariantViolation, i, rng, ranges[i-1])
		}
	}
	if last := ranges[len(ranges)-1]; last.End != size {
		return fmt.Errorf("%w: last range ends at %d, file size is %d", models.ErrInvariantViolation, last.End, size)
	}
	return nil
}

// naiveBoundary returns floor(size*i/n) without overflowing int64.
func naiveBoundary(size int64, i, n int) int64 {
	hi, lo := bits.Mul64(uint64(size), uint64(i))
	q, _ := bits.Div64(hi, lo, uint64(n))
	return int64(q)
}

// peeker reads single bytes from a ReaderAt through a small window.
type peeker struct {
	r      io.ReaderAt
	buf    []byte
	start  int64
	filled int
}

func (p *peeker) byteAt(off int64) (byte, error) {
	if off >= p.start && off < p.start+int64(p.filled) {
		return p.buf[off-p.start], nil
	}
	n, err := p.r.ReadAt(p.buf, off)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("%w: reading byte at offset %d: %w", models.ErrIO, off, err)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: reading byte at offset %d: %w", models.ErrIO, off, err)
	}
	p.start, p.filled = off, n
	return p.buf[0], nil
}

// skip advances off while the byte there is (word == true) or is not
// (word == false) a word byte, stopping at size.
func (p *peeker) skip(off, size int64, class tokenizer.Class, word bool) (int64, error) {
	for off < size {
		b, err := p.byteAt(off)
		if err != nil {
			return 0, err
		}
		if class.IsWord(b) != word {
			break
		}
		off++
	}
	return off, nil
}
