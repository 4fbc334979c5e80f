// Package storage writes and reads per-segment word count artifacts.
package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
)

// DefaultDir is the intermediate directory used when none is configured.
const DefaultDir = "intermediate"

var artifactPattern = regexp.MustCompile(`^segment_(\d+)_counts\.txt$`)

// Storage owns an intermediate artifact directory.
type Storage struct {
	dir string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// New creates the directory if needed.
func New(dir string) (*Storage, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("%w: creating intermediate directory: %w", models.ErrIO, err)
	}
	return &Storage{dir: dir}, nil
}

// Open uses an existing directory without creating it.
func Open(dir string) (*Storage, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", models.ErrInvalidArgument, dir)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the artifact directory.
func (s *Storage) Dir() string {
	return s.dir
}

// SegmentPath returns the artifact path for segment index i.
// Example: intermediate/segment_3_counts.txt
func (s *Storage) SegmentPath(i int) string {
	return filepath.Join(s.dir, fmt.Sprintf("segment_%d_counts.txt", i))
}

// SaveSegment writes a segment's counts as "word\tcount" lines in rank order.
func (s *Storage) SaveSegment(i int, counts models.FrequencyMap) (string, error) {
	var buf bytes.Buffer
	if err := mapreduce.WriteRanked(&buf, mapreduce.Rank(counts)); err != nil {
		return "", fmt.Errorf("%w: formatting segment %d: %w", models.ErrIO, i, err)
	}

	path := s.SegmentPath(i)
	if err := s.SaveFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// SaveFile writes content to filePath.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("%w: error saving file: %w", models.ErrIO, err)
	}
	return nil
}

// ReadSegment parses an artifact written by SaveSegment.
func ReadSegment(path string) (models.FrequencyMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrIO, err)
	}
	defer f.Close()

	counts := make(models.FrequencyMap)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		word, num, ok := strings.Cut(text, "\t")
		if !ok || word == "" {
			return nil, fmt.Errorf("%w: %s:%d: malformed entry %q", models.ErrIO, path, line, text)
		}
		n, err := strconv.Atoi(num)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %s:%d: bad count %q", models.ErrIO, path, line, num)
		}
		counts[word] += n
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", models.ErrIO, path, err)
	}
	return counts, nil
}

// ListSegments returns the segment artifact paths in the directory, ordered by index.
func (s *Storage) ListSegments() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", models.ErrIO, s.dir, err)
	}

	type indexed struct {
		index int
		path  string
	}
	var found []indexed
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := artifactPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, indexed{index: idx, path: filepath.Join(s.dir, e.Name())})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].index < found[j].index
	})

	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.path
	}
	return paths, nil
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: error getting file stats: %w", models.ErrIO, err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}
