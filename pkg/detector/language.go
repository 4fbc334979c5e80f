// Package detector guesses the natural language of an input file.
package detector

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/wordfreq/models"
)

// SampleSize is how many leading bytes of the input are inspected.
const SampleSize = 4096

// Unknown is reported when no language is detected with confidence.
const Unknown = "unknown"

var defaultLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
}

// Detector wraps a lingua detector restricted to a fixed language set.
type Detector struct {
	lingua lingua.LanguageDetector
}

// New builds a detector over the common European languages.
func New() *Detector {
	return &Detector{
		lingua: lingua.NewLanguageDetectorBuilder().
			FromLanguages(defaultLanguages...).
			Build(),
	}
}

// Detect returns the language name of text, or Unknown.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}
	lang, ok := d.lingua.DetectLanguageOf(text)
	if !ok {
		return Unknown
	}
	return strings.ToLower(lang.String())
}

// DetectFile inspects the first SampleSize bytes of r.
func (d *Detector) DetectFile(r io.ReaderAt, size int64) (string, error) {
	n := int64(SampleSize)
	if size < n {
		n = size
	}
	buf := make([]byte, n)
	read, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: reading language sample: %w", models.ErrIO, err)
	}
	buf = buf[:read]

	// Drop a multi-byte rune cut off by the sample end.
	for len(buf) > 0 && !utf8.Valid(buf) {
		buf = buf[:len(buf)-1]
	}
	return d.Detect(string(buf)), nil
}
