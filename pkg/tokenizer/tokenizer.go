// Package tokenizer splits raw bytes into lower-cased words.
//
// A word is a maximal run of bytes belonging to a Class. The default class is
// ASCII letters, ASCII digits and the apostrophe. Every other byte, including
// the bytes of multi-byte UTF-8 sequences, is a separator.
package tokenizer

import (
	"bufio"
	"io"
	"iter"
)

// Class is an immutable set of word bytes. The zero value matches nothing.
type Class struct {
	table [256]bool
}

// Default returns the ASCII letter, digit and apostrophe class.
func Default() Class {
	return NewClass("'")
}

// NewClass returns the ASCII alphanumeric class extended with the bytes in extra.
func NewClass(extra string) Class {
	var c Class
	for b := 'a'; b <= 'z'; b++ {
		c.table[b] = true
		c.table[b-'a'+'A'] = true
	}
	for b := '0'; b <= '9'; b++ {
		c.table[b] = true
	}
	for i := 0; i < len(extra); i++ {
		c.table[extra[i]] = true
	}
	return c
}

// IsWord reports whether b is a word byte.
func (c Class) IsWord(b byte) bool {
	return c.table[b]
}

// Words yields the words of text in order of appearance.
func (c Class) Words(text []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < len(text); {
			if !c.table[text[i]] {
				i++
				continue
			}
			j := i
			for j < len(text) && c.table[text[j]] {
				j++
			}
			if !yield(lower(text[i:j])) {
				return
			}
			i = j
		}
	}
}

// Split is a bufio.SplitFunc emitting one raw (not lower-cased) word per token.
func (c Class) Split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && !c.table[data[start]] {
		start++
	}
	for i := start; i < len(data); i++ {
		if !c.table[data[i]] {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	// Drop leading separators and ask for more data.
	return start, nil, nil
}

// Scanner returns a scanner over r whose tokens are words. maxToken bounds the
// longest word the scanner accepts; it is raised to bufio.MaxScanTokenSize.
func (c Class) Scanner(r io.Reader, maxToken int) *bufio.Scanner {
	if maxToken < bufio.MaxScanTokenSize {
		maxToken = bufio.MaxScanTokenSize
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxToken)
	s.Split(c.Split)
	return s
}

// Normalize lower-cases an ASCII word. Non-ASCII bytes are left untouched.
func Normalize(word []byte) string {
	return lower(word)
}

func lower(word []byte) string {
	for _, b := range word {
		if 'A' <= b && b <= 'Z' {
			buf := make([]byte, len(word))
			for i, b := range word {
				if 'A' <= b && b <= 'Z' {
					b += 'a' - 'A'
				}
				buf[i] = b
			}
			return string(buf)
		}
	}
	return string(word)
}
