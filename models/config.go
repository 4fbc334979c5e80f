// Package models defines data structures for configuration and segment counting.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig holds runtime configuration for a counting run.
// Values come from an optional YAML file and are overridden by CLI flags.
type RunConfig struct {
	File             string `yaml:"file"`
	Segments         int    `yaml:"segments"`
	WorkerCount      int    `yaml:"workers"`
	IntermediateDir  string `yaml:"intermediate_dir"`
	TopN             int    `yaml:"top"`
	ExcludeStopwords bool   `yaml:"exclude_stopwords"`
	DetectLanguage   bool   `yaml:"detect_language"`
	HistoryDB        string `yaml:"history_db"`
	WordChars        string `yaml:"extra_word_chars"`
}

// LoadConfig reads a YAML run configuration from path.
func LoadConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the values that must hold before any file is touched.
func (c *RunConfig) Validate() error {
	if c.File == "" {
		return fmt.Errorf("%w: no input file provided", ErrInvalidArgument)
	}
	if c.Segments <= 0 {
		return fmt.Errorf("%w: segment count must be > 0, got %d", ErrInvalidArgument, c.Segments)
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("%w: worker count must be >= 0, got %d", ErrInvalidArgument, c.WorkerCount)
	}
	if c.TopN < 0 {
		return fmt.Errorf("%w: top must be >= 0, got %d", ErrInvalidArgument, c.TopN)
	}
	return nil
}
