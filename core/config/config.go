// Package config loads engine configuration from YAML with sensible
// defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration.
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Vector     VectorConfig     `yaml:"vector"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Query      QueryConfig      `yaml:"query"`
}

// ExtractionConfig controls file discovery and the extraction worker pool.
type ExtractionConfig struct {
	// Extensions is the file extension allow-list. Empty means every
	// extension with registered language rules.
	Extensions []string `yaml:"extensions"`

	// ExcludePatterns are glob patterns for paths to skip.
	ExcludePatterns []string `yaml:"exclude_patterns"`

	// MaxFileSize is the largest file read, in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`

	// Workers bounds the per-file extraction pool. Zero means NumCPU.
	Workers int `yaml:"workers"`
}

// VectorConfig controls the semantic vectorizer.
type VectorConfig struct {
	// Dimension is the fixed vector dimensionality.
	Dimension int `yaml:"dimension"`

	// CacheMaxCost bounds the vector cache, in bytes.
	CacheMaxCost int64 `yaml:"cache_max_cost"`
}

// SimilarityConfig controls similarity edge discovery.
type SimilarityConfig struct {
	// Threshold is the cosine similarity above which similar_to edges
	// are created.
	Threshold float64 `yaml:"threshold"`
}

// QueryConfig controls query ranking.
type QueryConfig struct {
	// SimilarityFloor discards results below this similarity.
	SimilarityFloor float64 `yaml:"similarity_floor"`

	// MaxResults caps the ranked result set.
	MaxResults int `yaml:"max_results"`

	// CacheSize bounds the query result cache.
	CacheSize int `yaml:"cache_size"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			MaxFileSize: 10 * 1024 * 1024,
		},
		Vector: VectorConfig{
			Dimension: 100,
		},
		Similarity: SimilarityConfig{
			Threshold: 0.7,
		},
		Query: QueryConfig{
			SimilarityFloor: 0.3,
			MaxResults:      20,
			CacheSize:       256,
		},
	}
}

// Load reads a YAML config file, overlaying it on the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
