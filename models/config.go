// Package models defines the run configuration.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for a counting run. Values come from an
// optional YAML file and are overridden by CLI flags.
type Config struct {
	Mode           string        `yaml:"mode"`
	VocabularyFile string        `yaml:"vocabulary_file"`
	Workers        int           `yaml:"workers"`
	Partitions     int           `yaml:"partitions"`
	ChunkLines     int           `yaml:"chunk_lines"`
	TempDir        string        `yaml:"temp_dir"`
	CacheDir       string        `yaml:"cache_dir"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	DBPath         string        `yaml:"db_path"`
	Output         string        `yaml:"output"`
	Manifest       string        `yaml:"manifest"`
	Top            int           `yaml:"top"`
	EnglishOnly    bool          `yaml:"english_only"`
	Stem           bool          `yaml:"stem"`
	Boundaries     bool          `yaml:"boundaries"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Mode:       "unigram",
		Workers:    4,
		Partitions: 4,
		ChunkLines: 1 << 20,
		CacheTTL:   24 * time.Hour,
		Top:        25,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Mode {
	case "", "unigram", "dimensional":
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Partitions < 1 {
		return fmt.Errorf("partitions must be at least 1, got %d", c.Partitions)
	}
	if c.Top < 0 {
		return fmt.Errorf("top must not be negative, got %d", c.Top)
	}
	return nil
}
