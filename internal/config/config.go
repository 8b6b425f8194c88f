package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the historical behaviour of the splitter.
const (
	DefaultInputPath     = "audiofile.wav"
	DefaultChunkDuration = 600.0 // seconds
	DefaultOutputDir     = "audio_chunks"
	DefaultPrefix        = "audiofile_part"
)

// Config represents the complete splitter configuration
type Config struct {
	Split   SplitConfig   `yaml:"split"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SplitConfig contains the split operation parameters
type SplitConfig struct {
	InputPath     string  `yaml:"input_path"`
	ChunkDuration float64 `yaml:"chunk_duration"` // seconds
	OutputDir     string  `yaml:"output_dir"`
	Prefix        string  `yaml:"prefix"`
	PacketFrames  int     `yaml:"packet_frames"`
	DryRun        bool    `yaml:"dry_run"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig contains metrics export configuration
type MetricsConfig struct {
	// TextfilePath receives the metrics in the Prometheus text format once
	// the split is done. Empty disables the export.
	TextfilePath string `yaml:"textfile_path"`
}

// Default returns the configuration used when no file is provided
func Default() *Config {
	return &Config{
		Split: SplitConfig{
			InputPath:     DefaultInputPath,
			ChunkDuration: DefaultChunkDuration,
			OutputDir:     DefaultOutputDir,
			Prefix:        DefaultPrefix,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads and parses the configuration file. Missing keys keep their
// default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.Split.Validate(); err != nil {
		return fmt.Errorf("split config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates split configuration
func (s *SplitConfig) Validate() error {
	if s.InputPath == "" {
		return fmt.Errorf("input_path cannot be empty")
	}

	if s.ChunkDuration <= 0 {
		return fmt.Errorf("chunk_duration must be positive, got %f", s.ChunkDuration)
	}

	if s.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	if s.PacketFrames < 0 {
		return fmt.Errorf("packet_frames cannot be negative, got %d", s.PacketFrames)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetChunkDuration returns the chunk duration as a time.Duration, rounded
// to the nanosecond
func (s *SplitConfig) GetChunkDuration() time.Duration {
	return time.Duration(math.Round(s.ChunkDuration * float64(time.Second)))
}

// SetChunkDuration stores d as seconds
func (s *SplitConfig) SetChunkDuration(d time.Duration) {
	s.ChunkDuration = d.Seconds()
}
