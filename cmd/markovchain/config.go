package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

const (
	tokenizerChars = "chars"
	tokenizerWords = "words"

	sourceFile   = "file"
	sourceSQLite = "sqlite"
)

// ModelConfig holds the settings of the trained model.
type ModelConfig struct {
	Order          int    `json:"order"`
	Tokenizer      string `json:"tokenizer"`
	SkipBlankLines bool   `json:"skip_blank_lines"`
}

// CorpusConfig holds the location of the training data.
type CorpusConfig struct {
	Source string `json:"source"`
	Path   string `json:"path"`
	Query  string `json:"query"`
}

// GenerateConfig holds settings for the generation loop.
type GenerateConfig struct {
	Count     int    `json:"count"`
	MaxLength int    `json:"max_length"`
	Seed      uint64 `json:"seed"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	LogLevel string          `json:"log_level"`
	Model    *ModelConfig    `json:"model_config"`
	Corpus   *CorpusConfig   `json:"corpus_config"`
	Generate *GenerateConfig `json:"generate_config"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Model: &ModelConfig{
			Order:     3,
			Tokenizer: tokenizerChars,
		},
		Corpus: &CorpusConfig{
			Source: sourceFile,
			Path:   "./wordlist.txt",
			Query:  "SELECT word FROM words ORDER BY rowid",
		},
		Generate: &GenerateConfig{
			Count:     10,
			MaxLength: 0,
			Seed:      0,
		},
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	// Initialize with default configurations
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Warn instead of failing, as the generator can still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		// For other errors (e.g., permission denied), return the error.
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal the JSON from the file into the config struct.
	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A file may be JSON null or omit whole sections; fall back to defaults.
	defaults := DefaultConfig()
	if config == nil {
		return defaults, nil
	}
	if config.Model == nil {
		config.Model = defaults.Model
	}
	if config.Corpus == nil {
		config.Corpus = defaults.Corpus
	}
	if config.Generate == nil {
		config.Generate = defaults.Generate
	}

	return config, nil
}

// Validate checks the configuration for values the generator cannot run with.
func (c *Config) Validate() error {
	if c.Model.Order < 0 {
		return fmt.Errorf("model order must not be negative, got %d", c.Model.Order)
	}
	switch c.Model.Tokenizer {
	case tokenizerChars, tokenizerWords:
	default:
		return fmt.Errorf("unknown tokenizer %q, expected %q or %q", c.Model.Tokenizer, tokenizerChars, tokenizerWords)
	}
	switch c.Corpus.Source {
	case sourceFile, sourceSQLite:
	default:
		return fmt.Errorf("unknown corpus source %q, expected %q or %q", c.Corpus.Source, sourceFile, sourceSQLite)
	}
	if c.Corpus.Path == "" {
		return fmt.Errorf("corpus path is required")
	}
	if c.Corpus.Source == sourceSQLite && c.Corpus.Query == "" {
		return fmt.Errorf("corpus query is required for the %q source", sourceSQLite)
	}
	if c.Generate.Count < 0 {
		return fmt.Errorf("generate count must not be negative, got %d", c.Generate.Count)
	}
	if c.Generate.MaxLength < 0 {
		return fmt.Errorf("generate max length must not be negative, got %d", c.Generate.MaxLength)
	}
	return nil
}

// parseLogLevel maps a config string to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
