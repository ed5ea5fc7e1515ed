// Package config loads and validates conversion settings from YAML.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/reflow/blocks"
	"github.com/tsawler/reflow/format"
	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/preview"
)

// Config holds all conversion settings. Zero values are filled in from
// Default when loading, so a partial file only overrides what it names.
type Config struct {
	Title   string        `yaml:"title"`
	Output  OutputConfig  `yaml:"output"`
	OCR     OCRConfig     `yaml:"ocr"`
	Layout  LayoutConfig  `yaml:"layout"`
	Blocks  BlocksConfig  `yaml:"blocks"`
	Preview PreviewConfig `yaml:"preview"`
	Log     LogConfig     `yaml:"log"`
}

// OutputConfig holds output target settings.
type OutputConfig struct {
	// Format names the output format, "html" or "epub".
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
	// Batch buffers the whole document and writes it at the end instead
	// of streaming pages as they finish.
	Batch bool `yaml:"batch"`
}

// OCRConfig holds text recognition settings.
type OCRConfig struct {
	// Languages lists tesseract language packs, for example "eng" or
	// "chi_sim".
	Languages []string `yaml:"languages"`
}

// LayoutConfig holds paragraph detection thresholds.
type LayoutConfig struct {
	GapFactor       float64 `yaml:"gap_factor"`
	MinGapTolerance float64 `yaml:"min_gap_tolerance"`
	IndentTolerance float64 `yaml:"indent_tolerance"`
	MinOverlapRatio float64 `yaml:"min_overlap_ratio"`
}

// BlocksConfig holds content classification thresholds.
type BlocksConfig struct {
	MinTextConfidence    float64 `yaml:"min_text_confidence"`
	MinFormulaConfidence float64 `yaml:"min_formula_confidence"`
}

// PreviewConfig holds preview server settings.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	lc := layout.DefaultParagraphConfig()
	bc := blocks.DefaultFactoryConfig()

	return &Config{
		Output: OutputConfig{
			Format: "html",
			Path:   "output.html",
		},
		OCR: OCRConfig{
			Languages: []string{"eng"},
		},
		Layout: LayoutConfig{
			GapFactor:       lc.GapFactor,
			MinGapTolerance: lc.MinGapTolerance,
			IndentTolerance: lc.IndentTolerance,
			MinOverlapRatio: lc.MinOverlapRatio,
		},
		Blocks: BlocksConfig{
			MinTextConfidence:    bc.MinTextConfidence,
			MinFormulaConfidence: bc.MinFormulaConfidence,
		},
		Preview: PreviewConfig{
			Port: preview.DefaultPort,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML configuration file over the defaults and validates
// the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := format.Parse(c.Output.Format); err != nil {
		return fmt.Errorf("config: output.format: %w", err)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("config: output.path must not be empty")
	}

	if c.Layout.GapFactor <= 0 {
		return fmt.Errorf("config: layout.gap_factor must be positive, got %g", c.Layout.GapFactor)
	}
	if c.Layout.MinGapTolerance < 0 {
		return fmt.Errorf("config: layout.min_gap_tolerance must not be negative, got %g", c.Layout.MinGapTolerance)
	}
	if c.Layout.IndentTolerance < 0 {
		return fmt.Errorf("config: layout.indent_tolerance must not be negative, got %g", c.Layout.IndentTolerance)
	}
	if c.Layout.MinOverlapRatio < 0 || c.Layout.MinOverlapRatio >= 1 {
		return fmt.Errorf("config: layout.min_overlap_ratio must be in [0, 1), got %g", c.Layout.MinOverlapRatio)
	}

	if c.Blocks.MinTextConfidence < 0 || c.Blocks.MinTextConfidence > 1 {
		return fmt.Errorf("config: blocks.min_text_confidence must be in [0, 1], got %g", c.Blocks.MinTextConfidence)
	}
	if c.Blocks.MinFormulaConfidence < 0 || c.Blocks.MinFormulaConfidence > 1 {
		return fmt.Errorf("config: blocks.min_formula_confidence must be in [0, 1], got %g", c.Blocks.MinFormulaConfidence)
	}

	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("config: preview.port must be a valid port, got %d", c.Preview.Port)
	}

	if _, err := c.Log.slogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// OutputFormat returns the parsed output format. Call Validate first.
func (c *Config) OutputFormat() format.Format {
	f, _ := format.Parse(c.Output.Format)
	return f
}

// ParagraphConfig converts the layout section into detector thresholds.
func (c *Config) ParagraphConfig() layout.ParagraphConfig {
	return layout.ParagraphConfig{
		GapFactor:       c.Layout.GapFactor,
		MinGapTolerance: c.Layout.MinGapTolerance,
		IndentTolerance: c.Layout.IndentTolerance,
		MinOverlapRatio: c.Layout.MinOverlapRatio,
	}
}

// FactoryConfig converts the blocks section into classifier thresholds.
func (c *Config) FactoryConfig() blocks.FactoryConfig {
	return blocks.FactoryConfig{
		MinTextConfidence:    c.Blocks.MinTextConfidence,
		MinFormulaConfidence: c.Blocks.MinFormulaConfidence,
	}
}

// NewLogger builds a structured logger per the log section, writing to w.
func (c *LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.slogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.ToLower(c.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *LogConfig) slogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: log.level must be debug, info, warn or error, got %q", c.Level)
	}
}
