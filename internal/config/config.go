// Package config assembles the CLI configuration from defaults, environment
// variables, and command line flags, in that precedence order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/carelayer/scanform/internal/intake"
	"github.com/carelayer/scanform/internal/layout"
	"github.com/carelayer/scanform/pkg/export"
	"github.com/carelayer/scanform/pkg/overlay"
	"github.com/carelayer/scanform/pkg/recognition"
)

const (
	// EnvPrefix namespaces the environment variables, e.g. SCANFORM_PROVIDER.
	EnvPrefix = "SCANFORM"

	// Provider constants.
	ProviderVertex = "vertex"
	ProviderFile   = "file"

	// Default values.
	DefaultVertexRegion = "us-central1"
	DefaultVertexModel  = "gemini-1.5-pro"
	DefaultConcurrency  = 4
	DefaultLogLevel     = "info"

	// Directory permissions.
	DefaultDirPerm = 0o750
)

// Config holds everything the CLI needs to run the synthesis pipeline.
type Config struct {
	// Recognition provider selection.
	Provider        string
	VertexProject   string
	VertexRegion    string
	VertexModel     string
	RecognitionFile string

	// Recognition request options.
	EnhanceImage bool
	DetectTables bool
	DetectForms  bool
	Languages    []string

	// Pipeline tuning.
	Tolerance        float64
	SectionDetection bool
	Concurrency      int

	// Viewer bounds.
	ZoomMin      float64
	ZoomMax      float64
	MarginFactor float64

	// Flow toggles.
	DraftName string
	Review    bool
	Overlay   bool

	// Intake and output.
	MaxUploadSize int64
	Formats       []string
	OutputDir     string
	Theme         string
	ThemeVariant  string

	LogLevel string

	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// Default returns a configuration with every knob at its package default.
func Default() *Config {
	return &Config{
		Provider:         ProviderVertex,
		VertexRegion:     DefaultVertexRegion,
		VertexModel:      DefaultVertexModel,
		DetectForms:      true,
		Tolerance:        layout.DefaultTolerance,
		SectionDetection: true,
		Concurrency:      DefaultConcurrency,
		ZoomMin:          overlay.MinZoom,
		ZoomMax:          overlay.MaxZoom,
		MarginFactor:     overlay.DefaultMargin,
		MaxUploadSize:    intake.DefaultMaxFileSize,
		Formats:          []string{"json"},
		OutputDir:        ".",
		Theme:            export.DefaultThemeName,
		LogLevel:         DefaultLogLevel,
	}
}

// Load builds the configuration from args and the environment and validates
// it. Flags win over environment variables, which win over defaults.
func Load(args []string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	fs := pflag.NewFlagSet("scanform", pflag.ContinueOnError)
	defineFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	bindFlags(v, fs)

	populate(v, cfg)
	cfg.Args = fs.Args()

	if cfg.OutputDir != "" {
		if abs, err := filepath.Abs(cfg.OutputDir); err == nil {
			cfg.OutputDir = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("vertex-project", cfg.VertexProject)
	v.SetDefault("vertex-region", cfg.VertexRegion)
	v.SetDefault("vertex-model", cfg.VertexModel)
	v.SetDefault("recognition-file", cfg.RecognitionFile)
	v.SetDefault("enhance-image", cfg.EnhanceImage)
	v.SetDefault("detect-tables", cfg.DetectTables)
	v.SetDefault("detect-forms", cfg.DetectForms)
	v.SetDefault("languages", cfg.Languages)
	v.SetDefault("tolerance", cfg.Tolerance)
	v.SetDefault("section-detection", cfg.SectionDetection)
	v.SetDefault("concurrency", cfg.Concurrency)
	v.SetDefault("zoom-min", cfg.ZoomMin)
	v.SetDefault("zoom-max", cfg.ZoomMax)
	v.SetDefault("margin", cfg.MarginFactor)
	v.SetDefault("draft-name", cfg.DraftName)
	v.SetDefault("review", cfg.Review)
	v.SetDefault("overlay", cfg.Overlay)
	v.SetDefault("max-upload-size", cfg.MaxUploadSize)
	v.SetDefault("formats", cfg.Formats)
	v.SetDefault("output-dir", cfg.OutputDir)
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("theme-variant", cfg.ThemeVariant)
	v.SetDefault("log-level", cfg.LogLevel)
}

func defineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("provider", cfg.Provider, "Recognition provider: 'vertex' for Vertex AI, 'file' for a pre-recognized JSON document")
	fs.String("vertex-project", cfg.VertexProject, "Google Cloud project id for the Vertex provider")
	fs.String("vertex-region", cfg.VertexRegion, "Vertex AI region")
	fs.String("vertex-model", cfg.VertexModel, "Gemini model name")
	fs.String("recognition-file", cfg.RecognitionFile, "Stored recognition result JSON for the file provider")
	fs.Bool("enhance-image", cfg.EnhanceImage, "Hint the provider that the scan is low quality")
	fs.Bool("detect-tables", cfg.DetectTables, "Ask the provider to treat table cells as elements")
	fs.Bool("detect-forms", cfg.DetectForms, "Ask the provider to prioritize form structure")
	fs.StringSlice("languages", cfg.Languages, "Document languages, e.g. en,es")
	fs.Float64("tolerance", cfg.Tolerance, "Vertical distance within which elements share a row")
	fs.Bool("section-detection", cfg.SectionDetection, "Derive sections from standalone header labels")
	fs.Int("concurrency", cfg.Concurrency, "Pages synthesized at once")
	fs.Float64("zoom-min", cfg.ZoomMin, "Lower zoom clamp for the review viewer")
	fs.Float64("zoom-max", cfg.ZoomMax, "Upper zoom clamp for the review viewer")
	fs.Float64("margin", cfg.MarginFactor, "Fraction of the viewport the fitted page occupies")
	fs.String("draft-name", cfg.DraftName, "Template name (defaults to the document file name)")
	fs.Bool("review", cfg.Review, "Walk through the generated fields interactively before exporting")
	fs.Bool("overlay", cfg.Overlay, "Write an overlay snapshot PNG for image documents")
	fs.Int64("max-upload-size", cfg.MaxUploadSize, "Maximum accepted document size in bytes")
	fs.StringSlice("formats", cfg.Formats, "Export formats to write, e.g. json,yaml,html,pdf,openapi")
	fs.String("output-dir", cfg.OutputDir, "Directory the exports are written to")
	fs.String("theme", cfg.Theme, "Preview theme for the HTML export (empty for neutral styling)")
	fs.String("theme-variant", cfg.ThemeVariant, "Preview theme variant, e.g. high-contrast")
	fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	for _, key := range []string{
		"provider", "vertex-project", "vertex-region", "vertex-model",
		"recognition-file", "enhance-image", "detect-tables", "detect-forms",
		"languages", "tolerance", "section-detection", "concurrency",
		"zoom-min", "zoom-max", "margin",
		"draft-name", "review", "overlay",
		"max-upload-size", "formats", "output-dir",
		"theme", "theme-variant", "log-level",
	} {
		_ = v.BindPFlag(key, fs.Lookup(key))
	}
}

func populate(v *viper.Viper, cfg *Config) {
	cfg.Provider = strings.ToLower(strings.TrimSpace(v.GetString("provider")))
	cfg.VertexProject = v.GetString("vertex-project")
	cfg.VertexRegion = v.GetString("vertex-region")
	cfg.VertexModel = v.GetString("vertex-model")
	cfg.RecognitionFile = v.GetString("recognition-file")
	cfg.EnhanceImage = v.GetBool("enhance-image")
	cfg.DetectTables = v.GetBool("detect-tables")
	cfg.DetectForms = v.GetBool("detect-forms")
	cfg.Languages = trimmed(v.GetStringSlice("languages"), false)
	cfg.Tolerance = v.GetFloat64("tolerance")
	cfg.SectionDetection = v.GetBool("section-detection")
	cfg.Concurrency = v.GetInt("concurrency")
	cfg.ZoomMin = v.GetFloat64("zoom-min")
	cfg.ZoomMax = v.GetFloat64("zoom-max")
	cfg.MarginFactor = v.GetFloat64("margin")
	cfg.DraftName = strings.TrimSpace(v.GetString("draft-name"))
	cfg.Review = v.GetBool("review")
	cfg.Overlay = v.GetBool("overlay")
	cfg.MaxUploadSize = v.GetInt64("max-upload-size")
	cfg.Formats = trimmed(v.GetStringSlice("formats"), true)
	cfg.OutputDir = v.GetString("output-dir")
	cfg.Theme = strings.TrimSpace(v.GetString("theme"))
	cfg.ThemeVariant = strings.TrimSpace(v.GetString("theme-variant"))
	cfg.LogLevel = strings.ToLower(v.GetString("log-level"))
}

// trimmed cleans a list value: whitespace stripped, empties dropped, and
// optionally lowercased.
func trimmed(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if lower {
			value = strings.ToLower(value)
		}
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Validate checks the configuration and creates the output directory.
func (c *Config) Validate() error {
	if c.Provider != ProviderVertex && c.Provider != ProviderFile {
		return fmt.Errorf("provider must be either %q or %q", ProviderVertex, ProviderFile)
	}
	if c.Provider == ProviderVertex {
		if c.VertexProject == "" {
			return errors.New("vertex provider requires a project id (--vertex-project or SCANFORM_VERTEX_PROJECT)")
		}
		if c.VertexRegion == "" {
			return errors.New("vertex provider requires a region")
		}
	}
	if c.Provider == ProviderFile && c.RecognitionFile == "" {
		return errors.New("file provider requires a stored recognition result (--recognition-file)")
	}

	if c.Tolerance <= 0 {
		return errors.New("tolerance must be positive")
	}
	if c.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if c.ZoomMin <= 0 || c.ZoomMin >= c.ZoomMax {
		return errors.New("zoom bounds must satisfy 0 < min < max")
	}
	if c.MarginFactor <= 0 || c.MarginFactor > 1 {
		return errors.New("margin must be in (0, 1]")
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("maximum upload size must be positive")
	}

	if len(c.Formats) == 0 {
		return errors.New("at least one export format is required")
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// RecognitionOptions maps the configuration onto a provider request.
func (c *Config) RecognitionOptions() recognition.Options {
	return recognition.Options{
		EnhanceImage: c.EnhanceImage,
		DetectTables: c.DetectTables,
		DetectForms:  c.DetectForms,
		Languages:    c.Languages,
	}
}

// SlogLevel translates the configured log level for slog handlers.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsDebug reports whether debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}
