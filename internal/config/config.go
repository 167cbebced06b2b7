// Package config loads the settings for a bold text run.
//
// Every field has a default, so a run needs no configuration at all: it
// captures from camera 0, recognizes English with Tesseract, uses the 0.5
// boldness ratio and writes to extracted_texts.db. A YAML file and
// BOLDTEXT_* environment variables can override the defaults, in that
// order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/ironsheep/boldtext/internal/capture"
	"github.com/ironsheep/boldtext/internal/detection"
	"github.com/ironsheep/boldtext/internal/ocr"
)

// Detector kinds.
const (
	DetectorTesseract = "tesseract"
	DetectorEdges     = "edges"
)

// DefaultDatabasePath is the SQLite file used when none is configured.
const DefaultDatabasePath = "extracted_texts.db"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BOLDTEXT_"

// Config is the full run configuration.
type Config struct {
	DatabasePath string        `yaml:"database_path"`
	Capture      CaptureConfig `yaml:"capture"`
	OCR          OCRConfig     `yaml:"ocr"`
	Classifier   ClassConfig   `yaml:"classifier"`
	Preview      PreviewConfig `yaml:"preview"`
}

// CaptureConfig selects the frame source. A non-empty ImagePath reads a
// still image instead of opening the camera.
type CaptureConfig struct {
	Device    int    `yaml:"device"`
	ImagePath string `yaml:"image_path"`
}

// OCRConfig selects and tunes the text detector.
type OCRConfig struct {
	Detector       string                `yaml:"detector"`
	Language       string                `yaml:"language"`
	TessdataPrefix string                `yaml:"tessdata_prefix"`
	MinConfidence  float64               `yaml:"min_confidence"`
	Preprocess     ocr.PreprocessOptions `yaml:"preprocess"`
}

// ClassConfig tunes the boldness heuristic.
type ClassConfig struct {
	BoldRatio float64 `yaml:"bold_ratio"`
}

// PreviewConfig controls the optional annotated image.
type PreviewConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputPath string `yaml:"output_path"`
	BoxColor   string `yaml:"box_color"`
	TextColor  string `yaml:"text_color"`
	Thickness  int    `yaml:"thickness"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		DatabasePath: DefaultDatabasePath,
		Capture: CaptureConfig{
			Device: capture.DefaultDevice,
		},
		OCR: OCRConfig{
			Detector: DetectorTesseract,
			Language: ocr.DefaultLanguage,
		},
		Classifier: ClassConfig{
			BoldRatio: detection.DefaultBoldRatio,
		},
		Preview: PreviewConfig{
			OutputPath: "preview.png",
			Thickness:  2,
		},
	}
}

// Load builds a configuration from the defaults, the YAML file at path
// (skipped when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through
// lookup:
//
//	BOLDTEXT_DB_PATH          database_path
//	BOLDTEXT_DEVICE           capture.device
//	BOLDTEXT_IMAGE            capture.image_path
//	BOLDTEXT_DETECTOR         ocr.detector
//	BOLDTEXT_LANGUAGE         ocr.language
//	BOLDTEXT_TESSDATA_PREFIX  ocr.tessdata_prefix
//	BOLDTEXT_MIN_CONFIDENCE   ocr.min_confidence
//	BOLDTEXT_BOLD_RATIO       classifier.bold_ratio
//	BOLDTEXT_PREVIEW          preview.output_path (also enables preview)
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("DB_PATH"); ok {
		c.DatabasePath = v
	}
	if v, ok := get("DEVICE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEVICE %q: %w", EnvPrefix, v, err)
		}
		c.Capture.Device = n
	}
	if v, ok := get("IMAGE"); ok {
		c.Capture.ImagePath = v
	}
	if v, ok := get("DETECTOR"); ok {
		c.OCR.Detector = strings.ToLower(v)
	}
	if v, ok := get("LANGUAGE"); ok {
		c.OCR.Language = v
	}
	if v, ok := get("TESSDATA_PREFIX"); ok {
		c.OCR.TessdataPrefix = v
	}
	if v, ok := get("MIN_CONFIDENCE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sMIN_CONFIDENCE %q: %w", EnvPrefix, v, err)
		}
		c.OCR.MinConfidence = f
	}
	if v, ok := get("BOLD_RATIO"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sBOLD_RATIO %q: %w", EnvPrefix, v, err)
		}
		c.Classifier.BoldRatio = f
	}
	if v, ok := get("PREVIEW"); ok {
		c.Preview.Enabled = true
		c.Preview.OutputPath = v
	}
	return nil
}

// Validate rejects settings no run could use.
func (c *Config) Validate() error {
	var errs []error

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path must not be empty"))
	}
	if c.Capture.Device < 0 {
		errs = append(errs, fmt.Errorf("capture.device must be >= 0, got %d", c.Capture.Device))
	}
	switch c.OCR.Detector {
	case DetectorTesseract, DetectorEdges:
	default:
		errs = append(errs, fmt.Errorf("ocr.detector must be %q or %q, got %q", DetectorTesseract, DetectorEdges, c.OCR.Detector))
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("ocr.min_confidence must be in [0,1], got %v", c.OCR.MinConfidence))
	}
	if p := c.OCR.Preprocess; p.Contrast < -1 || p.Contrast > 1 {
		errs = append(errs, fmt.Errorf("ocr.preprocess.contrast must be in [-1,1], got %v", p.Contrast))
	}
	if c.OCR.Preprocess.Scale < 0 {
		errs = append(errs, fmt.Errorf("ocr.preprocess.scale must be >= 0, got %v", c.OCR.Preprocess.Scale))
	}
	if c.Classifier.BoldRatio <= 0 {
		errs = append(errs, fmt.Errorf("classifier.bold_ratio must be > 0, got %v", c.Classifier.BoldRatio))
	}
	if c.Preview.Enabled && c.Preview.OutputPath == "" {
		errs = append(errs, errors.New("preview.output_path is required when preview is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
