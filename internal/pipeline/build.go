package pipeline

import (
	"fmt"

	"github.com/ironsheep/boldtext/internal/capture"
	"github.com/ironsheep/boldtext/internal/config"
	"github.com/ironsheep/boldtext/internal/detection"
	"github.com/ironsheep/boldtext/internal/ocr"
	"github.com/ironsheep/boldtext/internal/preview"
	"github.com/ironsheep/boldtext/internal/store"
)

// FromConfig assembles a Pipeline from cfg. Nothing is opened yet: the
// camera, OCR engine and database are all acquired inside Run.
func FromConfig(cfg *config.Config) (*Pipeline, error) {
	p := &Pipeline{
		Source:        NewSource(cfg.Capture),
		Classifier:    detection.NewAspectRatio(cfg.Classifier.BoldRatio),
		OpenStore:     SQLiteOpener(cfg.DatabasePath),
		MinConfidence: cfg.OCR.MinConfidence,
	}

	switch cfg.OCR.Detector {
	case config.DetectorTesseract:
		p.Detector = ocr.NewTesseract(ocr.Options{
			Language:       cfg.OCR.Language,
			TessdataPrefix: cfg.OCR.TessdataPrefix,
			Preprocess:     cfg.OCR.Preprocess,
		})
	case config.DetectorEdges:
		p.Detector = detection.NewEdgeDensity(cfg.OCR.MinConfidence)
	default:
		return nil, fmt.Errorf("unknown detector %q", cfg.OCR.Detector)
	}

	if cfg.Preview.Enabled {
		r, err := preview.New(preview.Options{
			OutputPath: cfg.Preview.OutputPath,
			BoxColor:   cfg.Preview.BoxColor,
			TextColor:  cfg.Preview.TextColor,
			Thickness:  cfg.Preview.Thickness,
		})
		if err != nil {
			return nil, err
		}
		p.Renderer = r
	}

	return p, nil
}

// NewSource picks the file source when an image path is set and the
// camera otherwise.
func NewSource(c config.CaptureConfig) FrameSource {
	if c.ImagePath != "" {
		return capture.NewFile(c.ImagePath)
	}
	return capture.NewCamera(c.Device)
}

// SQLiteOpener returns a StoreOpener for the database file at path.
func SQLiteOpener(path string) StoreOpener {
	return func() (Store, error) {
		s, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
