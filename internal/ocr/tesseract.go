package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/boldtext/internal/detection"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Options configures a Tesseract detector.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "deu".
	// The matching traineddata must be installed.
	Language string

	// TessdataPrefix overrides where Tesseract looks for traineddata.
	// Empty keeps Tesseract's own default.
	TessdataPrefix string

	// Level selects the granularity of the reported regions. The zero
	// value is treated as word level.
	Level gosseract.PageIteratorLevel

	// Preprocess is applied to the frame before recognition.
	Preprocess PreprocessOptions
}

// Tesseract detects text with the Tesseract OCR engine through gosseract.
//
// Each Detect call creates and closes its own gosseract client, so a
// Tesseract value holds no engine state between runs.
type Tesseract struct {
	opts Options
}

// NewTesseract returns a Tesseract detector, filling in defaults.
func NewTesseract(opts Options) *Tesseract {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Level == gosseract.RIL_BLOCK {
		opts.Level = gosseract.RIL_WORD
	}
	return &Tesseract{opts: opts}
}

// Options returns the detector's effective options.
func (t *Tesseract) Options() Options {
	return t.opts
}

// Detect runs OCR over img and returns one detection per recognized
// word (or line, depending on Level).
//
// Regions are reported in the coordinates of img even when preprocessing
// rescales the image. Empty words are dropped. Tesseract reports confidence
// as a percentage; it is converted to [0, 1].
//
// # Performance
//
// OCR is CPU-intensive. For large frames consider leaving Preprocess.Scale
// at 1 and cropping to the area of interest first.
func (t *Tesseract) Detect(ctx context.Context, img image.Image) ([]detection.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared, scale := Preprocess(img, t.opts.Preprocess)

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.opts.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}

	if err := client.SetLanguage(t.opts.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(t.opts.Level)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	bounds := img.Bounds()
	dets := make([]detection.Detection, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		dets = append(dets, detection.Detection{
			Region:     detection.RegionFromRect(unscale(box.Box, scale, bounds)),
			Text:       box.Word,
			Confidence: clamp01(box.Confidence / 100.0),
		})
	}

	return dets, nil
}

// Version reports the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// unscale maps a rectangle found in the preprocessed image back into the
// original frame, clamped to its bounds.
func unscale(r image.Rectangle, scale float64, bounds image.Rectangle) image.Rectangle {
	if scale <= 0 {
		scale = 1
	}
	out := image.Rect(
		int(math.Round(float64(r.Min.X)/scale)),
		int(math.Round(float64(r.Min.Y)/scale)),
		int(math.Round(float64(r.Max.X)/scale)),
		int(math.Round(float64(r.Max.Y)/scale)),
	).Add(bounds.Min)
	return out.Intersect(bounds)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
