package ocr

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// PreprocessOptions controls the optional clean-up applied to a camera
// frame before OCR. The zero value leaves the frame untouched.
type PreprocessOptions struct {
	// Grayscale converts the frame to luminance only.
	Grayscale bool `yaml:"grayscale" json:"grayscale"`

	// Contrast is a relative change in [-1, 1]; 0 leaves contrast alone.
	Contrast float64 `yaml:"contrast" json:"contrast"`

	// Sharpen applies a 3x3 sharpening kernel.
	Sharpen bool `yaml:"sharpen" json:"sharpen"`

	// Scale resizes the frame before recognition. Tesseract does best with
	// glyphs around 30px tall, so small camera text benefits from 2 or 3.
	// Values <= 0 are treated as 1.
	Scale float64 `yaml:"scale" json:"scale"`
}

// Enabled reports whether any preprocessing step is active.
func (o PreprocessOptions) Enabled() bool {
	return o.Grayscale || o.Contrast != 0 || o.Sharpen || (o.Scale > 0 && o.Scale != 1)
}

// Preprocess applies the configured steps and returns the prepared image
// together with the scale factor that was applied to it.
func Preprocess(img image.Image, opts PreprocessOptions) (image.Image, float64) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	if !opts.Enabled() {
		return img, 1
	}

	out := img
	if opts.Grayscale {
		out = effect.Grayscale(out)
	}
	if opts.Contrast != 0 {
		out = adjust.Contrast(out, opts.Contrast)
	}
	if opts.Sharpen {
		out = effect.Sharpen(out)
	}
	if scale != 1 {
		w := int(float64(img.Bounds().Dx()) * scale)
		if w < 1 {
			w = 1
		}
		out = imaging.Resize(out, w, 0, imaging.Lanczos)
		// Resize rounds the height; use the width ratio actually applied.
		scale = float64(out.Bounds().Dx()) / float64(img.Bounds().Dx())
	}

	return out, scale
}
