// Package preview draws accepted detections over the captured frame so a
// person can check what was stored.
//
// Boxes are drawn from point 0 to point 2 of each region, the same corners
// the boldness heuristic measures, with the recognized text written at
// point 0. The annotated image is written to a file; there is no window.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/boldtext/internal/detection"
)

// Defaults mirror the classic OpenCV preview: green boxes, blue labels.
const (
	DefaultBoxColor  = "#00ff00"
	DefaultTextColor = "#0000ff"
	DefaultThickness = 2
)

// Options configures a Renderer.
type Options struct {
	// OutputPath is where Render writes the annotated image. The format is
	// chosen from the extension (.png, .jpg, .gif, .tif, .bmp).
	OutputPath string

	// BoxColor and TextColor are hex colors such as "#00ff00".
	// Empty selects the defaults.
	BoxColor  string
	TextColor string

	// Thickness is the box outline width in pixels. Values < 1 select
	// DefaultThickness.
	Thickness int
}

// Renderer annotates frames with accepted detections.
type Renderer struct {
	path      string
	box       color.Color
	text      color.Color
	thickness int
}

// New validates opts and returns a Renderer.
func New(opts Options) (*Renderer, error) {
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("preview output path is required")
	}
	if opts.BoxColor == "" {
		opts.BoxColor = DefaultBoxColor
	}
	if opts.TextColor == "" {
		opts.TextColor = DefaultTextColor
	}
	if opts.Thickness < 1 {
		opts.Thickness = DefaultThickness
	}

	box, err := colorful.Hex(opts.BoxColor)
	if err != nil {
		return nil, fmt.Errorf("invalid box color %q: %w", opts.BoxColor, err)
	}
	text, err := colorful.Hex(opts.TextColor)
	if err != nil {
		return nil, fmt.Errorf("invalid text color %q: %w", opts.TextColor, err)
	}

	return &Renderer{
		path:      opts.OutputPath,
		box:       box,
		text:      text,
		thickness: opts.Thickness,
	}, nil
}

// Path returns the file Render writes to.
func (r *Renderer) Path() string {
	return r.path
}

// Render annotates frame with the accepted detections and saves it.
func (r *Renderer) Render(frame image.Image, accepted []detection.Classified) error {
	img := r.Annotate(frame, accepted)
	if err := imaging.Save(img, r.path); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}

// Annotate returns a copy of frame with a box and label drawn for each
// detection. The frame itself is not modified.
func (r *Renderer) Annotate(frame image.Image, accepted []detection.Classified) *image.RGBA {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	for _, c := range accepted {
		p1, p2 := c.Region[0], c.Region[2]
		drawBox(out, image.Rectangle{Min: p1, Max: p2}.Canon(), r.thickness, r.box)
		if c.Text != "" {
			drawLabel(out, p1, c.Text, r.text)
		}
	}

	return out
}

// drawBox outlines rect with the given thickness, growing inward.
func drawBox(img *image.RGBA, rect image.Rectangle, thickness int, c color.Color) {
	src := image.NewUniform(c)
	for i := 0; i < thickness; i++ {
		inner := rect
		if i > 0 {
			if inner = rect.Inset(i); inner.Empty() {
				return
			}
		}
		edges := []image.Rectangle{
			image.Rect(inner.Min.X, inner.Min.Y, inner.Max.X+1, inner.Min.Y+1),
			image.Rect(inner.Min.X, inner.Max.Y, inner.Max.X+1, inner.Max.Y+1),
			image.Rect(inner.Min.X, inner.Min.Y, inner.Min.X+1, inner.Max.Y+1),
			image.Rect(inner.Max.X, inner.Min.Y, inner.Max.X+1, inner.Max.Y+1),
		}
		for _, e := range edges {
			draw.Draw(img, e.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
		}
	}
}

// drawLabel writes text with its baseline at p. Glyphs falling outside the
// image are clipped.
func drawLabel(img *image.RGBA, p image.Point, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(p.X), Y: fixed.I(p.Y)},
	}
	d.DrawString(text)
}
