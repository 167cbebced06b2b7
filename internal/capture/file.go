package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// File serves a still image from disk as the frame. Supported formats are
// those disintegration/imaging decodes: PNG, JPEG, GIF, TIFF and BMP.
//
// EXIF orientation is applied so that phone photos come out upright, which
// matters because the boldness heuristic depends on region orientation.
type File struct {
	Path string
}

// NewFile returns a File source for path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Capture decodes the image file. An unreadable file is reported as
// ErrDeviceUnavailable, the same as a camera that returns no frame.
func (f *File) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Open(f.Path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load %s: %w", ErrDeviceUnavailable, f.Path, err)
	}

	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s is an empty image", ErrDeviceUnavailable, f.Path)
	}
	return img, nil
}

// Info describes a captured frame.
type Info struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Describe reports the dimensions of a frame.
func Describe(img image.Image) Info {
	b := img.Bounds()
	return Info{Width: b.Dx(), Height: b.Dy()}
}
