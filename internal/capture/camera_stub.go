//go:build !gocv

package capture

import (
	"context"
	"fmt"
	"image"
)

// Capture always fails: camera support needs OpenCV and the gocv build tag.
// Use File to run on a still image instead.
func (c *Camera) Capture(ctx context.Context) (image.Image, error) {
	return nil, fmt.Errorf("%w: camera %d: built without gocv support (rebuild with -tags gocv)", ErrDeviceUnavailable, c.Device)
}
