//go:build gocv

package capture

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Capture opens the camera, reads one frame and releases the camera.
func (c *Camera) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vc, err := gocv.OpenVideoCapture(c.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open camera %d: %w", ErrDeviceUnavailable, c.Device, err)
	}
	defer vc.Close()

	if !vc.IsOpened() {
		return nil, fmt.Errorf("%w: could not open camera %d", ErrDeviceUnavailable, c.Device)
	}

	frame := gocv.NewMat()
	defer frame.Close()

	if ok := vc.Read(&frame); !ok || frame.Empty() {
		return nil, fmt.Errorf("%w: could not read frame from camera %d", ErrDeviceUnavailable, c.Device)
	}

	img, err := frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: could not convert frame: %w", ErrDeviceUnavailable, err)
	}
	return img, nil
}
