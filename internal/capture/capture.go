// Package capture acquires a single still frame, either from a camera or
// from an image file.
//
// Sources are scoped: a Capture call opens its device, reads one frame and
// releases the device before returning, on every exit path.
package capture

import (
	"errors"
)

// DefaultDevice is the camera index used when none is configured.
const DefaultDevice = 0

// ErrDeviceUnavailable is returned when the device cannot be opened or a
// frame cannot be read from it.
var ErrDeviceUnavailable = errors.New("capture device unavailable")

// Camera captures from a video device by index.
type Camera struct {
	Device int
}

// NewCamera returns a Camera for the given device index.
func NewCamera(device int) *Camera {
	return &Camera{Device: device}
}
