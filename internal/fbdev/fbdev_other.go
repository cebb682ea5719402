//go:build !linux

package fbdev

import "image"

// Device is an open framebuffer device.
type Device struct{}

// Open returns ErrNotSupported.
func Open(_ string, _ bool) (*Device, error) {
	return nil, ErrNotSupported
}

// Bounds returns an empty rectangle.
func (d *Device) Bounds() image.Rectangle { return image.Rectangle{} }

// GrayAt returns 0.
func (d *Device) GrayAt(_, _ int) uint8 { return 0 }

// SetGray does nothing.
func (d *Device) SetGray(_, _ int, _ uint8) {}

// Gray returns a black image.
func (d *Device) Gray(r image.Rectangle) *image.Gray { return image.NewGray(r) }

// Close does nothing.
func (d *Device) Close() error { return nil }
