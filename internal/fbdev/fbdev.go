// Package fbdev provides grayscale access to the operating system's native
// framebuffer.
//
// Pixels are written as a gray level replicated across the color channels
// and read back as ITU-R 601 luma, so the same device can both show a grid
// and be captured.
package fbdev

import "errors"

// ErrNotSupported is returned on systems without framebuffer support.
var ErrNotSupported = errors.New("fbdev: not supported")

var errColorModel = errors.New("fbdev: unsupported color model")

func luma(r, g, b uint32) uint8 {
	// Same weights as color.GrayModel
	return uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 24)
}
