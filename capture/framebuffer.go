package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/bodgit/gridcast/internal/fbdev"
)

// Framebuffer captures from a Linux framebuffer device.
type Framebuffer struct {
	dev *fbdev.Device
}

// OpenFramebuffer opens the framebuffer device for reading.
func OpenFramebuffer(device string) (*Framebuffer, error) {
	dev, err := fbdev.Open(device, false)
	if err != nil {
		return nil, err
	}
	return &Framebuffer{dev: dev}, nil
}

// Capture copies the region out of the framebuffer.
func (fb *Framebuffer) Capture(ctx context.Context, region image.Rectangle) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !region.In(fb.dev.Bounds()) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrRegion, region, fb.dev.Bounds())
	}
	return fb.dev.Gray(region), nil
}

// Close the framebuffer device.
func (fb *Framebuffer) Close() error {
	return fb.dev.Close()
}
