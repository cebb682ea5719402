/*
Package capture acquires grayscale images of a region of a display.

Images returned by a Capturer have their bounds starting at the top-left
corner of the requested region, either in the same absolute coordinates as
the region or translated to (0, 0).
*/
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// ErrRegion is returned when a captured image does not cover the region.
var ErrRegion = errors.New("capture: image does not cover region")

// Capturer captures a region of a display.
type Capturer interface {
	Capture(ctx context.Context, region image.Rectangle) (image.Image, error)
}

// Func adapts an ordinary function to a Capturer.
type Func func(context.Context, image.Rectangle) (image.Image, error)

// Capture calls f.
func (f Func) Capture(ctx context.Context, region image.Rectangle) (image.Image, error) {
	return f(ctx, region)
}

// gray converts the r part of m into a grayscale image with the same bounds.
func gray(m image.Image, r image.Rectangle) *image.Gray {
	if g, ok := m.(*image.Gray); ok && g.Bounds() == r {
		return g
	}
	g := image.NewGray(r)
	draw.Draw(g, r, m, r.Min, draw.Src)
	return g
}

// decode reads an image and cuts region out of it. If cropped is true the
// image is assumed to already cover only the region.
func decode(r io.Reader, region image.Rectangle, cropped bool) (*image.Gray, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	if cropped {
		b := m.Bounds()
		if b.Dx() < region.Dx() || b.Dy() < region.Dy() {
			return nil, fmt.Errorf("%w: %v smaller than %v", ErrRegion, b.Size(), region.Size())
		}
		return gray(m, image.Rectangle{Min: b.Min, Max: b.Min.Add(region.Size())}), nil
	}

	if !region.In(m.Bounds()) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrRegion, region, m.Bounds())
	}
	return gray(m, region), nil
}
