package capture

import (
	"context"
	"image"

	"golang.org/x/image/draw"
)

// Scaled wraps a capturer whose images are Factor times the size of the
// logical display coordinates, such as screenshots of a HiDPI display, and
// scales them back down.
type Scaled struct {
	Capturer Capturer
	Factor   float64
}

func scale(r image.Rectangle, f float64) image.Rectangle {
	return image.Rect(
		int(float64(r.Min.X)*f),
		int(float64(r.Min.Y)*f),
		int(float64(r.Max.X)*f),
		int(float64(r.Max.Y)*f),
	)
}

// Capture captures the scaled region and resizes it to region.
func (s *Scaled) Capture(ctx context.Context, region image.Rectangle) (image.Image, error) {
	if s.Factor == 0 || s.Factor == 1 {
		return s.Capturer.Capture(ctx, region)
	}

	m, err := s.Capturer.Capture(ctx, scale(region, s.Factor))
	if err != nil {
		return nil, err
	}

	// Nearest neighbour, interpolating would blur cell edges into the pad band
	dst := image.NewGray(region)
	draw.NearestNeighbor.Scale(dst, region, m, m.Bounds(), draw.Src, nil)
	return dst, nil
}
