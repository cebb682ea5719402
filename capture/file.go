package capture

import (
	"context"
	"image"
	"os"
)

// File captures by reading an image file, typically one kept up to date by
// an external screenshot or camera tool. The file is read again on every
// capture.
type File struct {
	Path string

	// Cropped is true if the file covers just the capture region rather
	// than the whole display.
	Cropped bool
}

// Capture reads the file and returns the region.
func (f *File) Capture(ctx context.Context, region image.Rectangle) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return decode(file, region, f.Cropped)
}
