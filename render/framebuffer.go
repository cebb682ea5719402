package render

import (
	"image"

	"github.com/bodgit/gridcast/frame"
	"github.com/bodgit/gridcast/internal/fbdev"
)

// FramebufferConfig is the framebuffer surface configuration.
type FramebufferConfig struct {
	// Device is the framebuffer device, typically /dev/fb0.
	Device string

	Columns int
	Rows    int

	// Origin is the top-left corner of the grid on screen.
	Origin image.Point

	CellWidth  int
	CellHeight int

	Levels frame.Levels
}

// Framebuffer draws frames directly on the screen.
type Framebuffer struct {
	config FramebufferConfig
	dev    *fbdev.Device
}

// OpenFramebuffer opens the framebuffer device for drawing.
func OpenFramebuffer(config *FramebufferConfig) (*Framebuffer, error) {
	if config.Columns <= 0 || config.Rows <= 0 || config.CellWidth <= 0 || config.CellHeight <= 0 {
		return nil, errCanvasSize
	}

	dev, err := fbdev.Open(config.Device, true)
	if err != nil {
		return nil, err
	}

	return &Framebuffer{
		config: *config,
		dev:    dev,
	}, nil
}

// SetCell sets the cell at row, col.
func (fb *Framebuffer) SetCell(row, col int, c frame.Cell) {
	if row < 0 || row >= fb.config.Rows || col < 0 || col >= fb.config.Columns {
		return
	}
	var (
		level = fb.config.Levels.Intensity(c)
		x0    = fb.config.Origin.X + col*fb.config.CellWidth
		y0    = fb.config.Origin.Y + row*fb.config.CellHeight
	)
	for y := y0; y < y0+fb.config.CellHeight; y++ {
		for x := x0; x < x0+fb.config.CellWidth; x++ {
			fb.dev.SetGray(x, y, level)
		}
	}
}

// Flush does nothing, the framebuffer is shown as it is written.
func (fb *Framebuffer) Flush(_ Status) error {
	return nil
}

// Close the framebuffer device.
func (fb *Framebuffer) Close() error {
	return fb.dev.Close()
}

// Interface checks.
var (
	_ Surface = (*Terminal)(nil)
	_ Surface = (*Canvas)(nil)
	_ Surface = (*Framebuffer)(nil)
)
