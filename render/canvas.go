package render

import (
	"errors"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/bodgit/gridcast/frame"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const captionHeight = 16

var errCanvasSize = errors.New("render: invalid canvas size")

// CanvasConfig is the canvas configuration.
type CanvasConfig struct {
	Columns int
	Rows    int

	// CellWidth and CellHeight are the size of each cell in pixels.
	CellWidth  int
	CellHeight int

	// Margin is the border in pixels around the grid.
	Margin int

	// Caption adds a status line below the grid.
	Caption bool

	// Path, if set, is where each flushed frame is written as a PNG.
	Path string

	Levels frame.Levels
}

// Canvas draws frames into a grayscale image.
type Canvas struct {
	config CanvasConfig
	image  *image.Gray
}

// NewCanvas returns a new canvas.
func NewCanvas(config *CanvasConfig) (*Canvas, error) {
	if config.Columns <= 0 || config.Rows <= 0 || config.CellWidth <= 0 || config.CellHeight <= 0 || config.Margin < 0 {
		return nil, errCanvasSize
	}

	w := config.Columns*config.CellWidth + 2*config.Margin
	h := config.Rows*config.CellHeight + 2*config.Margin
	if config.Caption {
		h += captionHeight
	}

	c := &Canvas{
		config: *config,
		image:  image.NewGray(image.Rect(0, 0, w, h)),
	}
	draw.Draw(c.image, c.image.Bounds(), image.NewUniform(config.Levels.Color(frame.Zero)), image.Point{}, draw.Src)

	return c, nil
}

// Grid returns the rectangle covered by the cells, the corners of which
// are the reference points a receiver needs.
func (c *Canvas) Grid() image.Rectangle {
	return image.Rect(
		c.config.Margin,
		c.config.Margin,
		c.config.Margin+c.config.Columns*c.config.CellWidth,
		c.config.Margin+c.config.Rows*c.config.CellHeight,
	)
}

// Image returns the canvas image. It is overwritten by the next frame.
func (c *Canvas) Image() *image.Gray {
	return c.image
}

// SetCell sets the cell at row, col.
func (c *Canvas) SetCell(row, col int, cell frame.Cell) {
	if row < 0 || row >= c.config.Rows || col < 0 || col >= c.config.Columns {
		return
	}
	p := c.Grid().Min.Add(image.Pt(col*c.config.CellWidth, row*c.config.CellHeight))
	r := image.Rectangle{Min: p, Max: p.Add(image.Pt(c.config.CellWidth, c.config.CellHeight))}
	draw.Draw(c.image, r, image.NewUniform(c.config.Levels.Color(cell)), image.Point{}, draw.Src)
}

func (c *Canvas) caption(s Status) {
	b := c.image.Bounds()
	band := image.Rect(b.Min.X, b.Max.Y-captionHeight, b.Max.X, b.Max.Y)
	draw.Draw(c.image, band, image.NewUniform(c.config.Levels.Color(frame.Zero)), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  c.image,
		Src:  image.NewUniform(c.config.Levels.Color(frame.One)),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(band.Min.X+c.config.Margin, band.Max.Y-3),
	}
	d.DrawString(s.String())
}

// Flush adds the caption and writes the image to the configured path.
func (c *Canvas) Flush(s Status) error {
	if c.config.Caption {
		c.caption(s)
	}

	if c.config.Path == "" {
		return nil
	}

	// Write then rename so a reader polling the file never sees half a frame
	f, err := os.CreateTemp(filepath.Dir(c.config.Path), ".gridcast-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := png.Encode(f, c.image); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), c.config.Path)
}

// Close does nothing.
func (c *Canvas) Close() error {
	return nil
}
