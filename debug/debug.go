/*
Package debug writes captured images annotated with how each cell was
classified. It is purely diagnostic and has no effect on a transfer.

Each sample point is marked with a 3 by 3 dot: green for One, red for Zero
and gray for Pad. The annotated image is reduced to a palette before being
written as a PNG to keep the files small.
*/
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bodgit/gridcast/frame"
	"github.com/bodgit/gridcast/geometry"
	"github.com/ericpauley/go-quantize/quantize"
)

const maxColors = 256

// Marker colors.
var (
	MarkerOne  = color.RGBA{0x00, 0xff, 0x00, 0xff}
	MarkerZero = color.RGBA{0xff, 0x00, 0x00, 0xff}
	MarkerPad  = color.RGBA{0x80, 0x80, 0x80, 0xff}
)

func marker(c frame.Cell) color.Color {
	switch c {
	case frame.One:
		return MarkerOne
	case frame.Pad:
		return MarkerPad
	default:
		return MarkerZero
	}
}

// Annotate returns a copy of the captured image m with a marker drawn at
// the sample point of each cell. m uses the same coordinates as
// frame.Decoder.Sample expects.
func Annotate(m image.Image, g *geometry.Geometry, cells []frame.Cell) *image.RGBA {
	b := m.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, m, b.Min, draw.Src)

	offset := b.Min.Sub(g.Region().Min)
	for i, p := range g.Centers() {
		if i >= len(cells) {
			break
		}
		p = p.Add(offset)
		r := image.Rect(p.X-1, p.Y-1, p.X+2, p.Y+2).Intersect(b)
		draw.Draw(dst, r, image.NewUniform(marker(cells[i])), image.Point{}, draw.Src)
	}

	return dst
}

// Encode writes m to w as a paletted PNG. The marker colors are always in
// the palette.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()

	p := make(color.Palette, 0, maxColors)
	p = append(p, MarkerOne, MarkerZero, MarkerPad)

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(p, m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return png.Encode(w, pm)
}

// Dumper writes annotated captures to a directory.
type Dumper struct {
	dir      string
	geometry *geometry.Geometry
	now      func() time.Time
}

// NewDumper returns a Dumper writing to dir, which is created if needed.
func NewDumper(dir string, g *geometry.Geometry) (*Dumper, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Dumper{
		dir:      dir,
		geometry: g,
		now:      time.Now,
	}, nil
}

// Dump writes the annotated capture for the given step and returns the
// file name.
func (d *Dumper) Dump(step int, m image.Image, cells []frame.Cell) (string, error) {
	name := filepath.Join(d.dir, fmt.Sprintf("debug_screenshot_%d_%s.png", step, d.now().Format("20060102_150405")))

	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Encode(f, Annotate(m, d.geometry, cells)); err != nil {
		return "", err
	}

	return name, f.Close()
}
