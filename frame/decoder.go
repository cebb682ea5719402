package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/gridcast/checksum"
	"github.com/bodgit/gridcast/geometry"
)

// ErrImageBounds is returned when a captured image does not cover every
// sample point.
var ErrImageBounds = errors.New("frame: image does not cover the grid")

// Decoder samples captured images of a grid.
type Decoder struct {
	geometry   *geometry.Geometry
	thresholds Thresholds
}

// NewDecoder returns a Decoder sampling at the points of g.
func NewDecoder(g *geometry.Geometry, t Thresholds) (*Decoder, error) {
	if _, err := DataCapacity(g.Columns(), g.Rows()); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		geometry:   g,
		thresholds: t,
	}, nil
}

func intensity(m image.Image, x, y int) uint8 {
	if g, ok := m.(*image.Gray); ok {
		return g.GrayAt(x, y).Y
	}
	return color.GrayModel.Convert(m.At(x, y)).(color.Gray).Y
}

// Sample classifies the cell under every sample point of m. The top-left
// corner of m's bounds is taken to be the top-left corner of the capture
// region, so m may be either region-relative or a sub-image in screen
// coordinates.
func (d *Decoder) Sample(m image.Image) ([]Cell, error) {
	var (
		b      = m.Bounds()
		offset = b.Min.Sub(d.geometry.Region().Min)
		cells  = make([]Cell, 0, d.geometry.Cells())
	)

	for _, p := range d.geometry.Centers() {
		p = p.Add(offset)
		if !p.In(b) {
			return nil, fmt.Errorf("%w: %v outside %v", ErrImageBounds, p, b)
		}
		cells = append(cells, d.thresholds.Classify(intensity(m, p.X, p.Y)))
	}

	return cells, nil
}

// Decode samples m and validates the resulting frame, see Validate.
func (d *Decoder) Decode(m image.Image) ([]byte, bool, error) {
	cells, err := d.Sample(m)
	if err != nil {
		return nil, false, err
	}
	return Validate(cells)
}

// Validate checks the cells of a whole frame against its checksum and
// returns the payload bytes it carries. terminal is true when the data
// region contains Pad cells, marking the last frame of a transfer.
func Validate(cells []Cell) (payload []byte, terminal bool, err error) {
	if len(cells) <= checksum.Size {
		return nil, false, fmt.Errorf("%w: %d cells", ErrMalformedFrame, len(cells))
	}

	data, sum := cells[:len(cells)-checksum.Size], cells[len(cells)-checksum.Size:]

	want := make([]byte, 0, checksum.Size)
	for _, c := range sum {
		b, ok := c.Bit()
		if !ok {
			return nil, false, fmt.Errorf("%w: pad in checksum region", ErrMalformedFrame)
		}
		want = append(want, b)
	}

	bits := strip(data)

	got, err := checksum.Digest(bits)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}

	if !checksum.Equal(got, want) {
		return nil, false, ErrChecksumMismatch
	}

	if payload, err = checksum.Pack(bits); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}

	return payload, len(bits) < len(data), nil
}
