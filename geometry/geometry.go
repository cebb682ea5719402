/*
Package geometry maps a rectangular capture region and a cell count into the
pixel coordinates that are sampled for each cell of a grid.

The region is described by three reference points: the top-left, top-right
and bottom-left corners of the displayed grid. No skew or rotation
correction is applied, the three points are expected to describe an
axis-aligned rectangle.
*/
package geometry

import (
	"errors"
	"fmt"
	"image"
)

// ErrGeometry is returned for an impossible grid configuration.
var ErrGeometry = errors.New("geometry: invalid grid geometry")

// Geometry holds the sample points of a grid. It is read-only once created.
type Geometry struct {
	topLeft    image.Point
	topRight   image.Point
	bottomLeft image.Point

	columns int
	rows    int

	blockWidth  float64
	blockHeight float64

	centers []image.Point
}

// New computes the geometry of a grid of columns by rows cells spanning the
// rectangle described by the three corner points.
func New(topLeft, topRight, bottomLeft image.Point, columns, rows int) (*Geometry, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %d columns by %d rows", ErrGeometry, columns, rows)
	}

	width, height := topRight.X-topLeft.X, bottomLeft.Y-topLeft.Y
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: corners %v %v %v describe an empty region", ErrGeometry, topLeft, topRight, bottomLeft)
	}

	g := &Geometry{
		topLeft:     topLeft,
		topRight:    topRight,
		bottomLeft:  bottomLeft,
		columns:     columns,
		rows:        rows,
		blockWidth:  float64(width) / float64(columns),
		blockHeight: float64(height) / float64(rows),
		centers:     make([]image.Point, 0, columns*rows),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			g.centers = append(g.centers, g.center(row, col))
		}
	}

	return g, nil
}

func (g *Geometry) center(row, col int) image.Point {
	// Truncation rather than rounding, coordinates are never negative
	return image.Point{
		X: int(float64(g.topLeft.X) + (float64(col)+0.5)*g.blockWidth),
		Y: int(float64(g.topLeft.Y) + (float64(row)+0.5)*g.blockHeight),
	}
}

// Columns returns the number of cells across.
func (g *Geometry) Columns() int {
	return g.columns
}

// Rows returns the number of cells down.
func (g *Geometry) Rows() int {
	return g.rows
}

// Cells returns the total number of cells, which is the bit capacity of a
// frame.
func (g *Geometry) Cells() int {
	return g.columns * g.rows
}

// BlockWidth returns the horizontal pitch of a cell in pixels.
func (g *Geometry) BlockWidth() float64 {
	return g.blockWidth
}

// BlockHeight returns the vertical pitch of a cell in pixels.
func (g *Geometry) BlockHeight() float64 {
	return g.blockHeight
}

// Center returns the sample point of the cell at row, col.
func (g *Geometry) Center(row, col int) image.Point {
	return g.centers[row*g.columns+col]
}

// Centers returns every sample point in row-major order. The returned slice
// must not be modified.
func (g *Geometry) Centers() []image.Point {
	return g.centers
}

// Region returns the capture rectangle, from the top-left corner with the
// width and height of the grid.
func (g *Geometry) Region() image.Rectangle {
	return image.Rect(g.topLeft.X, g.topLeft.Y, g.topRight.X, g.bottomLeft.Y)
}

// Skewed reports whether the corner points do not describe an axis-aligned
// rectangle, in which case the sample points will drift across the grid.
func (g *Geometry) Skewed() bool {
	return g.topRight.Y != g.topLeft.Y || g.bottomLeft.X != g.topLeft.X
}

func (g *Geometry) String() string {
	return fmt.Sprintf("%dx%d cells in %v (%.2fx%.2f)", g.columns, g.rows, g.Region(), g.blockWidth, g.blockHeight)
}
