/*
Package render displays frames on a surface.

Every surface honours the same intensity contract, frame.Levels, so a frame
shown on any of them decodes with the matching frame.Thresholds.
*/
package render

import (
	"fmt"

	"github.com/bodgit/gridcast/frame"
)

// Status describes the progress of a transfer.
type Status struct {
	Frame int
	Total int
}

func (s Status) String() string {
	if s.Total == 0 {
		return fmt.Sprintf("Frame %d", s.Frame)
	}
	return fmt.Sprintf("Frame %d/%d (%.2f%%)", s.Frame, s.Total, float64(s.Frame)/float64(s.Total)*100)
}

// Surface is anything capable of showing a grid of cells.
type Surface interface {
	// SetCell sets the cell at row, col.
	SetCell(row, col int, c frame.Cell)

	// Flush shows the cells set so far.
	Flush(Status) error

	// Close the surface.
	Close() error
}

// Draw sets every cell of f on s and flushes it.
func Draw(s Surface, f *frame.Frame, status Status) error {
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Columns; col++ {
			s.SetCell(row, col, f.At(row, col))
		}
	}
	return s.Flush(status)
}
