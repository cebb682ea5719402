/*
Package frame implements the gridcast frame encoder and decoder.

A frame is one grid of columns by rows cells. Each cell is Zero, One or Pad.
The first columns*rows-256 cells are the data region carrying payload bits,
most significant bit of each byte first. The final 256 cells are the
checksum region holding the SHA-256 digest of the data bits with any Pad
cells removed.

Pad cells only ever appear at the tail of the data region of the last frame
of a transfer, so their presence marks the end of the stream.
*/
package frame

import (
	"errors"
	"fmt"

	"github.com/bodgit/gridcast/checksum"
)

var (
	// ErrCapacity is returned when a grid cannot carry whole bytes of data
	// alongside the checksum.
	ErrCapacity = errors.New("frame: invalid grid capacity")

	// ErrChecksumMismatch is returned when a frame's data does not match
	// its checksum.
	ErrChecksumMismatch = errors.New("frame: checksum mismatch")

	// ErrMalformedFrame is returned when a frame violates its structure,
	// such as Pad cells in the checksum region.
	ErrMalformedFrame = errors.New("frame: malformed frame")
)

// DataCapacity returns the number of payload bits a columns by rows grid
// carries per frame.
func DataCapacity(columns, rows int) (int, error) {
	if columns <= 0 || rows <= 0 {
		return 0, fmt.Errorf("%w: %d columns by %d rows", ErrCapacity, columns, rows)
	}

	n := columns*rows - checksum.Size
	switch {
	case n <= 0:
		return 0, fmt.Errorf("%w: %d cells do not exceed the %d bit checksum", ErrCapacity, columns*rows, checksum.Size)
	case n%8 != 0:
		return 0, fmt.Errorf("%w: %d data bits is not a multiple of 8", ErrCapacity, n)
	}

	return n, nil
}

// Frame is one grid's worth of cells.
type Frame struct {
	// Index is the 1-based position of the frame in the transfer.
	Index int

	Columns int
	Rows    int

	// Cells holds Columns*Rows cells in row-major order.
	Cells []Cell
}

// At returns the cell at row, col.
func (f *Frame) At(row, col int) Cell {
	return f.Cells[row*f.Columns+col]
}

// Data returns the data region.
func (f *Frame) Data() []Cell {
	return f.Cells[:len(f.Cells)-checksum.Size]
}

// Checksum returns the checksum region.
func (f *Frame) Checksum() []Cell {
	return f.Cells[len(f.Cells)-checksum.Size:]
}

// Padding returns the number of Pad cells in the data region.
func (f *Frame) Padding() (n int) {
	for _, c := range f.Data() {
		if c == Pad {
			n++
		}
	}
	return
}

// Terminal reports whether this is the last frame of a transfer.
func (f *Frame) Terminal() bool {
	return f.Padding() > 0
}
