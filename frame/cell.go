package frame

import "strings"

// Cell is the tri-state value of one grid position.
type Cell uint8

// Cell values. Zero and One have the numeric value of the bit they carry.
const (
	Zero Cell = iota
	One
	Pad
)

func (c Cell) String() string {
	switch c {
	case Zero:
		return "0"
	case One:
		return "1"
	case Pad:
		return "2"
	default:
		return "?"
	}
}

// Bit reports the bit value of c and whether c carries one.
func (c Cell) Bit() (byte, bool) {
	if c > One {
		return 0, false
	}
	return byte(c), true
}

// Cells is a sequence of cells. It prints as one digit per cell.
type Cells []Cell

func (cs Cells) String() string {
	var sb strings.Builder
	sb.Grow(len(cs))
	for _, c := range cs {
		sb.WriteString(c.String())
	}
	return sb.String()
}

// strip returns the bits carried by cells, skipping any Pad cells.
func strip(cells []Cell) []byte {
	bits := make([]byte, 0, len(cells))
	for _, c := range cells {
		if b, ok := c.Bit(); ok {
			bits = append(bits, b)
		}
	}
	return bits
}
