package frame

import (
	"errors"
	"fmt"
	"image/color"
)

// Thresholds classify a grayscale intensity into a cell. Intensities in
// [PadMin, PadMax) are Pad, otherwise anything below One is Zero and
// anything else is One.
type Thresholds struct {
	PadMin uint8
	PadMax uint8
	One    uint8
}

// DefaultThresholds match DefaultLevels.
var DefaultThresholds = Thresholds{
	PadMin: 80,
	PadMax: 90,
	One:    128,
}

var errThresholds = errors.New("frame: invalid thresholds")

// Validate checks the Pad band is non-empty and does not overlap the
// Zero/One boundary.
func (t Thresholds) Validate() error {
	if t.PadMin >= t.PadMax || t.PadMax > t.One {
		return fmt.Errorf("%w: pad [%d,%d) one >= %d", errThresholds, t.PadMin, t.PadMax, t.One)
	}
	return nil
}

// Classify returns the cell for intensity v.
func (t Thresholds) Classify(v uint8) Cell {
	switch {
	case v >= t.PadMin && v < t.PadMax:
		return Pad
	case v < t.One:
		return Zero
	default:
		return One
	}
}

// Levels are the grayscale intensities a renderer uses for each cell.
type Levels struct {
	Zero uint8
	One  uint8
	Pad  uint8
}

// DefaultLevels are black, white and a dark gray inside the Pad band.
var DefaultLevels = Levels{
	Zero: 0x00,
	One:  0xff,
	Pad:  0x55,
}

var errLevels = errors.New("frame: levels do not match thresholds")

// Check verifies every level is classified as its own cell by t.
func (l Levels) Check(t Thresholds) error {
	for _, c := range []Cell{Zero, One, Pad} {
		if got := t.Classify(l.Intensity(c)); got != c {
			return fmt.Errorf("%w: %d for %s classifies as %s", errLevels, l.Intensity(c), c, got)
		}
	}
	return nil
}

// Intensity returns the level for c.
func (l Levels) Intensity(c Cell) uint8 {
	switch c {
	case One:
		return l.One
	case Pad:
		return l.Pad
	default:
		return l.Zero
	}
}

// Color returns the level for c as a gray color.
func (l Levels) Color(c Cell) color.Gray {
	return color.Gray{Y: l.Intensity(c)}
}
