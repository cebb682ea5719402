package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bodgit/gridcast/frame"
	"github.com/muesli/termenv"
)

const block = "█"

// Terminal shows frames as colored block characters.
type Terminal struct {
	w       *bufio.Writer
	out     *termenv.Output
	levels  frame.Levels
	columns int
	rows    int
	cells   []frame.Cell
}

// NewTerminal returns a terminal surface of columns by rows cells writing
// to w using the given color profile, usually termenv.TrueColor or
// termenv.ANSI256.
func NewTerminal(w io.Writer, columns, rows int, levels frame.Levels, profile termenv.Profile) *Terminal {
	bw := bufio.NewWriter(w)
	return &Terminal{
		w:       bw,
		out:     termenv.NewOutput(bw, termenv.WithProfile(profile)),
		levels:  levels,
		columns: columns,
		rows:    rows,
		cells:   make([]frame.Cell, columns*rows),
	}
}

// SetCell sets the cell at row, col.
func (t *Terminal) SetCell(row, col int, c frame.Cell) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.columns {
		return
	}
	t.cells[row*t.columns+col] = c
}

// gray256 returns the xterm 256-color index closest to gray level v.
func gray256(v uint8) int {
	switch {
	case v < 4:
		return 16
	case v > 246:
		return 231
	default:
		// Grayscale ramp 232-255 covers 8, 18, ... 238
		i := (int(v) - 3) / 10
		if i > 23 {
			i = 23
		}
		return 232 + i
	}
}

func (t *Terminal) color(c frame.Cell) termenv.Color {
	v := t.levels.Intensity(c)
	if t.out.Profile == termenv.ANSI256 {
		// The nearest match termenv picks may fall outside the pad band
		return termenv.ANSI256Color(gray256(v))
	}
	return t.out.Color(fmt.Sprintf("#%02x%02x%02x", v, v, v))
}

// Flush redraws the whole grid followed by the status line.
func (t *Terminal) Flush(s Status) error {
	t.out.ClearScreen()

	for row := 0; row < t.rows; row++ {
		cells := t.cells[row*t.columns : (row+1)*t.columns]
		for len(cells) > 0 {
			n := 1
			for n < len(cells) && cells[n] == cells[0] {
				n++
			}
			if _, err := t.out.WriteString(t.out.String(strings.Repeat(block, n)).Foreground(t.color(cells[0])).String()); err != nil {
				return err
			}
			cells = cells[n:]
		}
		if _, err := t.out.WriteString("\n"); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(t.out, s); err != nil {
		return err
	}

	return t.w.Flush()
}

// Close does nothing, the last frame stays on the terminal.
func (t *Terminal) Close() error {
	return nil
}
