package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/bodgit/gridcast/frame"
	"github.com/bodgit/gridcast/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeometry(t *testing.T) *geometry.Geometry {
	t.Helper()
	g, err := geometry.New(image.Pt(100, 50), image.Pt(140, 50), image.Pt(100, 70), 4, 2)
	require.NoError(t, err)
	return g
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestAnnotate(t *testing.T) {
	g := testGeometry(t)
	m := image.NewGray(image.Rect(0, 0, 40, 20))
	cells := []frame.Cell{frame.One, frame.Zero, frame.Pad, frame.One, frame.Zero, frame.Zero, frame.One, frame.Pad}

	a := Annotate(m, g, cells)
	assert.Equal(t, m.Bounds(), a.Bounds())

	// Centers are at (5,5), (15,5), ... relative to the region
	assert.Equal(t, MarkerOne, a.RGBAAt(5, 5))
	assert.Equal(t, MarkerOne, a.RGBAAt(4, 4))
	assert.Equal(t, MarkerOne, a.RGBAAt(6, 6))
	assert.Equal(t, MarkerZero, a.RGBAAt(15, 5))
	assert.Equal(t, MarkerPad, a.RGBAAt(25, 5))
	assert.Equal(t, MarkerPad, a.RGBAAt(35, 15))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, a.RGBAAt(10, 10))
}

func TestAnnotateAbsolute(t *testing.T) {
	g := testGeometry(t)
	m := image.NewGray(image.Rect(100, 50, 140, 70))

	a := Annotate(m, g, []frame.Cell{frame.Pad})
	assert.Equal(t, MarkerPad, a.RGBAAt(105, 55))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, a.RGBAAt(115, 55))
}

func TestDumper(t *testing.T) {
	g := testGeometry(t)
	dir := t.TempDir()

	d, err := NewDumper(dir, g)
	require.NoError(t, err)
	d.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	m := image.NewGray(image.Rect(0, 0, 40, 20))
	for i := range m.Pix {
		m.Pix[i] = uint8(i)
	}

	name, err := d.Dump(7, m, []frame.Cell{frame.One, frame.Zero, frame.Pad})
	require.NoError(t, err)
	assert.Equal(t, "debug_screenshot_7_20240102_030405.png", name[len(dir)+1:])

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	p, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, m.Bounds(), p.Bounds())
	assert.Equal(t, MarkerOne, rgba(p.At(5, 5)))
	assert.Equal(t, MarkerZero, rgba(p.At(15, 5)))
	assert.Equal(t, MarkerPad, rgba(p.At(25, 5)))
}
