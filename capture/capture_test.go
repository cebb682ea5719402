package capture

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// screen is 100x50 with each pixel's gray level derived from its position.
func screen() *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			v := uint8(x + y)
			m.Set(x, y, color.RGBA{v, v, v, 0xff})
		}
	}
	return m
}

func writePNG(t *testing.T, m image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screen.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, m))
	require.NoError(t, f.Close())
	return path
}

func TestFile(t *testing.T) {
	path := writePNG(t, screen())
	region := image.Rect(10, 20, 40, 30)

	c := &File{Path: path}
	m, err := c.Capture(context.Background(), region)
	require.NoError(t, err)

	g, ok := m.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, region, g.Bounds())
	assert.Equal(t, uint8(10+20), g.GrayAt(10, 20).Y)
	assert.Equal(t, uint8(39+29), g.GrayAt(39, 29).Y)
}

func TestFileCropped(t *testing.T) {
	path := writePNG(t, screen())

	c := &File{Path: path, Cropped: true}
	m, err := c.Capture(context.Background(), image.Rect(500, 500, 540, 510))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 10), m.Bounds())
	assert.Equal(t, uint8(5), m.(*image.Gray).GrayAt(2, 3).Y)

	_, err = c.Capture(context.Background(), image.Rect(0, 0, 200, 10))
	assert.ErrorIs(t, err, ErrRegion)
}

func TestFileErrors(t *testing.T) {
	path := writePNG(t, screen())

	_, err := (&File{Path: path}).Capture(context.Background(), image.Rect(90, 40, 110, 60))
	assert.ErrorIs(t, err, ErrRegion)

	_, err = (&File{Path: filepath.Join(t.TempDir(), "missing.png")}).Capture(context.Background(), image.Rect(0, 0, 1, 1))
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&File{Path: path}).Capture(ctx, image.Rect(0, 0, 1, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommandArgs(t *testing.T) {
	c := &Command{Name: "grim", Args: []string{"-g", "{x},{y} {w}x{h}", "-"}}
	assert.Equal(t, []string{"-g", "320,154 1283x784", "-"}, c.args(image.Rect(320, 154, 1603, 938)))
}

func TestCommand(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	path := writePNG(t, screen())

	c := &Command{Name: "cat", Args: []string{path}}
	m, err := c.Capture(context.Background(), image.Rect(1, 2, 11, 12))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(1, 2, 11, 12), m.Bounds())

	c = &Command{Name: "cat", Args: []string{filepath.Join(t.TempDir(), "missing")}}
	_, err = c.Capture(context.Background(), image.Rect(1, 2, 11, 12))
	assert.Error(t, err)
}

func TestScaled(t *testing.T) {
	var requested image.Rectangle
	inner := Func(func(_ context.Context, r image.Rectangle) (image.Image, error) {
		requested = r
		m := image.NewGray(r)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if x < r.Min.X+r.Dx()/2 {
					m.SetGray(x, y, color.Gray{0xff})
				}
			}
		}
		return m, nil
	})

	s := &Scaled{Capturer: inner, Factor: 2}
	m, err := s.Capture(context.Background(), image.Rect(10, 10, 30, 20))
	require.NoError(t, err)

	assert.Equal(t, image.Rect(20, 20, 60, 40), requested)
	assert.Equal(t, image.Rect(10, 10, 30, 20), m.Bounds())

	g := m.(*image.Gray)
	assert.Equal(t, uint8(0xff), g.GrayAt(10, 10).Y)
	assert.Equal(t, uint8(0xff), g.GrayAt(19, 15).Y)
	assert.Equal(t, uint8(0x00), g.GrayAt(20, 15).Y)
	assert.Equal(t, uint8(0x00), g.GrayAt(29, 19).Y)
}
