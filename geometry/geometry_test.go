package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g, err := New(image.Pt(320, 154), image.Pt(1603, 154), image.Pt(320, 938), 160, 49)
	require.NoError(t, err)

	assert.Equal(t, (1603.0-320.0)/160.0, g.BlockWidth())
	assert.InDelta(t, 8.01875, g.BlockWidth(), 1e-9)
	assert.Equal(t, 16.0, g.BlockHeight())
	assert.Equal(t, image.Pt(324, 162), g.Center(0, 0))
	assert.Equal(t, image.Rect(320, 154, 1603, 938), g.Region())
	assert.Equal(t, 160*49, g.Cells())
	assert.Len(t, g.Centers(), 160*49)
	assert.False(t, g.Skewed())

	// Last cell: 320 + 159.5*8.01875 = 1598.99..., 154 + 48.5*16 = 930
	assert.Equal(t, image.Pt(1598, 930), g.Center(48, 159))
}

func TestCentersRowMajor(t *testing.T) {
	g, err := New(image.Pt(0, 0), image.Pt(40, 0), image.Pt(0, 20), 4, 2)
	require.NoError(t, err)

	assert.Equal(t, []image.Point{
		{5, 5}, {15, 5}, {25, 5}, {35, 5},
		{5, 15}, {15, 15}, {25, 15}, {35, 15},
	}, g.Centers())
	assert.Equal(t, g.Centers()[6], g.Center(1, 2))
}

func TestNewInvalid(t *testing.T) {
	tables := map[string]struct {
		tl, tr, bl    image.Point
		columns, rows int
	}{
		"no columns":      {image.Pt(0, 0), image.Pt(10, 0), image.Pt(0, 10), 0, 4},
		"negative rows":   {image.Pt(0, 0), image.Pt(10, 0), image.Pt(0, 10), 4, -1},
		"reversed width":  {image.Pt(10, 0), image.Pt(0, 0), image.Pt(10, 10), 4, 4},
		"zero height":     {image.Pt(0, 10), image.Pt(10, 10), image.Pt(0, 10), 4, 4},
		"inverted height": {image.Pt(0, 10), image.Pt(10, 10), image.Pt(0, 0), 4, 4},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			_, err := New(table.tl, table.tr, table.bl, table.columns, table.rows)
			assert.ErrorIs(t, err, ErrGeometry)
		})
	}
}

func TestSkewed(t *testing.T) {
	g, err := New(image.Pt(0, 0), image.Pt(100, 3), image.Pt(0, 50), 10, 5)
	require.NoError(t, err)
	assert.True(t, g.Skewed())
}
