package frame

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/bodgit/gridcast/checksum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(int64(n))).Read(b)
	return b
}

func frames(t *testing.T, e *Encoder) []*Frame {
	t.Helper()
	var fs []*Frame
	for {
		f, err := e.Next()
		if err == io.EOF {
			return fs
		}
		require.NoError(t, err)
		fs = append(fs, f)
	}
}

func TestDataCapacity(t *testing.T) {
	tables := []struct {
		columns, rows int
		capacity      int
		err           bool
	}{
		{32, 16, 256, false},
		{160, 49, 160*49 - 256, false},
		{16, 16, 0, true},
		{16, 8, 0, true},
		{17, 17, 0, true},
		{0, 100, 0, true},
	}

	for _, table := range tables {
		n, err := DataCapacity(table.columns, table.rows)
		if table.err {
			assert.ErrorIs(t, err, ErrCapacity)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, table.capacity, n)
	}
}

func TestEncoderTwoFrames(t *testing.T) {
	p := payload(40)

	e, err := NewEncoder(p, 32, 16)
	require.NoError(t, err)
	assert.Equal(t, 256, e.Capacity())
	assert.Equal(t, 2, e.Total())

	fs := frames(t, e)
	require.Len(t, fs, 2)

	first, second := fs[0], fs[1]
	assert.Equal(t, 1, first.Index)
	assert.Len(t, first.Cells, 512)
	assert.False(t, first.Terminal())
	assert.Equal(t, checksum.Unpack(p[:32]), strip(first.Data()))

	assert.Equal(t, 2, second.Index)
	assert.True(t, second.Terminal())
	assert.Equal(t, 192, second.Padding())
	assert.Equal(t, checksum.Unpack(p[32:]), strip(second.Data()))
	for _, c := range second.Data()[64:] {
		assert.Equal(t, Pad, c)
	}

	digest, err := checksum.Digest(checksum.Unpack(p[32:]))
	require.NoError(t, err)
	assert.Equal(t, digest, strip(second.Checksum()))
	assert.Len(t, strip(second.Checksum()), checksum.Size)

	b, terminal, err := Validate(second.Cells)
	require.NoError(t, err)
	assert.True(t, terminal)
	assert.Equal(t, p[32:], b)
}

func TestEncoderExactFit(t *testing.T) {
	p := payload(64)

	e, err := NewEncoder(p, 32, 16)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Total())

	fs := frames(t, e)
	require.Len(t, fs, 3)
	assert.False(t, fs[0].Terminal())
	assert.False(t, fs[1].Terminal())
	assert.True(t, fs[2].Terminal())
	assert.Equal(t, 256, fs[2].Padding())

	b, terminal, err := Validate(fs[2].Cells)
	require.NoError(t, err)
	assert.True(t, terminal)
	assert.Empty(t, b)
}

func TestEncoderEmpty(t *testing.T) {
	e, err := NewEncoder(nil, 32, 16)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Total())

	fs := frames(t, e)
	require.Len(t, fs, 1)
	assert.True(t, fs[0].Terminal())

	_, err = e.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNewEncoderInvalid(t *testing.T) {
	_, err := NewEncoder(nil, 16, 16)
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 31, 32, 33, 100, 1000} {
		p := payload(n)

		e, err := NewEncoder(p, 32, 16)
		require.NoError(t, err)

		var (
			out   bytes.Buffer
			count int
		)
		for _, f := range frames(t, e) {
			b, terminal, err := Validate(f.Cells)
			require.NoError(t, err)
			out.Write(b)
			count++
			assert.Equal(t, count == e.Total(), terminal, "frame %d of %d", count, e.Total())
		}

		assert.Equal(t, e.Total(), count)
		assert.Equal(t, p, out.Bytes()[:n], "%d byte payload", n)
		assert.Equal(t, n, out.Len())
	}
}

func TestValidateChecksumSensitivity(t *testing.T) {
	e, err := NewEncoder(payload(40), 32, 16)
	require.NoError(t, err)

	for _, f := range frames(t, e) {
		for _, i := range []int{0, 7, 63} {
			cells := append([]Cell(nil), f.Cells...)
			cells[i] ^= One
			_, _, err := Validate(cells)
			assert.ErrorIs(t, err, ErrChecksumMismatch, "frame %d bit %d", f.Index, i)
		}
	}
}

func TestValidateMalformed(t *testing.T) {
	e, err := NewEncoder(payload(40), 32, 16)
	require.NoError(t, err)
	fs := frames(t, e)

	t.Run("pad in checksum", func(t *testing.T) {
		cells := append([]Cell(nil), fs[0].Cells...)
		cells[len(cells)-1] = Pad
		_, _, err := Validate(cells)
		assert.ErrorIs(t, err, ErrMalformedFrame)
	})

	t.Run("unaligned data", func(t *testing.T) {
		cells := append([]Cell(nil), fs[1].Cells...)
		cells[0] = Pad
		_, _, err := Validate(cells)
		assert.ErrorIs(t, err, ErrMalformedFrame)
		assert.ErrorIs(t, err, checksum.ErrInvalidBitLength)
	})

	t.Run("short", func(t *testing.T) {
		_, _, err := Validate(make([]Cell, checksum.Size))
		assert.ErrorIs(t, err, ErrMalformedFrame)
	})
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "0", Zero.String())
	assert.Equal(t, "1", One.String())
	assert.Equal(t, "2", Pad.String())
	assert.Equal(t, "?", Cell(7).String())
	assert.Equal(t, "01122", Cells{Zero, One, One, Pad, Pad}.String())
}
