package fbdev

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitFieldRoundTrip(t *testing.T) {
	tables := map[string]bitField{
		"rgb565 red":   {Offset: 11, Length: 5},
		"rgb565 green": {Offset: 5, Length: 6},
		"xrgb8888":     {Offset: 16, Length: 8},
		"empty":        {},
	}

	for name, b := range tables {
		t.Run(name, func(t *testing.T) {
			mask := uint8(0xff) << (8 - b.Length)
			for _, level := range []uint8{0x00, 0x55, 0xff} {
				got := uint8(b.get(b.put(level)) >> 8)
				assert.Equal(t, level&mask, got&mask, "level %#02x", level)
			}
		})
	}
}

func TestLuma(t *testing.T) {
	assert.Equal(t, uint8(0), luma(0, 0, 0))
	assert.Equal(t, uint8(0xff), luma(0xffff, 0xffff, 0xffff))
	assert.Equal(t, uint8(0x55), luma(0x5555, 0x5555, 0x5555))
}
