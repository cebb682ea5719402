package fbdev

// bitField describes where one color channel lives in a packed pixel.
type bitField struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// get extracts the channel from v, scaled to 16 bits.
func (b bitField) get(v uint32) uint32 {
	if b.Length == 0 {
		return 0
	}
	c := v >> b.Offset & (1<<b.Length - 1)
	// Replicate the high bits into the low bits
	c <<= 16 - b.Length
	for shift := b.Length; shift < 16; shift <<= 1 {
		c |= c >> shift
	}
	return c & 0xffff
}

// put packs the 8-bit level into the channel.
func (b bitField) put(level uint8) uint32 {
	if b.Length == 0 {
		return 0
	}
	c := uint32(level)
	if b.Length < 8 {
		c >>= 8 - b.Length
	} else {
		c <<= b.Length - 8
	}
	return c << b.Offset
}
