/*
Package checksum implements the fixed-length integrity digest attached to
every frame.

Bits are passed around as one value per byte, 0 or 1, most significant bit
of each packed byte first. The digest is the SHA-256 of the packed bytes,
expanded back into its 256-bit big-endian binary representation.
*/
package checksum

import (
	"crypto/sha256"
	"errors"
)

// Size is the length of a digest in bits.
const Size = sha256.Size * 8

var (
	// ErrInvalidBitLength is returned when a bit string does not pack into
	// whole bytes.
	ErrInvalidBitLength = errors.New("checksum: bit length is not a multiple of 8")

	errInvalidBit = errors.New("checksum: invalid bit value")
)

// Pack packs bits into bytes, most significant bit first.
func Pack(bits []byte) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, ErrInvalidBitLength
	}

	b := make([]byte, len(bits)>>3)
	for i, bit := range bits {
		switch bit {
		case 0:
		case 1:
			b[i>>3] |= 0x80 >> (i & 7)
		default:
			return nil, errInvalidBit
		}
	}

	return b, nil
}

// Unpack expands bytes into bits, most significant bit first.
func Unpack(b []byte) []byte {
	bits := make([]byte, 0, len(b)<<3)
	for _, x := range b {
		for shift := 7; shift >= 0; shift-- {
			bits = append(bits, x>>shift&1)
		}
	}
	return bits
}

// Digest returns the 256-bit digest of bits. The length of bits must be a
// multiple of 8; an empty bit string hashes as the empty byte string.
func Digest(bits []byte) ([]byte, error) {
	b, err := Pack(bits)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(b)
	return Unpack(sum[:]), nil
}

// Equal reports whether two bit strings are identical.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
