package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpack(t *testing.T) {
	bits := []byte{1, 0, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1}

	b, err := Pack(bits)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa5, 0x01}, b)
	assert.Equal(t, bits, Unpack(b))
}

func TestPackInvalid(t *testing.T) {
	_, err := Pack([]byte{1, 0, 1})
	assert.ErrorIs(t, err, ErrInvalidBitLength)

	_, err = Pack([]byte{0, 0, 0, 2, 0, 0, 0, 0})
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	bits := Unpack([]byte("abc"))

	digest, err := Digest(bits)
	require.NoError(t, err)
	require.Len(t, digest, Size)

	b, err := Pack(digest)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(b))

	again, err := Digest(bits)
	require.NoError(t, err)
	assert.True(t, Equal(digest, again))
}

func TestDigestEmpty(t *testing.T) {
	digest, err := Digest(nil)
	require.NoError(t, err)

	sum := sha256.Sum256(nil)
	assert.Equal(t, Unpack(sum[:]), digest)
}

func TestDigestInvalidBitLength(t *testing.T) {
	for _, n := range []int{1, 7, 9, 255} {
		_, err := Digest(make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidBitLength, "%d bits", n)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]byte{0, 1}, []byte{0, 1}))
	assert.False(t, Equal([]byte{0, 1}, []byte{1, 1}))
	assert.False(t, Equal([]byte{0, 1}, []byte{0, 1, 0}))
}
