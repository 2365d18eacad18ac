package varint

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeZeroIsSingleZeroByte(t *testing.T) {
	assert.Equal(t, []byte{0x00}, Encode(0))
}

func TestEncodeSmallMagnitudesFitOneByte(t *testing.T) {
	for v := int64(-63); v <= 63; v++ {
		assert.Len(t, Encode(v), 1, "value %d should encode in one byte", v)
	}
	assert.Len(t, Encode(64), 2)
	assert.Len(t, Encode(-64), 2)
}

func TestRoundTrip(t *testing.T) {
	values := []int64{
		0, 1, -1, 63, -63, 64, -64, 127, -128,
		1000, -1000, 1 << 20, -(1 << 20),
		math.MaxInt64, math.MinInt64,
	}

	for _, v := range values {
		encoded := Encode(v)
		require.LessOrEqual(t, len(encoded), MaxLen)

		decoded, n, err := Read(bytes.NewReader(encoded))
		require.NoError(t, err, "value %d", v)
		assert.Equal(t, v, decoded)
		assert.Equal(t, len(encoded), n)
	}
}

func TestReadConcatenatedValues(t *testing.T) {
	values := []int64{5, -3, 0, 1000, math.MinInt64}
	var buf []byte
	for _, v := range values {
		buf = Append(buf, v)
	}

	r := bytes.NewReader(buf)
	for _, want := range values {
		got, _, err := Read(r)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, _, err := Read(r)
	assert.Equal(t, io.EOF, err)
}

func TestReadEmptyInputIsEOF(t *testing.T) {
	_, n, err := Read(bytes.NewReader(nil))
	assert.Equal(t, io.EOF, err)
	assert.Zero(t, n)
}

func TestReadTruncatedEncoding(t *testing.T) {
	encoded := Encode(1 << 40)
	require.Greater(t, len(encoded), 1)

	// Drop the terminating byte.
	_, _, err := Read(bytes.NewReader(encoded[:len(encoded)-1]))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadOverlongEncoding(t *testing.T) {
	// Eleven continuation bytes never terminate a valid encoding.
	corrupt := bytes.Repeat([]byte{0xff}, 11)
	_, _, err := Read(bytes.NewReader(corrupt))
	assert.ErrorIs(t, err, ErrMalformed)
}
