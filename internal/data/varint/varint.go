// Package varint implements the zig-zag LEB128 encoding used by the
// timestamp log files. Signed 64-bit values are mapped to unsigned words
// via the zig-zag transform, then emitted 7 bits at a time with the high
// bit of every byte except the last set as a continuation flag.
package varint

import (
	"errors"
	"io"
)

// MaxLen is the longest possible encoding of a single value: a 64-bit
// word split into 7-bit groups needs at most 10 bytes.
const MaxLen = 10

// ErrMalformed indicates a truncated or overlong varint encoding.
var ErrMalformed = errors.New("varint: malformed encoding")

// Append appends the encoding of v to dst and returns the extended slice.
func Append(dst []byte, v int64) []byte {
	u := uint64(v<<1) ^ uint64(v>>63)
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

// Encode returns the encoding of v as a fresh slice.
func Encode(v int64) []byte {
	return Append(make([]byte, 0, MaxLen), v)
}

// Read decodes a single value from r and reports how many bytes were
// consumed. It fails with ErrMalformed if r ends before a terminating
// byte (one without the continuation flag) or if more than MaxLen bytes
// carry the flag. A clean end of input before the first byte is reported
// as io.EOF so callers can distinguish "no more entries" from corruption.
func Read(r io.ByteReader) (v int64, n int, err error) {
	var u uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			if n == 0 && err == io.EOF {
				return 0, 0, io.EOF
			}
			return 0, n, ErrMalformed
		}
		n++
		if n > MaxLen {
			return 0, n, ErrMalformed
		}
		u |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	v = int64(u>>1) ^ -int64(u&1)
	return v, n, nil
}
