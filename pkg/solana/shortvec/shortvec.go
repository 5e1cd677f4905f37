// Package shortvec implements the compact-u16 length prefix used throughout
// the Solana wire format.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// maxEncodedLen is the widest encoding of a uint16.
const maxEncodedLen = 3

var (
	ErrLenTooLarge = errors.Errorf("len exceeds %d", math.MaxUint16)
	ErrInvalidLen  = errors.New("invalid shortvec encoding")
)

// AppendLen appends the encoding of n to dst.
func AppendLen(dst []byte, n int) ([]byte, error) {
	if n < 0 || n > math.MaxUint16 {
		return dst, ErrLenTooLarge
	}

	for n >= 0x80 {
		dst = append(dst, byte(n)|0x80)
		n >>= 7
	}
	return append(dst, byte(n)), nil
}

// EncodeLen writes the encoding of n to w.
func EncodeLen(w io.Writer, n int) (int, error) {
	encoded, err := AppendLen(make([]byte, 0, maxEncodedLen), n)
	if err != nil {
		return 0, err
	}
	return w.Write(encoded)
}

// EncodedLen returns the number of bytes the encoding of n occupies.
func EncodedLen(n int) int {
	size := 1
	for n >= 0x80 {
		n >>= 7
		size++
	}
	return size
}

// DecodeLen reads an encoded length from r.
func DecodeLen(r io.Reader) (int, error) {
	var b [1]byte
	var n int
	for i := 0; i < maxEncodedLen; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		n |= int(b[0]&0x7f) << (7 * i)
		if b[0]&0x80 == 0 {
			return n, nil
		}
	}
	return 0, ErrInvalidLen
}
