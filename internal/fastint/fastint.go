// Package fastint implements the integer encoding used by region maps and
// hit-count dumps: uppercase hexadecimal with the least significant nibble
// first, so writers can emit digits without reversing a buffer.
package fastint

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalid is returned for tokens that are not fast-int encoded.
var ErrInvalid = errors.New("invalid fast-int")

const digits = "0123456789ABCDEF"

// maxDigits is the number of nibbles in a uint64.
const maxDigits = 16

// Append appends the encoding of v to dst.
func Append(dst []byte, v uint64) []byte {
	for {
		dst = append(dst, digits[v&0xF])
		v >>= 4

		if v == 0 {
			return dst
		}
	}
}

// Encode returns the encoding of v.
func Encode(v uint64) string {
	var buf [maxDigits]byte

	return string(Append(buf[:0], v))
}

// Decode parses an encoded token. Only [0-9A-F]+ is accepted.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty token", ErrInvalid)
	}

	if len(s) > maxDigits {
		return 0, fmt.Errorf("%w: %q overflows 64 bits", ErrInvalid, s)
	}

	var v uint64

	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]

		var d uint64

		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return 0, fmt.Errorf("%w: %s", ErrInvalid, strconv.Quote(s))
		}

		v = v<<4 | d
	}

	return v, nil
}
