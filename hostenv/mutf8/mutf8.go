// Package mutf8 converts between UTF-16 host strings and the modified
// UTF-8 encoding JNI uses for GetStringUTFChars.
//
// Modified UTF-8 differs from standard UTF-8 in two ways: U+0000 is
// written as the two bytes C0 80, and characters outside the BMP are
// written as a surrogate pair, three bytes per surrogate. A raw 0x00 byte
// therefore only ever appears as a terminator.
package mutf8

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	// ErrInvalid is returned for malformed input or unpaired surrogates.
	ErrInvalid = errors.New("mutf8: invalid modified UTF-8")
	// ErrUnterminated is returned when a C string has no NUL terminator.
	ErrUnterminated = errors.New("mutf8: missing NUL terminator")
)

// Encode converts UTF-16 code units to modified UTF-8. Unpaired
// surrogates are encoded as-is, as the JVM does.
func Encode(units []uint16) []byte {
	out := make([]byte, 0, len(units))
	for _, u := range units {
		switch {
		case u == 0:
			out = append(out, 0xC0, 0x80)
		case u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
		default:
			out = append(out, 0xE0|byte(u>>12), 0x80|byte((u>>6)&0x3F), 0x80|byte(u&0x3F))
		}
	}
	return out
}

// EncodeCString is Encode followed by a NUL terminator.
func EncodeCString(units []uint16) []byte {
	return append(Encode(units), 0)
}

// DecodeCString decodes a NUL-terminated modified UTF-8 string. Bytes after
// the terminator are ignored.
func DecodeCString(b []byte) (string, error) {
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return "", ErrUnterminated
	}
	return Decode(b[:end])
}

// Decode converts modified UTF-8 to a Go string, rejecting unpaired
// surrogates and anything standard UTF-8 would reject.
func Decode(b []byte) (string, error) {
	units, err := decodeUnits(b)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case utf16.IsSurrogate(rune(u)):
			if u >= 0xDC00 || i+1 >= len(units) {
				return "", ErrInvalid
			}
			r := utf16.DecodeRune(rune(u), rune(units[i+1]))
			if r == utf8.RuneError {
				return "", ErrInvalid
			}
			sb.WriteRune(r)
			i++
		default:
			sb.WriteRune(rune(u))
		}
	}
	return sb.String(), nil
}

func decodeUnits(b []byte) ([]uint16, error) {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0:
			return nil, ErrInvalid
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return nil, ErrInvalid
			}
			u := uint16(c&0x1F)<<6 | uint16(b[i+1]&0x3F)
			if u != 0 && u < 0x80 {
				return nil, ErrInvalid
			}
			units = append(units, u)
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return nil, ErrInvalid
			}
			u := uint16(c&0x0F)<<12 | uint16(b[i+1]&0x3F)<<6 | uint16(b[i+2]&0x3F)
			if u < 0x800 {
				return nil, ErrInvalid
			}
			units = append(units, u)
			i += 3
		default:
			return nil, ErrInvalid
		}
	}
	return units, nil
}
