package protocol

import "errors"

var ErrPayload = errors.New("malformed hex payload")

const hexDigits = "0123456789ABCDEF"

// EncodeHex renders value as fixed-width uppercase hex with the wire's
// byte order: full bytes are transmitted least significant first, so
// 0x123456 at width 6 becomes "563412". Odd widths (the 3-digit status
// word) are plain big-endian nibbles.
func EncodeHex(value uint32, width int) string {
	buf := make([]byte, width)
	if width%2 != 0 {
		for i := width - 1; i >= 0; i-- {
			buf[i] = hexDigits[value&0xF]
			value >>= 4
		}
		return string(buf)
	}
	for i := 0; i < width; i += 2 {
		b := byte(value)
		value >>= 8
		buf[i] = hexDigits[b>>4]
		buf[i+1] = hexDigits[b&0xF]
	}
	return string(buf)
}

// DecodeHex parses a fixed-width payload produced by EncodeHex.
func DecodeHex(s string, width int) (uint32, error) {
	if len(s) < width {
		return 0, ErrPayload
	}
	var v uint32
	if width%2 != 0 {
		for i := 0; i < width; i++ {
			n, ok := nibble(s[i])
			if !ok {
				return 0, ErrPayload
			}
			v = v<<4 | uint32(n)
		}
		return v, nil
	}
	for i := width - 2; i >= 0; i -= 2 {
		hi, ok1 := nibble(s[i])
		lo, ok2 := nibble(s[i+1])
		if !ok1 || !ok2 {
			return 0, ErrPayload
		}
		v = v<<8 | uint32(hi)<<4 | uint32(lo)
	}
	return v, nil
}

// DecodeUint24 parses the common 6-digit axis value payload.
func DecodeUint24(s string) (uint32, error) {
	return DecodeHex(s, 6)
}

// DecodeUint16 parses a 4-digit payload.
func DecodeUint16(s string) (uint32, error) {
	return DecodeHex(s, 4)
}

// DecodeUint8 parses a 2-digit payload.
func DecodeUint8(s string) (uint32, error) {
	return DecodeHex(s, 2)
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
