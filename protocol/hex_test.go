package protocol

import "testing"

func TestEncodeHexByteOrder(t *testing.T) {
	tests := []struct {
		value uint32
		width int
		want  string
	}{
		// Even widths transmit full bytes least significant first.
		{0x123456, 6, "563412"},
		{0x000001, 6, "010000"},
		{0xABCDEF, 6, "EFCDAB"},
		{0x1234, 4, "3412"},
		{0xAB, 2, "AB"},
		// Odd widths are plain big-endian nibbles (the status word).
		{0x151, 3, "151"},
		{0x005, 3, "005"},
	}

	for _, tt := range tests {
		if got := EncodeHex(tt.value, tt.width); got != tt.want {
			t.Errorf("EncodeHex(%#x, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
		}
	}
}

func TestDecodeHexRoundTrip(t *testing.T) {
	for _, width := range []int{2, 3, 4, 6} {
		for _, v := range []uint32{0, 1, 0x5A, 0xFF} {
			enc := EncodeHex(v, width)
			got, err := DecodeHex(enc, width)
			if err != nil {
				t.Fatalf("DecodeHex(%q, %d): %v", enc, width, err)
			}
			if got != v {
				t.Errorf("round trip %#x at width %d: got %#x", v, width, got)
			}
		}
	}

	if v, err := DecodeUint24("563412"); err != nil || v != 0x123456 {
		t.Errorf("DecodeUint24 = %#x, %v", v, err)
	}
}

func TestDecodeHexLowercase(t *testing.T) {
	v, err := DecodeHex("efcdab", 6)
	if err != nil || v != 0xABCDEF {
		t.Errorf("lowercase decode = %#x, %v", v, err)
	}
}

func TestDecodeHexErrors(t *testing.T) {
	if _, err := DecodeHex("12", 6); err == nil {
		t.Error("short payload accepted")
	}
	if _, err := DecodeHex("12G456", 6); err == nil {
		t.Error("non-hex digit accepted")
	}
}

func TestAssembleReply(t *testing.T) {
	if got := AssembleReply('j', 0x123456); got != "=563412\r" {
		t.Errorf("position reply = %q", got)
	}
	if got := AssembleReply('f', 0x101); got != "=101\r" {
		t.Errorf("status reply = %q", got)
	}
	// Commands without a payload ack with a bare reply.
	if got := AssembleReply('K', 0); got != "=\r" {
		t.Errorf("ack reply = %q", got)
	}
}

func TestAssembleError(t *testing.T) {
	if got := AssembleError(ErrCodeUnknownCmd); got != "!0\r" {
		t.Errorf("error reply = %q", got)
	}
}
