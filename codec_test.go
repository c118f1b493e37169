package lineedit

import "testing"

func TestDecoderASCII(t *testing.T) {
	var d Decoder
	r, ok, err := d.Feed('a')
	if err != nil || !ok || r != 'a' {
		t.Fatalf("Feed('a') = %q, %v, %v", r, ok, err)
	}
}

func TestDecoderMultiByte(t *testing.T) {
	// 'é' = U+00E9 = 0xC3 0xA9
	var d Decoder
	if _, ok, err := d.Feed(0xC3); ok || err != nil {
		t.Fatalf("unexpected completion/error on lead byte: %v %v", ok, err)
	}
	r, ok, err := d.Feed(0xA9)
	if err != nil || !ok || r != 'é' {
		t.Fatalf("Feed sequence = %q, %v, %v", r, ok, err)
	}
}

func TestDecoderOverlongRejected(t *testing.T) {
	// 0xC0 0x80 is an overlong encoding of NUL.
	var d Decoder
	d.Feed(0xC0)
	_, _, err := d.Feed(0x80)
	if err == nil {
		t.Fatalf("expected overlong sequence to be rejected")
	}
}

func TestDecoderRoundTripsSurrogateScalar(t *testing.T) {
	// decode(encode(cps)) == cps must hold for any scalar <= 0x10FFFF
	// (spec §8), including surrogate-range values: Encode has no special
	// case for them, so Feed must not reject what Encode produced.
	b, err := Encode([]rune{0xD800})
	if err != nil {
		t.Fatalf("Encode(0xD800): %v", err)
	}
	var d Decoder
	var got rune
	var ok bool
	for _, by := range b {
		got, ok, err = d.Feed(by)
		if err != nil {
			t.Fatalf("Feed: unexpected error decoding an encoded surrogate: %v", err)
		}
	}
	if !ok || got != 0xD800 {
		t.Fatalf("decoded %q, ok=%v, want U+D800, true", got, ok)
	}
}

func TestDecoderOrphanContinuationRecovers(t *testing.T) {
	var d Decoder
	if _, _, err := d.Feed(0xC3); err != nil {
		t.Fatalf("unexpected error on lead byte: %v", err)
	}
	// Feed an ASCII byte instead of the expected continuation: the decoder
	// must reset and treat it as a fresh sequence, not deadlock.
	r, ok, err := d.Feed('x')
	if err != nil || !ok || r != 'x' {
		t.Fatalf("Feed after orphan continuation = %q, %v, %v", r, ok, err)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	s := "hello, héllo, 世界"
	b, err := Encode([]rune(s))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(b) != s {
		t.Fatalf("Encode round trip mismatch: %q != %q", b, s)
	}
	decoded, err := Decode([]byte(s))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != s {
		t.Fatalf("Decode round trip mismatch: %q != %q", decoded, s)
	}
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	_, err := Encode([]rune{0x110000})
	if err == nil {
		t.Fatalf("expected EncodeError for out-of-range code point")
	}
}

func TestIsContinuationByte(t *testing.T) {
	if !IsContinuationByte(0x80) || !IsContinuationByte(0xBF) {
		t.Fatalf("0x80/0xBF should be continuation bytes")
	}
	if IsContinuationByte(0x00) || IsContinuationByte(0xC0) {
		t.Fatalf("0x00/0xC0 should not be continuation bytes")
	}
}
