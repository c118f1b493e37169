package lineedit

// Decoder is an incremental byte-to-code-point UTF-8 decoder. Feed one byte
// at a time; it emits a code point exactly when a complete, well-formed
// sequence has been consumed. Grounded on the incremental rune-assembly the
// reader's keystream needs (spec §4.1): the alternative of buffering whole
// reads and calling utf8.DecodeRune doesn't fit a byte-at-a-time state
// machine driven by raw terminal reads of unpredictable chunk size.
type Decoder struct {
	need int    // remaining continuation bytes expected
	cp   rune   // code point accumulated so far
	min  rune   // minimum valid value for this sequence length (overlong check)
}

// IsContinuationByte reports whether b is a UTF-8 continuation byte (top two
// bits == 0b10).
func IsContinuationByte(b byte) bool {
	return b&0xC0 == 0x80
}

// Feed consumes one byte. ok is true exactly when r holds a newly completed
// code point. err is non-nil when b cannot start a sequence, or when it
// completes an overlong or out-of-range one; the decoder resets itself so
// the next byte begins fresh. A byte that interrupts an incomplete sequence
// abandons that sequence without an error and is decoded as a new start.
func (d *Decoder) Feed(b byte) (r rune, ok bool, err error) {
	if d.need > 0 {
		if !IsContinuationByte(b) {
			d.reset()
			return d.Feed(b)
		}
		d.cp = d.cp<<6 | rune(b&0x3F)
		d.need--
		if d.need == 0 {
			cp := d.cp
			min := d.min
			d.reset()
			if cp < min || cp > 0x10FFFF {
				return 0, false, &DecodeError{Byte: b}
			}
			return cp, true, nil
		}
		return 0, false, nil
	}

	switch {
	case b < 0x80:
		return rune(b), true, nil
	case b&0xE0 == 0xC0:
		d.cp = rune(b & 0x1F)
		d.need = 1
		d.min = 0x80
		return 0, false, nil
	case b&0xF0 == 0xE0:
		d.cp = rune(b & 0x0F)
		d.need = 2
		d.min = 0x800
		return 0, false, nil
	case b&0xF8 == 0xF0:
		d.cp = rune(b & 0x07)
		d.need = 3
		d.min = 0x10000
		return 0, false, nil
	default:
		return 0, false, &DecodeError{Byte: b}
	}
}

func (d *Decoder) reset() {
	d.need = 0
	d.cp = 0
	d.min = 0
}

// Decode is a pure batch helper over Feed. It fails on the first malformed
// sequence in b.
func Decode(b []byte) (string, error) {
	var dec Decoder
	var out []rune
	for i, by := range b {
		if dec.need > 0 && !IsContinuationByte(by) {
			return "", &DecodeError{Offset: i, Byte: by}
		}
		r, ok, err := dec.Feed(by)
		if err != nil {
			return "", &DecodeError{Offset: i, Byte: by}
		}
		if ok {
			out = append(out, r)
		}
	}
	if dec.need != 0 {
		return "", &DecodeError{Offset: len(b), Byte: b[len(b)-1]}
	}
	return string(out), nil
}

// Encode is a pure helper that UTF-8 encodes a sequence of code points,
// failing if any scalar exceeds U+10FFFF.
func Encode(cps []rune) ([]byte, error) {
	out := make([]byte, 0, len(cps))
	for _, cp := range cps {
		if cp < 0 || cp > 0x10FFFF {
			return nil, &EncodeError{CodePoint: cp}
		}
		out = appendUTF8(out, cp)
	}
	return out, nil
}

func appendUTF8(out []byte, cp rune) []byte {
	switch {
	case cp < 0x80:
		return append(out, byte(cp))
	case cp < 0x800:
		return append(out,
			byte(0xC0|cp>>6),
			byte(0x80|cp&0x3F))
	case cp < 0x10000:
		return append(out,
			byte(0xE0|cp>>12),
			byte(0x80|(cp>>6)&0x3F),
			byte(0x80|cp&0x3F))
	default:
		return append(out,
			byte(0xF0|cp>>18),
			byte(0x80|(cp>>12)&0x3F),
			byte(0x80|(cp>>6)&0x3F),
			byte(0x80|cp&0x3F))
	}
}
