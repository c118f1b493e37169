package lineedit

import "github.com/goterm/lineedit/internal/debug"

// WidthFunc reports the display width (0, 1, or 2 columns) of a code point.
// Values outside that range are normalized per spec §9: negative (combining
// mark tables that use -1) becomes 0, anything above 2 becomes 1.
type WidthFunc func(r rune) int

func normalizeWidth(w int) int {
	switch {
	case w < 0:
		return 0
	case w > 2:
		return 1
	default:
		return w
	}
}

// StyledBuffer is a code-point-indexed sequence carrying, per position, a
// display width and a style attribute. It is the sole mutable
// representation of the editable line (spec §3).
type StyledBuffer struct {
	runes  []rune
	widths []int
	styles []Style
	width  int // cached sum of widths
	masked bool

	widthFn WidthFunc
}

// NewStyledBuffer returns an empty buffer using widthFn to size inserted
// code points. A nil widthFn defaults to DefaultWidth.
func NewStyledBuffer(widthFn WidthFunc) *StyledBuffer {
	if widthFn == nil {
		widthFn = DefaultWidth
	}
	return &StyledBuffer{widthFn: widthFn}
}

// Len returns the number of code points in the buffer.
func (b *StyledBuffer) Len() int { return len(b.runes) }

// Width returns the cached total display width.
func (b *StyledBuffer) Width() int { return b.width }

// Rune returns the code point at index i.
func (b *StyledBuffer) Rune(i int) rune { return b.runes[i] }

// WidthAt returns the display width at index i.
func (b *StyledBuffer) WidthAt(i int) int { return b.widths[i] }

// StyleAt returns the style at index i.
func (b *StyledBuffer) StyleAt(i int) Style { return b.styles[i] }

// Insert inserts cp at code-point index i, computing its width via the
// buffer's width function. O(N).
func (b *StyledBuffer) Insert(i int, cp rune) {
	debug.Assert(i >= 0 && i <= len(b.runes), "StyledBuffer.Insert: index out of range")
	w := normalizeWidth(b.widthFn(cp))
	if b.Masked() {
		w = 1
	}
	b.runes = insertRune(b.runes, i, cp)
	b.widths = insertInt(b.widths, i, w)
	b.styles = insertStyle(b.styles, i, Style{})
	b.width += w
}

// InsertStyled is like Insert but also sets the style of the new position.
func (b *StyledBuffer) InsertStyled(i int, cp rune, style Style) {
	b.Insert(i, cp)
	b.styles[i] = style
}

// Erase removes the half-open code-point range [i, j). O(N).
func (b *StyledBuffer) Erase(i, j int) {
	debug.Assert(i >= 0 && j <= len(b.runes) && i <= j, "StyledBuffer.Erase: range out of bounds")
	for k := i; k < j; k++ {
		b.width -= b.widths[k]
	}
	b.runes = append(b.runes[:i], b.runes[j:]...)
	b.widths = append(b.widths[:i], b.widths[j:]...)
	b.styles = append(b.styles[:i], b.styles[j:]...)
}

// Swap exchanges the code point, width, and style at positions i and j.
func (b *StyledBuffer) Swap(i, j int) {
	debug.Assert(i >= 0 && i < len(b.runes) && j >= 0 && j < len(b.runes), "StyledBuffer.Swap: index out of range")
	b.runes[i], b.runes[j] = b.runes[j], b.runes[i]
	b.widths[i], b.widths[j] = b.widths[j], b.widths[i]
	b.styles[i], b.styles[j] = b.styles[j], b.styles[i]
}

// Substr returns a new buffer holding the half-open code-point range
// [i, j), with total width recomputed by summation.
func (b *StyledBuffer) Substr(i, j int) *StyledBuffer {
	out := NewStyledBuffer(b.widthFn)
	out.runes = append([]rune(nil), b.runes[i:j]...)
	out.widths = append([]int(nil), b.widths[i:j]...)
	out.styles = append([]Style(nil), b.styles[i:j]...)
	for _, w := range out.widths {
		out.width += w
	}
	return out
}

// Concat returns a new buffer with a's contents followed by b2's.
func Concat(a, b2 *StyledBuffer) *StyledBuffer {
	out := NewStyledBuffer(a.widthFn)
	out.runes = append(append([]rune(nil), a.runes...), b2.runes...)
	out.widths = append(append([]int(nil), a.widths...), b2.widths...)
	out.styles = append(append([]Style(nil), a.styles...), b2.styles...)
	out.width = a.width + b2.width
	return out
}

// StyleWriter is a writable handle onto a buffer's per-position style
// array, exposed to colorization callbacks (spec §4.2, §6). Set takes a
// code-point index, not a byte offset, so the callback need not reason
// about UTF-8.
type StyleWriter struct {
	buf *StyledBuffer
}

// StyleMut returns a handle for mutating styles in place.
func (b *StyledBuffer) StyleMut() *StyleWriter { return &StyleWriter{buf: b} }

// Set assigns the style at code-point index i.
func (w *StyleWriter) Set(i int, s Style) {
	if i >= 0 && i < len(w.buf.styles) {
		w.buf.styles[i] = s
	}
}

// Bytes UTF-8 encodes the buffer's code points.
func (b *StyledBuffer) Bytes() []byte {
	out, _ := Encode(b.runes)
	return out
}

// String returns the buffer's contents as a string.
func (b *StyledBuffer) String() string {
	return string(b.runes)
}

// masked, when true, forces every position's display width to 1 and
// instructs the view to render '*' instead of the real glyph (spec §3).
// It is tracked on the buffer so Insert can size new positions correctly
// even while masked.
func (b *StyledBuffer) Masked() bool { return b.masked }

func (b *StyledBuffer) setMasked(v bool) {
	if b.masked == v {
		return
	}
	b.masked = v
	b.width = 0
	for i := range b.widths {
		w := 1
		if !v {
			w = normalizeWidth(b.widthFn(b.runes[i]))
		}
		b.widths[i] = w
		b.width += w
	}
}

func insertRune(s []rune, i int, v rune) []rune {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertInt(s []int, i int, v int) []int {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertStyle(s []Style, i int, v Style) []Style {
	s = append(s, Style{})
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
