package lineedit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func fixedWidth(w int) WidthFunc {
	return func(rune) int { return w }
}

func TestStyledBufferInsertErase(t *testing.T) {
	b := NewStyledBuffer(fixedWidth(1))
	for i, cp := range "abc" {
		b.Insert(i, cp)
	}
	if got := b.String(); got != "abc" {
		t.Fatalf("String() = %q", got)
	}
	if b.Width() != 3 {
		t.Fatalf("Width() = %d, want 3", b.Width())
	}

	b.Erase(1, 2)
	if got := b.String(); got != "ac" {
		t.Fatalf("after Erase, String() = %q", got)
	}
	if b.Width() != 2 {
		t.Fatalf("after Erase, Width() = %d, want 2", b.Width())
	}
}

func TestStyledBufferWidthCacheConsistent(t *testing.T) {
	b := NewStyledBuffer(DefaultWidth)
	for i, cp := range "a世b" { // 世 is wide (width 2)
		b.Insert(b.Len(), cp)
		_ = i
	}
	sum := 0
	for i := 0; i < b.Len(); i++ {
		sum += b.WidthAt(i)
	}
	if sum != b.Width() {
		t.Fatalf("cached width %d != summed width %d", b.Width(), sum)
	}
}

func TestStyledBufferSwap(t *testing.T) {
	b := NewStyledBuffer(fixedWidth(1))
	b.Insert(0, 'a')
	b.Insert(1, 'b')
	b.Swap(0, 1)
	if got := b.String(); got != "ba" {
		t.Fatalf("after Swap, String() = %q", got)
	}
}

func TestStyledBufferSubstrConcat(t *testing.T) {
	b := NewStyledBuffer(fixedWidth(1))
	for i, cp := range "abcdef" {
		b.Insert(i, cp)
	}
	sub := b.Substr(2, 4)
	if sub.String() != "cd" {
		t.Fatalf("Substr = %q", sub.String())
	}

	joined := Concat(b.Substr(0, 2), b.Substr(4, 6))
	if joined.String() != "abef" {
		t.Fatalf("Concat = %q", joined.String())
	}
	if joined.Width() != 4 {
		t.Fatalf("Concat width = %d", joined.Width())
	}
}

func TestStyledBufferStyleMut(t *testing.T) {
	b := NewStyledBuffer(fixedWidth(1))
	for i, cp := range "abc" {
		b.Insert(i, cp)
	}
	w := b.StyleMut()
	w.Set(1, Style{Bold: true})

	want := Style{Bold: true}
	if got := b.StyleAt(1); got != want {
		t.Fatalf("StyleAt(1) = %+v, want %+v", got, want)
	}
	if got := b.StyleAt(0); !got.IsEmpty() {
		t.Fatalf("StyleAt(0) should remain empty, got %+v", got)
	}
}

func TestStyledBufferMasked(t *testing.T) {
	b := NewStyledBuffer(DefaultWidth)
	for _, cp := range "a世" {
		b.Insert(b.Len(), cp)
	}
	unmaskedWidth := b.Width()
	b.setMasked(true)
	if b.Width() != b.Len() {
		t.Fatalf("masked width = %d, want %d (1 per position)", b.Width(), b.Len())
	}
	b.setMasked(false)
	if b.Width() != unmaskedWidth {
		t.Fatalf("unmasking should restore original width, got %d want %d", b.Width(), unmaskedWidth)
	}
}

func TestStyledBufferBytesRoundTrip(t *testing.T) {
	b := NewStyledBuffer(fixedWidth(1))
	for _, cp := range "héllo" {
		b.Insert(b.Len(), cp)
	}
	if got := string(b.Bytes()); got != "héllo" {
		t.Fatalf("Bytes() = %q", got)
	}
}

func TestStyledBufferDiffableWithGoCmp(t *testing.T) {
	a := NewStyledBuffer(fixedWidth(1))
	a.Insert(0, 'x')
	b := NewStyledBuffer(fixedWidth(1))
	b.Insert(0, 'y')

	diff := cmp.Diff(a, b,
		cmp.AllowUnexported(StyledBuffer{}),
		cmpopts.IgnoreFields(StyledBuffer{}, "widthFn"),
	)
	if diff == "" {
		t.Fatalf("expected a non-empty diff between buffers holding different runes")
	}
}
