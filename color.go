package lineedit

import "fmt"

// ColorKind selects which member of Color is meaningful.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed
	ColorRGB
)

// Color is a tagged value: absent, an indexed palette entry (0-255), or a
// 24-bit RGB triple.
type Color struct {
	Kind    ColorKind
	Index   uint8 // valid when Kind == ColorIndexed
	R, G, B uint8 // valid when Kind == ColorRGB
}

// Named 4-bit palette indices, per spec §3.
const (
	Black = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	Gray // bright_black
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

// Indexed builds a palette Color from an index in 0-255.
func Indexed(idx uint8) Color { return Color{Kind: ColorIndexed, Index: idx} }

// RGB builds a 24-bit Color.
func RGB(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// sgr renders the color as the parameter list for an SGR escape, using
// prefix 38 for foreground or 48 for background (see SPEC_FULL.md §9: the
// reference implementation's background/foreground confusion is fixed
// here by always taking the prefix as a parameter rather than hardcoding
// 38).
func (c Color) sgr(prefix int) string {
	switch c.Kind {
	case ColorIndexed:
		return fmt.Sprintf("%d;5;%d", prefix, c.Index)
	case ColorRGB:
		return fmt.Sprintf("%d;2;%d;%d;%d", prefix, c.R, c.G, c.B)
	default:
		return ""
	}
}

// Style is the triple of attributes carried per code point in a
// StyledBuffer. The zero Style is "empty" and represents the terminal's
// implicit reset state.
type Style struct {
	Bold bool
	Fg   Color
	Bg   Color
}

// IsEmpty reports whether s is the default, unstyled value.
func (s Style) IsEmpty() bool {
	return s == Style{}
}

// sgrParams builds the "0;..." parameter list for a CSI ... m escape that
// switches to style s from the implicit reset state.
func (s Style) sgrParams() string {
	out := "0"
	if s.Bold {
		out += ";1"
	}
	if fg := s.Fg.sgr(38); fg != "" {
		out += ";" + fg
	}
	if bg := s.Bg.sgr(48); bg != "" {
		out += ";" + bg
	}
	return out
}
