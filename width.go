package lineedit

import "github.com/mattn/go-runewidth"

// DefaultWidth is the WidthFunc used when a Reader or StyledBuffer is
// constructed without one. It delegates to go-runewidth, the East-Asian/
// combining-mark width table the wider example corpus's terminal UIs and
// prompt libraries already depend on (see SPEC_FULL.md's DOMAIN STACK).
func DefaultWidth(r rune) int {
	return runewidth.RuneWidth(r)
}
