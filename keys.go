package lineedit

// Control key code points, per spec §4.6.
const (
	keyCtrlA      rune = 1
	keyCtrlB      rune = 2
	keyCtrlC      rune = 3
	keyCtrlD      rune = 4
	keyCtrlE      rune = 5
	keyCtrlF      rune = 6
	keyBell       rune = 7
	keyBackspace  rune = 8
	keyTab        rune = 9
	keyCtrlK      rune = 11
	keyCtrlL      rune = 12
	keyEnter      rune = 13
	keyCtrlN      rune = 14
	keyCtrlP      rune = 16
	keyCtrlT      rune = 20
	keyCtrlU      rune = 21
	keyCtrlW      rune = 23
	keyEsc        rune = 27
	keyDel        rune = 127
)
