package lineedit

import (
	"fmt"
	"io"
)

// Frame is the target the view renders: the current buffer, cursor
// position, optional hint, and prompt, against the terminal's current
// width (spec §4.5).
type Frame struct {
	Prompt  *StyledBuffer
	Buffer  *StyledBuffer
	Hint    *StyledBuffer
	Cursor  int // code-point index into Buffer
	Columns int
}

// View translates a target Frame into the minimal escape-sequence diff
// required to make the terminal match it, given the last rendered frame.
// Grounded on the teacher's Renderer (style-run coalescing, "move, don't
// repaint" cursor discipline) and kylelemons/goat/term's direct \b/space
// overwrite technique for the same goal on a much smaller scale.
type View struct {
	out       io.Writer
	last      *StyledBuffer // prompt ++ visible buffer (++ hint) last written
	cursorCol int           // physical cursor column after the last Sync
	viewStart int           // scrolling anchor into Buffer
}

// NewView returns a View that writes escape sequences to out.
func NewView(out io.Writer) *View {
	return &View{out: out}
}

// ViewStart returns the current scrolling anchor. The View keeps it across
// Sync calls itself; the Reader does not read or save it.
func (v *View) ViewStart() int { return v.viewStart }

// SetViewStart sets the scrolling anchor that the next Sync starts from.
func (v *View) SetViewStart(i int) { v.viewStart = i }

// computeViewport implements spec §4.5's viewport computation.
func (v *View) computeViewport(buf *StyledBuffer, cursor, budget int) (start, end int) {
	if budget < 1 {
		budget = 1
	}
	start = v.viewStart
	if cursor < start {
		start = cursor
	}

	fwdEnd, fwdWidth := scanForward(buf, start, budget)
	if cursor > fwdEnd {
		start = scanBackward(buf, cursor, budget)
		end = cursor
	} else {
		start = scanBackward(buf, start, budget-fwdWidth)
		end = fwdEnd
	}
	return start, end
}

func scanForward(buf *StyledBuffer, from, budget int) (end, width int) {
	i := from
	for i < buf.Len() {
		w := buf.widths[i]
		if width+w > budget {
			break
		}
		width += w
		i++
	}
	return i, width
}

func scanBackward(buf *StyledBuffer, from, budget int) (start int) {
	i := from
	consumed := 0
	for i > 0 {
		w := buf.widths[i-1]
		if consumed+w > budget {
			break
		}
		consumed += w
		i--
	}
	return i
}

func sumWidths(buf *StyledBuffer, a, b int) int {
	s := 0
	for i := a; i < b; i++ {
		s += buf.widths[i]
	}
	return s
}

// visibleSlice returns a copy of buf[a:b], substituting '*' glyphs (but
// keeping the real widths/styles) when buf is masked.
func visibleSlice(buf *StyledBuffer, a, b int) *StyledBuffer {
	out := buf.Substr(a, b)
	if buf.masked {
		for i := range out.runes {
			out.runes[i] = '*'
		}
	}
	return out
}

// Sync computes the diff between the target Frame and the last rendered
// frame and writes the minimal escape stream to bring the terminal in
// sync, per spec §4.5.
func (v *View) Sync(f Frame) {
	promptWidth := f.Prompt.Width()
	budget := f.Columns - promptWidth - 1

	start, end := v.computeViewport(f.Buffer, f.Cursor, budget)
	v.viewStart = start

	visible := visibleSlice(f.Buffer, start, end)

	if end == f.Buffer.Len() && !f.Buffer.masked && f.Hint != nil && f.Hint.Len() > 0 {
		remaining := budget - visible.Width()
		if remaining > 0 {
			hintEnd, _ := scanForward(f.Hint, 0, remaining)
			if hintEnd > 0 {
				visible = Concat(visible, f.Hint.Substr(0, hintEnd))
			}
		}
	}

	next := Concat(f.Prompt, visible)
	cursorCol := promptWidth + sumWidths(f.Buffer, start, f.Cursor)

	v.emit(next, cursorCol)
}

func (v *View) emit(next *StyledBuffer, targetCursorCol int) {
	prev := v.last
	if prev == nil {
		prev = NewStyledBuffer(next.widthFn)
	}

	startCol, endCol, changed := diffFrames(prev, next)

	if changed {
		v.moveTo(startCol)
		v.writeRun(next, startCol, endCol)
		io.WriteString(v.out, "\x1b[0m")
		v.cursorCol = minInt(endCol, next.Width())
	}

	if prev.Width() > next.Width() {
		v.moveTo(next.Width())
		io.WriteString(v.out, "\x1b[K")
	}

	v.moveTo(targetCursorCol)
	v.last = next
}

// diffFrames walks prev and next in parallel by display column (not
// code-point index, since widths may differ) and returns the column range
// that must be rewritten. changed is false when target == last rendered.
func diffFrames(prev, next *StyledBuffer) (startCol, endCol int, changed bool) {
	pi, ni := 0, 0
	colp, coln := 0, 0
	start, end := -1, -1

	for {
		pIn := pi < prev.Len()
		nIn := ni < next.Len()
		if !pIn && !nIn {
			break
		}
		switch {
		case pIn && nIn && colp == coln:
			if prev.runes[pi] != next.runes[ni] || prev.styles[pi] != next.styles[ni] || prev.widths[pi] != next.widths[ni] {
				if start == -1 {
					start = colp
				}
				if e := colp + prev.widths[pi]; e > end {
					end = e
				}
				if e := coln + next.widths[ni]; e > end {
					end = e
				}
			}
			colp += prev.widths[pi]
			pi++
			coln += next.widths[ni]
			ni++
		case nIn && (!pIn || coln <= colp):
			if start == -1 {
				start = coln
			}
			if e := coln + next.widths[ni]; e > end {
				end = e
			}
			coln += next.widths[ni]
			ni++
		default: // pIn, and next is behind or exhausted
			if start == -1 {
				start = colp
			}
			if e := colp + prev.widths[pi]; e > end {
				end = e
			}
			colp += prev.widths[pi]
			pi++
		}
	}

	if start == -1 {
		return 0, 0, false
	}
	return start, end, true
}

func (v *View) writeRun(buf *StyledBuffer, startCol, endCol int) {
	if endCol > buf.Width() {
		endCol = buf.Width()
	}
	i := colToIndex(buf, startCol)
	end := colToIndex(buf, endCol)

	var cur Style
	haveCur := false
	for ; i < end; i++ {
		st := buf.styles[i]
		if !haveCur || st != cur {
			if haveCur {
				io.WriteString(v.out, "\x1b[0m")
			}
			if !st.IsEmpty() {
				fmt.Fprintf(v.out, "\x1b[%sm", st.sgrParams())
			}
			cur = st
			haveCur = true
		}
		io.WriteString(v.out, string(buf.runes[i]))
	}
}

func colToIndex(buf *StyledBuffer, col int) int {
	c := 0
	for i := 0; i < buf.Len(); i++ {
		if c >= col {
			return i
		}
		c += buf.widths[i]
	}
	return buf.Len()
}

func (v *View) moveTo(col int) {
	if col == v.cursorCol {
		return
	}
	if col > v.cursorCol {
		fmt.Fprintf(v.out, "\x1b[%dC", col-v.cursorCol)
	} else {
		fmt.Fprintf(v.out, "\x1b[%dD", v.cursorCol-col)
	}
	v.cursorCol = col
}

// Redraw discards the last-rendered frame, so the next Sync rewrites
// everything from column 0.
func (v *View) Redraw() {
	v.last = nil
	v.cursorCol = 0
	v.viewStart = 0
}

// EraseLineVisual emits "\r" + CSI 2K without touching any view state.
func (v *View) EraseLineVisual() {
	io.WriteString(v.out, "\r\x1b[2K")
}

// ClearScreen emits CSI 2J CSI 1;1H and triggers a full redraw.
func (v *View) ClearScreen() {
	io.WriteString(v.out, "\x1b[2J\x1b[1;1H")
	v.Redraw()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
