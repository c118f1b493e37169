// Package lineedit is an interactive single-line terminal editor: it reads
// one line of input at a time while providing Emacs-style editing, history
// navigation, tab completion, inline hints, and syntax colorization, over
// an ANSI/VT-capable POSIX terminal.
package lineedit

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"

	"github.com/goterm/lineedit/internal/debug"
)

// ttyIO abstracts the raw-mode terminal fd the reader drives, so the state
// machine in this file stays platform-independent and directly testable;
// the real implementation (reader_posix.go) is grounded on the teacher's
// PosixReader (reader_posix_teacher.go).
type ttyIO interface {
	Open() error
	Close() error
	ReadByte() (byte, error)
	Columns() int
	DisableRaw() error
	EnableRaw() error
}

// lineState is the mutable state of the line currently being edited - the
// Line state of spec §3, minus RenderedFrame (owned by the View instead).
type lineState struct {
	prompt    *StyledBuffer
	buf       *StyledBuffer
	cursor    int
	dirty     bool // buffer mutated since hint/colorization were last recomputed
	hintCache string
}

// Reader owns raw-mode lifecycle, the UTF-8 decode/key-routing state
// machine, and the view, history, and completion collaborators, per spec
// §4.6. Grounded on the teacher's PosixReader + Prompt wiring, generalized
// to the spec's simpler poll/non-blocking/cancel trio in place of the
// teacher's background-goroutine-and-channel design (see SPEC_FULL.md §5).
type Reader struct {
	mu     sync.Mutex
	active bool

	inFile  *os.File
	outFile *os.File
	out     io.Writer

	newTTY func(*os.File) ttyIO
	tty    ttyIO
	view   *View

	history     *History
	autoHistory bool
	hintStyle   Style
	widthFn     WidthFunc

	completion   *CompletionCursor
	completionFn CompletionFunc
	hintFn       func(string) string
	colorFn      func(string, *StyleWriter)

	masked bool

	line *lineState
	dec  Decoder
	esc  escapeParser

	cancelR, cancelW *os.File
}

// NewReader constructs a Reader, applying opts over the defaults of spec
// §6: stdin, stdout, history size 100, auto-history on, gray hint style.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		inFile:      os.Stdin,
		outFile:     os.Stdout,
		history:     NewHistory(100),
		autoHistory: true,
		hintStyle:   Style{Fg: Indexed(Gray)},
		widthFn:     DefaultWidth,
		newTTY:      newPosixTTY,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.out = colorable.NewColorable(r.outFile)
	r.completion = NewCompletionCursor(nil)
	r.setupCancel()
	return r
}

// SetCompletion installs the Tab-completion callback. A nil fn disables
// completion.
func (r *Reader) SetCompletion(fn CompletionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completionFn = fn
	r.completion = NewCompletionCursor(fn)
}

// SetHint installs the inline-hint callback. It is invoked on buffer
// mutation, not on cursor-only moves (spec §9).
func (r *Reader) SetHint(fn func(string) string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hintFn = fn
	if r.line != nil {
		r.line.dirty = true
	}
}

// SetColorization installs the syntax-colorization callback, invoked with
// the buffer's text and a StyleWriter whose Set indexes the buffer's code
// points from 0.
func (r *Reader) SetColorization(fn func(string, *StyleWriter)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.colorFn = fn
	if r.line != nil {
		r.line.dirty = true
	}
}

// AddHistory records line as a committed entry, as if it had been entered
// interactively (spec §6).
func (r *Reader) AddHistory(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history.Add(line)
}

// SaveHistory writes the history file format (spec §6) to w.
func (r *Reader) SaveHistory(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Save(w)
}

// LoadHistory replaces the current history from r2's contents.
func (r *Reader) LoadHistory(r2 io.Reader) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Load(r2)
}

// Mask switches the active (or next) line to password-entry mode: every
// position renders as '*' and history/hint lookups are suppressed.
func (r *Reader) Mask() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.masked = true
	if r.line != nil {
		r.line.buf.setMasked(true)
		r.line.dirty = true
	}
}

// Unmask reverts Mask.
func (r *Reader) Unmask() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.masked = false
	if r.line != nil {
		r.line.buf.setMasked(false)
		r.line.dirty = true
	}
}

// ClearScreen emits CSI 2J CSI 1;1H and forces a full redraw on the next
// render, whether or not a read is active.
func (r *Reader) ClearScreen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view == nil {
		r.view = NewView(r.out)
	}
	r.view.ClearScreen()
	if r.line != nil {
		r.line.dirty = true
		r.render()
	}
}

// SuspendOutput acquires the reader's lock and, if a line is active,
// erases the visible line and drops raw mode so the host application may
// write to the terminal directly (spec §4.6 "scoped output suspension",
// grounded on the original's disable_output/enable_output pair,
// lined.hpp:172-186). The returned func resumes: it restores raw mode,
// redraws the line, and releases the lock - call it on every exit path,
// e.g. via defer, the way the original's scoped_disable RAII wrapper
// (lined.hpp:335-357) guarantees enable_output always runs.
func (r *Reader) SuspendOutput() func() {
	r.mu.Lock()
	if r.active && r.tty != nil {
		r.view.EraseLineVisual()
		if err := r.tty.DisableRaw(); err != nil {
			debug.Log("lineedit: SuspendOutput: disable raw mode: %v", err)
		}
	}
	return r.resumeOutput
}

func (r *Reader) resumeOutput() {
	if r.active && r.tty != nil {
		if err := r.tty.EnableRaw(); err != nil {
			debug.Log("lineedit: ResumeOutput: enable raw mode: %v", err)
		}
		r.view.Redraw()
		r.render()
	}
	r.mu.Unlock()
}

func newPromptBuffer(prompt string, widthFn WidthFunc) *StyledBuffer {
	b := NewStyledBuffer(widthFn)
	for _, cp := range prompt {
		b.Insert(b.Len(), cp)
	}
	return b
}

// activate enters the active lifecycle state (spec §4.6): enable raw mode,
// build a fresh LineState, reset the decode/escape state machines. Caller
// must hold r.mu.
func (r *Reader) activate(prompt string) error {
	tty := r.newTTY(r.inFile)
	if err := tty.Open(); err != nil {
		return &SyscallError{Op: "activate", Err: err}
	}
	r.tty = tty
	r.view = NewView(r.out)
	r.line = &lineState{
		prompt: newPromptBuffer(prompt, r.widthFn),
		buf:    NewStyledBuffer(r.widthFn),
		dirty:  true,
	}
	if r.masked {
		r.line.buf.setMasked(true)
	}
	r.dec = Decoder{}
	r.esc = escapeParser{}
	r.completion.Reset()
	r.active = true
	r.render()
	return nil
}

// deactivate leaves the active lifecycle state. If the line was not
// committed, the visible line is erased. Caller must hold r.mu.
func (r *Reader) deactivate(committed bool) error {
	if !committed && r.view != nil {
		r.view.EraseLineVisual()
	}
	var err error
	if r.tty != nil {
		if cerr := r.tty.Close(); cerr != nil {
			err = &SyscallError{Op: "deactivate", Err: cerr}
		}
	}
	r.active = false
	r.line = nil
	r.tty = nil
	return err
}

func (r *Reader) columns() int {
	if r.tty != nil {
		return r.tty.Columns()
	}
	return 80
}

// render recomputes the hint/colorization (if the buffer is dirty) and
// syncs the view. Caller must hold r.mu.
func (r *Reader) render() {
	l := r.line
	if l.dirty {
		l.hintCache = ""
		if r.hintFn != nil && !r.masked {
			l.hintCache = r.hintFn(l.buf.String())
		}
		if r.colorFn != nil {
			r.colorFn(l.buf.String(), l.buf.StyleMut())
		}
		l.dirty = false
	}

	var hint *StyledBuffer
	if l.hintCache != "" {
		hint = NewStyledBuffer(r.widthFn)
		for _, cp := range l.hintCache {
			hint.InsertStyled(hint.Len(), cp, r.hintStyle)
		}
	}

	r.view.Sync(Frame{
		Prompt:  l.prompt,
		Buffer:  l.buf,
		Hint:    hint,
		Cursor:  l.cursor,
		Columns: r.columns(),
	})
}

// step feeds one raw input byte through the UTF-8 decoder and, for each
// completed code point, the key router. It is the "single step function"
// spec §9 permits as the common core beneath both GetLine and
// GetLineNonblocking. Caller must hold r.mu and have an active line.
func (r *Reader) step(b byte) (result string, resultErr error, done bool) {
	cp, ok, err := r.dec.Feed(b)
	if err != nil {
		debug.Log("lineedit: dropping malformed byte 0x%02x: %v", b, err)
		return "", nil, false
	}
	if !ok {
		return "", nil, false
	}
	result, resultErr, done = r.routeRune(cp)
	if r.line != nil {
		r.render()
	}
	return result, resultErr, done
}

func (r *Reader) routeRune(cp rune) (result string, resultErr error, done bool) {
	debug.Assert(r.line != nil, "routeRune: no active line")
	l := r.line

	if r.esc.active() {
		cmd, fin := r.esc.feed(cp)
		if fin {
			r.applyEscape(cmd)
		}
		return "", nil, false
	}

	switch cp {
	case keyEsc:
		r.esc.start()

	case keyCtrlA:
		l.cursor = 0
	case keyCtrlB:
		if l.cursor > 0 {
			l.cursor--
		}
	case keyCtrlC:
		return "", ErrInterrupted, true
	case keyCtrlD:
		if l.buf.Len() == 0 {
			return "", ErrEndOfFile, true
		}
		r.deleteUnder()
	case keyCtrlE:
		l.cursor = l.buf.Len()
	case keyCtrlF:
		if l.cursor < l.buf.Len() {
			l.cursor++
		}
	case keyBackspace, keyDel:
		r.deleteBefore()
	case keyTab:
		if !r.masked {
			r.tabComplete()
		}
	case keyCtrlK:
		r.eraseRange(l.cursor, l.buf.Len())
	case keyCtrlL:
		r.view.ClearScreen()
	case keyEnter:
		if l.buf.Len() == 0 {
			io.WriteString(r.out, "\r\n")
			r.view.Redraw()
			return "", nil, false
		}
		text := l.buf.String()
		if r.autoHistory {
			r.history.Add(text)
		}
		return text, nil, true
	case keyCtrlN:
		if !r.masked {
			r.historyForward()
		}
	case keyCtrlP:
		if !r.masked {
			r.historyBack()
		}
	case keyCtrlT:
		r.transposeChars()
	case keyCtrlU:
		r.eraseRange(0, l.cursor)
	case keyCtrlW:
		r.eraseWordBefore()
	default:
		r.insertRune(cp)
	}
	return "", nil, false
}

func (r *Reader) applyEscape(cmd escapeCmd) {
	l := r.line
	switch cmd {
	case escLeft:
		if l.cursor > 0 {
			l.cursor--
		}
	case escRight:
		if l.cursor < l.buf.Len() {
			l.cursor++
		}
	case escHome:
		l.cursor = 0
	case escEnd:
		l.cursor = l.buf.Len()
	case escHistBack:
		if !r.masked {
			r.historyBack()
		}
	case escHistForward:
		if !r.masked {
			r.historyForward()
		}
	case escDeleteUnder:
		r.deleteUnder()
	}
}

func (r *Reader) insertRune(cp rune) {
	l := r.line
	l.buf.Insert(l.cursor, cp)
	l.cursor++
	l.dirty = true
	r.completion.Reset()
}

func (r *Reader) deleteBefore() {
	l := r.line
	if l.cursor == 0 {
		return
	}
	l.buf.Erase(l.cursor-1, l.cursor)
	l.cursor--
	l.dirty = true
	r.completion.Reset()
}

func (r *Reader) deleteUnder() {
	l := r.line
	if l.cursor >= l.buf.Len() {
		return
	}
	l.buf.Erase(l.cursor, l.cursor+1)
	l.dirty = true
	r.completion.Reset()
}

func (r *Reader) eraseRange(i, j int) {
	if i >= j {
		return
	}
	l := r.line
	l.buf.Erase(i, j)
	switch {
	case l.cursor > j:
		l.cursor -= j - i
	case l.cursor > i:
		l.cursor = i
	}
	l.dirty = true
	r.completion.Reset()
}

func (r *Reader) transposeChars() {
	l := r.line
	n := l.buf.Len()
	if n < 2 {
		return
	}
	c := l.cursor
	switch {
	case c >= n:
		l.buf.Swap(n-2, n-1)
		l.cursor = n
	case c >= 1:
		l.buf.Swap(c-1, c)
		l.cursor = c + 1
	default:
		return
	}
	l.dirty = true
	r.completion.Reset()
}

func (r *Reader) eraseWordBefore() {
	l := r.line
	i := l.cursor
	for i > 0 && l.buf.Rune(i-1) == ' ' {
		i--
	}
	for i > 0 && l.buf.Rune(i-1) != ' ' {
		i--
	}
	if i == l.cursor {
		return
	}
	r.eraseRange(i, l.cursor)
}

func (r *Reader) tabComplete() {
	l := r.line
	val, ok := r.completion.Next(l.buf.String())
	if !ok {
		return
	}
	r.replaceBuffer(val)
}

// replaceBuffer swaps in a new buffer contents, used by history navigation
// and tab completion. It does not reset the completion cursor itself -
// callers that aren't advancing the completion cursor must do so.
func (r *Reader) replaceBuffer(text string) {
	l := r.line
	buf := NewStyledBuffer(r.widthFn)
	if r.masked {
		buf.setMasked(true)
	}
	for _, cp := range text {
		buf.Insert(buf.Len(), cp)
	}
	l.buf = buf
	l.cursor = buf.Len()
	l.dirty = true
}

func (r *Reader) historyBack() {
	val, ok := r.history.RecordAndGoBack(r.line.buf.String())
	if !ok {
		return
	}
	r.replaceBuffer(val)
	r.completion.Reset()
}

func (r *Reader) historyForward() {
	val, ok := r.history.RecordAndGoForward(r.line.buf.String())
	if !ok {
		return
	}
	r.replaceBuffer(val)
	r.completion.Reset()
}
