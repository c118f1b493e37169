package lineedit

// CompletionFunc returns the list of candidates for the given current line.
// A nil or empty result means "no completion".
type CompletionFunc func(current string) []string

// CompletionCursor holds the most recent completion candidate list,
// anchored to the line snapshot it was computed from, and advances
// round-robin through it (spec §3, §4.4). Deliberately simpler than the
// teacher's windowed CompletionManager (selection scrolling, paging,
// two-column description layout - see completion_teacher.go) since this
// spec's Non-goals exclude the multi-line popup menu those features serve;
// what's kept is the teacher's core cycle of "compute once, Next()
// advances, any foreign mutation Resets" (CompletionManager.Completing /
// Reset).
type CompletionCursor struct {
	fn         CompletionFunc
	candidates []string // last element is always the original-input sentinel
	index      int
	active     bool
}

// NewCompletionCursor returns a cursor that calls fn to compute candidates
// on demand.
func NewCompletionCursor(fn CompletionFunc) *CompletionCursor {
	return &CompletionCursor{fn: fn}
}

// Next advances to the next candidate for current, computing the candidate
// list via the completion callback on the first call after a Reset. ok is
// false if the callback reports no candidates.
func (c *CompletionCursor) Next(current string) (value string, ok bool) {
	if !c.active {
		if c.fn == nil {
			return "", false
		}
		cands := c.fn(current)
		if len(cands) == 0 {
			return "", false
		}
		c.candidates = append(append([]string(nil), cands...), current)
		c.index = len(c.candidates) - 1
		c.active = true
	}
	c.index = (c.index + 1) % len(c.candidates)
	return c.candidates[c.index], true
}

// Reset discards the candidate list. Must be called on any buffer mutation
// not produced by Next itself, so the next Tab rebuilds candidates against
// the current line (spec §4.4).
func (c *CompletionCursor) Reset() {
	c.active = false
	c.candidates = nil
	c.index = 0
}

// Active reports whether a candidate list is currently held.
func (c *CompletionCursor) Active() bool { return c.active }
