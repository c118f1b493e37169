package lineedit

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// HistoryEntry is one slot in a History: a committed (or, for slot 0, in-
// progress) line plus an optional edited overlay preserving in-progress
// navigation edits (spec §3).
type HistoryEntry struct {
	Original string
	Edited   *string
}

// Value returns the entry's edited overlay if present, else its original
// value.
func (e HistoryEntry) Value() string {
	if e.Edited != nil {
		return *e.Edited
	}
	return e.Original
}

// History is a bounded, ordered sequence of previously committed lines,
// newest first, with slot 0 reserved as the in-progress draft. Grounded on
// the teacher's History{histories, tmp, selected} (prompt/history_test.go),
// adapted to carry the spec's explicit Edited-overlay-per-entry model
// instead of a single flat shadow array, so a round trip through several
// older entries doesn't clobber more than the one being navigated.
type History struct {
	entries []HistoryEntry // entries[0] is always the draft slot
	index   int            // current navigation position into entries
	maxSize int
}

// NewHistory returns an empty History bounded to maxSize committed entries
// (plus the permanent draft slot).
func NewHistory(maxSize int) *History {
	if maxSize < 0 {
		maxSize = 0
	}
	return &History{
		entries: []HistoryEntry{{}},
		maxSize: maxSize,
	}
}

// Len returns the number of entries, including the draft slot.
func (h *History) Len() int { return len(h.entries) }

// Add records a newly committed line. If it equals the most recently
// committed entry's value, the draft slot is simply cleared rather than
// growing the history (spec §4.3).
func (h *History) Add(line string) {
	if len(h.entries) > 1 && line == h.entries[1].Value() {
		h.entries[0] = HistoryEntry{}
		h.index = 0
		return
	}
	h.entries[0] = HistoryEntry{Original: line}
	h.entries = append([]HistoryEntry{{}}, h.entries...)
	if len(h.entries) > h.maxSize+1 {
		h.entries = h.entries[:h.maxSize+1]
	}
	h.index = 0
}

// RecordAndGoBack moves the navigation index one entry older, first
// preserving current (the live buffer text) as the overlay of the entry
// being left, if it differs from that entry's original. ok is false if
// already at the oldest entry.
func (h *History) RecordAndGoBack(current string) (value string, ok bool) {
	if h.index >= len(h.entries)-1 {
		return "", false
	}
	h.stash(current)
	h.index++
	return h.entries[h.index].Value(), true
}

// RecordAndGoForward is the symmetric operation, moving toward the draft
// slot.
func (h *History) RecordAndGoForward(current string) (value string, ok bool) {
	if h.index <= 0 {
		return "", false
	}
	h.stash(current)
	h.index--
	return h.entries[h.index].Value(), true
}

func (h *History) stash(current string) {
	e := &h.entries[h.index]
	if current != e.Original {
		edited := current
		e.Edited = &edited
	} else {
		e.Edited = nil
	}
}

// Save writes entries 1..end (oldest first, one per line, UTF-8) to w.
// File I/O is the caller's responsibility; Save only formats and writes
// (spec §1: history persistence is an external collaborator).
func (h *History) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := len(h.entries) - 1; i >= 1; i-- {
		if _, err := fmt.Fprintln(bw, h.entries[i].Value()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load replaces the History's contents from r: slot 0 becomes an empty
// draft, and the file's lines (oldest first in the file) become entries
// newest-first, i.e. the file's last line becomes entry 1. maxSize is
// raised to the file's length if it would otherwise be smaller (spec
// §4.3). Empty trailing lines are ignored.
func (h *History) Load(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return err
	}
	for len(lines) > 0 && strings.TrimRight(lines[len(lines)-1], "\r\n") == "" {
		lines = lines[:len(lines)-1]
	}

	entries := make([]HistoryEntry, 0, len(lines)+1)
	entries = append(entries, HistoryEntry{})
	for i := len(lines) - 1; i >= 0; i-- {
		entries = append(entries, HistoryEntry{Original: lines[i]})
	}

	h.entries = entries
	h.index = 0
	if len(lines) > h.maxSize {
		h.maxSize = len(lines)
	}
	return nil
}
