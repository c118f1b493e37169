package lineedit

import (
	"strings"
	"testing"
)

func TestHistoryAddDedup(t *testing.T) {
	h := NewHistory(10)
	h.Add("abc")
	h.Add("abc")
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (draft + one entry)", h.Len())
	}
}

func TestHistoryBoundedSize(t *testing.T) {
	h := NewHistory(2)
	h.Add("a")
	h.Add("b")
	h.Add("c")
	if h.Len() != 3 { // draft + 2
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	if v, ok := h.RecordAndGoBack(""); !ok || v != "c" {
		t.Fatalf("RecordAndGoBack() = %q, %v, want c, true", v, ok)
	}
}

func TestHistoryNavigationRoundTrip(t *testing.T) {
	h := NewHistory(10)
	h.Add("first")
	h.Add("second")

	v, ok := h.RecordAndGoBack("draft-in-progress")
	if !ok || v != "second" {
		t.Fatalf("first back = %q, %v", v, ok)
	}
	v, ok = h.RecordAndGoBack("second")
	if !ok || v != "first" {
		t.Fatalf("second back = %q, %v", v, ok)
	}
	if _, ok := h.RecordAndGoBack("first"); ok {
		t.Fatalf("expected no move at oldest entry")
	}

	v, ok = h.RecordAndGoForward("first")
	if !ok || v != "second" {
		t.Fatalf("forward = %q, %v", v, ok)
	}
	v, ok = h.RecordAndGoForward("second")
	if !ok || v != "draft-in-progress" {
		t.Fatalf("forward to draft = %q, %v, want draft-in-progress", v, ok)
	}
}

func TestHistoryEditedOverlaySurvivesRoundTrip(t *testing.T) {
	h := NewHistory(10)
	h.Add("first")
	h.Add("second")

	// Navigate back to "first" and edit it in place, without committing.
	if _, ok := h.RecordAndGoBack(""); !ok {
		t.Fatalf("expected a move")
	}
	if _, ok := h.RecordAndGoBack("second"); !ok {
		t.Fatalf("expected a move to first")
	}
	if _, ok := h.RecordAndGoForward("first-edited"); !ok {
		t.Fatalf("expected a move forward")
	}
	// Now go back again: the edited overlay left on "first" must survive
	// and be returned, not the original "first".
	v, ok := h.RecordAndGoBack("second")
	if !ok || v != "first-edited" {
		t.Fatalf("back to first = %q, %v, want first-edited", v, ok)
	}
}

func TestHistorySaveLoad(t *testing.T) {
	h := NewHistory(10)
	h.Add("one")
	h.Add("two")
	h.Add("three")

	var sb strings.Builder
	if err := h.Save(&sb); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, want := sb.String(), "one\ntwo\nthree\n"; got != want {
		t.Fatalf("Save() = %q, want %q", got, want)
	}

	h2 := NewHistory(1)
	if err := h2.Load(strings.NewReader(sb.String())); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h2.Len() != 4 {
		t.Fatalf("Len() after Load = %d, want 4", h2.Len())
	}
	if v, ok := h2.RecordAndGoBack(""); !ok || v != "three" {
		t.Fatalf("after Load, first back = %q, %v", v, ok)
	}
}

func TestHistoryLoadIgnoresTrailingEmptyLines(t *testing.T) {
	h := NewHistory(10)
	if err := h.Load(strings.NewReader("a\nb\n\n\n")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (draft + a + b)", h.Len())
	}
}
