package lineedit

import "os"

// Option configures a Reader at construction time, following the
// functional-options pattern the teacher uses for CompletionManagerOption
// (SPEC_FULL.md's AMBIENT STACK).
type Option func(*Reader)

// WithFDs sets the input and output file descriptors. Defaults to stdin
// and stdout.
func WithFDs(in, out *os.File) Option {
	return func(r *Reader) {
		r.inFile = in
		r.outFile = out
	}
}

// WithHistorySize sets the bounded history size (not counting the draft
// slot). Default 100.
func WithHistorySize(n int) Option {
	return func(r *Reader) {
		r.history = NewHistory(n)
	}
}

// WithAutoHistory controls whether a successfully committed non-empty
// line is automatically added to history. Default true.
func WithAutoHistory(v bool) Option {
	return func(r *Reader) {
		r.autoHistory = v
	}
}

// WithHintStyle sets the style used to render inline hints. Default is
// Gray foreground.
func WithHintStyle(s Style) Option {
	return func(r *Reader) {
		r.hintStyle = s
	}
}

// WithWidthFunc overrides the code-point display width function. Default
// DefaultWidth (go-runewidth).
func WithWidthFunc(fn WidthFunc) Option {
	return func(r *Reader) {
		r.widthFn = fn
	}
}
