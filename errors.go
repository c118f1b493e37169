package lineedit

import "fmt"

// Sentinel errors returned by GetLine / GetLineNonblocking. Use errors.Is to
// test for them, since SyscallError wraps the underlying cause.
var (
	// ErrInterrupted is returned when the user presses ^C.
	ErrInterrupted = fmt.Errorf("lineedit: interrupted")
	// ErrEndOfFile is returned when the user presses ^D on an empty buffer.
	// End of file on the input fd is reported as a *SyscallError wrapping
	// io.EOF instead.
	ErrEndOfFile = fmt.Errorf("lineedit: end of file")
	// ErrCancelled is returned when Cancel was called during a blocking read.
	ErrCancelled = fmt.Errorf("lineedit: cancelled")
	// ErrPending is returned by GetLineNonblocking when no terminal event is
	// available yet.
	ErrPending = fmt.Errorf("lineedit: pending")
)

// SyscallError wraps a hard failure from the underlying file descriptor
// (raw-mode setup/teardown, a read(2) that returned a non-transient error).
// Mid-render short writes are not reported this way: the view ignores
// terminal write errors.
type SyscallError struct {
	Op  string
	Err error
}

func (e *SyscallError) Error() string {
	return fmt.Sprintf("lineedit: %s: %v", e.Op, e.Err)
}

func (e *SyscallError) Unwrap() error { return e.Err }

// DecodeError is returned by the UTF-8 codec's batch helpers when a byte
// sequence is not well-formed UTF-8.
type DecodeError struct {
	Offset int
	Byte   byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("lineedit: invalid utf-8 at offset %d (byte 0x%02x)", e.Offset, e.Byte)
}

// EncodeError is returned by Encode when a rune exceeds the valid Unicode
// scalar range.
type EncodeError struct {
	CodePoint rune
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("lineedit: code point U+%X exceeds U+10FFFF", e.CodePoint)
}
