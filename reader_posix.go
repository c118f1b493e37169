//go:build linux || darwin

package lineedit

import (
	"io"
	"os"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"

	"github.com/goterm/lineedit/internal/debug"
	"github.com/goterm/lineedit/term"
)

const defColCount = 80

// posixTTY is the POSIX ttyIO implementation, grounded on the teacher's
// PosixReader (reader_posix_teacher.go): opens /dev/tty, falling back to
// the caller's fd if it doesn't exist, puts the fd in raw + non-blocking
// mode, and answers Columns() via TIOCGWINSZ. Matching the DOMAIN STACK's
// go-isatty wiring, a non-tty fd (piped input) skips raw mode entirely and
// degrades to plain buffered reads.
type posixTTY struct {
	inFile *os.File
	fd     int
	isTTY  bool

	open        func(string, int, uint32) (int, error)
	close       func(int) error
	read        func(int, []byte) (int, error)
	setNonblock func(int, bool) error
	setRaw      func(int) error
	restoreFD   func(int) error
	winsize     func(int, uint) (*unix.Winsize, error)
}

func newPosixTTY(in *os.File) ttyIO {
	return &posixTTY{
		inFile:      in,
		open:        syscall.Open,
		close:       syscall.Close,
		read:        syscall.Read,
		setNonblock: syscall.SetNonblock,
		setRaw:      term.SetRaw,
		restoreFD:   term.RestoreFD,
		winsize:     unix.IoctlGetWinsize,
	}
}

func (t *posixTTY) Open() error {
	in, err := t.open("/dev/tty", syscall.O_RDONLY, 0)
	if os.IsNotExist(err) {
		in = int(t.inFile.Fd())
	} else if err != nil {
		return err
	}
	t.fd = in
	t.isTTY = isatty.IsTerminal(uintptr(t.fd))
	if !t.isTTY {
		debug.Log("lineedit: fd %d is not a tty, skipping raw mode", t.fd)
		return nil
	}
	if err := t.setNonblock(t.fd, true); err != nil {
		return err
	}
	return t.setRaw(t.fd)
}

func (t *posixTTY) Close() error {
	var err error
	if t.isTTY {
		err = t.restoreFD(t.fd)
	}
	if t.fd != int(t.inFile.Fd()) {
		if cerr := t.close(t.fd); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadByte blocks (modulo EINTR retry) until a byte is available. It is
// used from the poll-driven GetLine loop, where poll has already reported
// the fd readable, so an EAGAIN here is treated as a hard error rather
// than retried.
func (t *posixTTY) ReadByte() (byte, error) {
	var buf [1]byte
	for {
		n, err := t.read(t.fd, buf[:])
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		return buf[0], nil
	}
}

// TryReadByte makes exactly one non-blocking attempt, for
// GetLineNonblocking. ok is false (with a nil error) when no byte is
// currently available.
func (t *posixTTY) TryReadByte() (b byte, ok bool, err error) {
	var buf [1]byte
	n, err := t.read(t.fd, buf[:])
	if err != nil {
		if err == syscall.EAGAIN || err == syscall.EINTR {
			return 0, false, nil
		}
		return 0, false, err
	}
	if n == 0 {
		return 0, false, io.EOF
	}
	return buf[0], true, nil
}

func (t *posixTTY) FD() int { return t.fd }

// DisableRaw and EnableRaw back Reader.SuspendOutput/resumeOutput: they
// toggle raw mode on the already-open fd without closing it, unlike
// Open/Close which own the fd's lifetime.
func (t *posixTTY) DisableRaw() error {
	if !t.isTTY {
		return nil
	}
	return t.restoreFD(t.fd)
}

func (t *posixTTY) EnableRaw() error {
	if !t.isTTY {
		return nil
	}
	return t.setRaw(t.fd)
}

func (t *posixTTY) Columns() int {
	if !t.isTTY {
		return defColCount
	}
	ws, err := t.winsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return defColCount
	}
	if ws.Col == 0 {
		return defColCount
	}
	return int(ws.Col)
}

// setupCancel creates the reader's cancellation pipe. It lives for the
// Reader's whole lifetime rather than being allocated per-activation (a
// deliberate simplification of spec §5's "acquired on activate, released
// on deactivate" so that Cancel never races activate/deactivate touching
// the pipe fields - see DESIGN.md).
func (r *Reader) setupCancel() {
	cr, cw, err := os.Pipe()
	if err != nil {
		debug.Log("lineedit: cancellation pipe unavailable: %v", err)
		return
	}
	// A freshly opened pipe fd cannot fail SetNonblock; a failure here
	// means the runtime's fd table is corrupt, not a recoverable condition.
	debug.AssertNoError(syscall.SetNonblock(int(cr.Fd()), true))
	r.cancelR, r.cancelW = cr, cw
}

// Cancel writes a single token to the cancellation pipe. Safe to call from
// any goroutine at any time; it touches no state guarded by r.mu (spec
// §4.6, §5).
func (r *Reader) Cancel() {
	if r.cancelW == nil {
		return
	}
	_, _ = r.cancelW.Write([]byte{1})
}

func (r *Reader) drainCancel() {
	if r.cancelR == nil {
		return
	}
	var buf [64]byte
	for {
		n, err := r.cancelR.Read(buf[:])
		if n == 0 || err != nil {
			return
		}
	}
}

// GetLine blocks until a line is committed, an error condition is
// surfaced, or Cancel is called, per spec §4.6's "blocking read".
func (r *Reader) GetLine(prompt string) (string, error) {
	r.mu.Lock()
	if err := r.activate(prompt); err != nil {
		r.mu.Unlock()
		return "", err
	}
	r.mu.Unlock()

	for {
		r.mu.Lock()
		fd := r.tty.(interface{ FD() int }).FD()
		r.mu.Unlock()

		fds := []unix.PollFd{
			{Fd: int32(fd), Events: unix.POLLIN},
			{Fd: int32(r.cancelR.Fd()), Events: unix.POLLIN},
		}
		_, err := unix.Poll(fds, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			r.mu.Lock()
			r.deactivate(false)
			r.mu.Unlock()
			return "", &SyscallError{Op: "poll", Err: err}
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			r.drainCancel()
			r.mu.Lock()
			derr := r.deactivate(false)
			r.mu.Unlock()
			if derr != nil {
				return "", derr
			}
			return "", ErrCancelled
		}

		if fds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		r.mu.Lock()
		b, rerr := r.tty.ReadByte()
		if rerr != nil {
			r.deactivate(false)
			r.mu.Unlock()
			return "", &SyscallError{Op: "read", Err: rerr}
		}
		text, stepErr, done := r.step(b)
		if done {
			derr := r.deactivate(stepErr == nil)
			r.mu.Unlock()
			if derr != nil {
				return "", derr
			}
			return text, stepErr
		}
		r.mu.Unlock()
	}
}

// GetLineNonblocking is a single poll-free entry point: it tries the
// cancellation fd, then the input fd, each with a non-blocking read, and
// returns ErrPending if neither has a byte available (spec §4.6).
func (r *Reader) GetLineNonblocking(prompt string) (string, error) {
	r.mu.Lock()
	if !r.active {
		if err := r.activate(prompt); err != nil {
			r.mu.Unlock()
			return "", err
		}
	}
	defer r.mu.Unlock()

	if r.cancelR != nil {
		var tok [1]byte
		if n, _ := r.cancelR.Read(tok[:]); n > 0 {
			r.drainCancel()
			derr := r.deactivate(false)
			if derr != nil {
				return "", derr
			}
			return "", ErrCancelled
		}
	}

	b, ok, err := r.tty.(interface {
		TryReadByte() (byte, bool, error)
	}).TryReadByte()
	if err != nil {
		r.deactivate(false)
		return "", &SyscallError{Op: "read", Err: err}
	}
	if !ok {
		return "", ErrPending
	}

	text, stepErr, done := r.step(b)
	if !done {
		return "", ErrPending
	}
	derr := r.deactivate(stepErr == nil)
	if derr != nil {
		return "", derr
	}
	return text, stepErr
}
