//go:build linux || darwin

// Package term provides POSIX raw-mode terminal handling: disabling
// canonical line buffering, echo, and signal translation on a file
// descriptor, with restoration of the original termios. Grounded on the
// teacher's prompt/term package (see raw_test.go, the only surviving
// artifact in the retrieved pack) and reader_posix_teacher.go's use of
// SetRaw/RestoreFD around a non-blocking fd.
package term

import (
	"sync"

	"golang.org/x/sys/unix"
)

var (
	saveTermiosOnce sync.Once
	saveTermiosErr  error
	saveTermiosFD   int
	saveTermios     unix.Termios
)

// getOriginalTermios fetches and caches the fd's termios the first time
// it's called for the process, so repeated SetRaw/Restore calls always
// restore the state the terminal was in before this package touched it.
// Returns a copy so callers can't mutate the cached value.
func getOriginalTermios(fd int) (*unix.Termios, error) {
	saveTermiosOnce.Do(func() {
		t, err := unix.IoctlGetTermios(fd, getTermiosReq)
		if err != nil {
			saveTermiosErr = err
			return
		}
		saveTermiosFD = fd
		saveTermios = *t
	})
	if saveTermiosErr != nil {
		return nil, saveTermiosErr
	}
	cp := saveTermios
	return &cp, nil
}

// SetRaw puts fd into raw mode: no canonical buffering, no echo, no
// signal generation, 8-bit characters, reads unblock after one byte with
// no inter-byte timeout (VMIN=1, VTIME=0).
func SetRaw(fd int) error {
	orig, err := getOriginalTermios(fd)
	if err != nil {
		return err
	}

	raw := *orig
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(fd, setTermiosReq, &raw)
}

// Restore resets the fd most recently cached by getOriginalTermios back
// to its original termios.
func Restore() error {
	return RestoreFD(saveTermiosFD)
}

// RestoreFD resets fd to the termios captured for it by a prior SetRaw
// call (or the first fd ever passed to SetRaw/getOriginalTermios, since
// the cache is process-wide and keyed on first use, matching the
// teacher's single-terminal assumption).
func RestoreFD(fd int) error {
	if saveTermiosErr != nil {
		return saveTermiosErr
	}
	orig := saveTermios
	return unix.IoctlSetTermios(fd, setTermiosReq, &orig)
}
