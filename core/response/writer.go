package response

import (
	"errors"
	"io"
	"time"

	"golang.org/x/sys/unix"
)

// Would-block writes are retried with a short backoff up to this bound,
// then surfaced as a connection failure (never process-fatal).
const (
	maxWriteAttempts = 64
	writeBackoff     = 500 * time.Microsecond
)

// ErrWriteStalled is returned when the peer stops draining the socket for
// longer than the retry budget tolerates.
var ErrWriteStalled = errors.New("response: write retry budget exhausted")

// FDWriter adapts a raw socket descriptor to io.Writer with bounded
// would-block retry. A single Write call returns only once the whole
// buffer is flushed or the budget is exhausted.
type FDWriter struct {
	FD int
}

func (w FDWriter) Write(p []byte) (int, error) {
	written := 0
	attempts := 0
	for written < len(p) {
		n, err := unix.Write(w.FD, p[written:])
		if n > 0 {
			written += n
			continue
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			attempts++
			if attempts >= maxWriteAttempts {
				return written, ErrWriteStalled
			}
			time.Sleep(writeBackoff)
			continue
		}
		if err == nil {
			err = io.ErrShortWrite
		}
		return written, err
	}
	return written, nil
}

// Fd exposes the raw descriptor for the sendfile fast path.
func (w FDWriter) Fd() int { return w.FD }

// writeFull drains p into w, tolerating short writes from arbitrary
// io.Writer implementations.
func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// rawFd reports the raw descriptor behind w when it exposes one.
func rawFd(w io.Writer) (int, bool) {
	type fder interface{ Fd() int }
	if f, ok := w.(fder); ok {
		return f.Fd(), true
	}
	return 0, false
}
