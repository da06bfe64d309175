//go:build linux

package response

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// sendFile copies length bytes from f starting at offset straight to the
// socket with sendfile(2), avoiding the userspace bounce buffer. EAGAIN and
// EINTR are retried with the same bounded backoff as regular writes.
func sendFile(dst int, f *os.File, offset, length int64) (int64, error) {
	src := int(f.Fd())
	off := offset
	var written int64
	attempts := 0

	for written < length {
		n, err := unix.Sendfile(dst, src, &off, int(length-written))
		if n > 0 {
			written += int64(n)
			attempts = 0
			continue
		}
		if err == unix.EAGAIN || err == unix.EINTR {
			attempts++
			if attempts >= maxWriteAttempts {
				return written, ErrWriteStalled
			}
			time.Sleep(writeBackoff)
			continue
		}
		if err != nil {
			return written, err
		}
		// n == 0 without error: source exhausted early (file truncated
		// between stat and send).
		break
	}
	return written, nil
}
