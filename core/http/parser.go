package http

import (
	"bytes"
	"errors"
	"io"
	"time"

	"golang.org/x/sys/unix"

	"github.com/searchktools/static-server/core/arena"
)

// Size limits and the would-block retry budget. A peer that trickles bytes
// slower than the budget allows is treated as malformed, not waited on.
const (
	MaxRequestLine = 8 * 1024
	MaxHeaderBlock = 4 * 1024

	maxReadAttempts = 40
	readBackoff     = 500 * time.Microsecond
)

// Parse reads exactly one request from r, allocating all scratch space from
// a. The returned request borrows from the arena and is invalidated by the
// next arena reset.
func Parse(r io.Reader, a *arena.Arena) (Request, error) {
	var req Request
	br := &boundedReader{r: r}

	lineBuf := a.Alloc(MaxRequestLine)
	lineLen := 0
	lineEnd := -1

	for lineEnd < 0 {
		if lineLen == len(lineBuf) {
			return req, ErrOversized
		}
		n, err := br.read(lineBuf[lineLen:])
		if n > 0 {
			if i := bytes.IndexByte(lineBuf[lineLen:lineLen+n], '\n'); i >= 0 {
				lineEnd = lineLen + i
			}
			lineLen += n
		}
		if err != nil {
			if err == io.EOF {
				if lineLen == 0 {
					return req, ErrClosed
				}
				return req, ErrMalformed
			}
			return req, err
		}
	}

	if err := parseRequestLine(&req, trimCR(lineBuf[:lineEnd])); err != nil {
		return req, err
	}
	// HTTP/1.1 connections persist unless the peer opts out.
	req.KeepAlive = true

	// Bytes read past the request line belong to the header block.
	headerBuf := a.Alloc(MaxHeaderBlock)
	headerLen := copy(headerBuf, lineBuf[lineEnd+1:lineLen])

	for {
		if end := headerEnd(headerBuf[:headerLen]); end >= 0 {
			scanHeaders(&req, headerBuf[:end])
			return req, nil
		}
		if headerLen == len(headerBuf) {
			return req, ErrOversized
		}
		n, err := br.read(headerBuf[headerLen:])
		headerLen += n
		if err != nil {
			if err == io.EOF {
				return req, ErrMalformed
			}
			return req, err
		}
	}
}

// boundedReader retries would-block reads with a short backoff, up to
// maxReadAttempts for the whole request.
type boundedReader struct {
	r        io.Reader
	attempts int
}

func (br *boundedReader) read(p []byte) (int, error) {
	for {
		n, err := br.r.Read(p)
		if err != nil && isWouldBlock(err) {
			br.attempts++
			if br.attempts >= maxReadAttempts {
				return n, ErrReadTimeout
			}
			time.Sleep(readBackoff)
			continue
		}
		return n, err
	}
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

func parseRequestLine(req *Request, line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return ErrMalformed
	}

	sp1 := bytes.IndexByte(line, ' ')
	if sp1 <= 0 {
		return ErrMalformed
	}
	rest := bytes.TrimLeft(line[sp1+1:], " ")
	sp2 := bytes.IndexByte(rest, ' ')
	if sp2 < 0 {
		sp2 = len(rest)
	}

	req.RawMethod = line[:sp1]
	req.Path = bytes.TrimSpace(rest[:sp2])
	if len(req.Path) == 0 {
		return ErrMalformed
	}

	switch {
	case bytes.Equal(req.RawMethod, []byte("GET")):
		req.Method = MethodGet
	case bytes.Equal(req.RawMethod, []byte("HEAD")):
		req.Method = MethodHead
	case bytes.Equal(req.RawMethod, []byte("OPTIONS")):
		req.Method = MethodOptions
	default:
		req.Method = MethodOther
	}
	return nil
}

// headerEnd returns the index just past the blank line terminating the
// header block ("\r\n\r\n" or "\n\n", mixed forms included), or -1 if the
// block is still incomplete.
func headerEnd(b []byte) int {
	// An empty header block: the terminator immediately follows the
	// request line.
	if len(b) >= 1 && b[0] == '\n' {
		return 1
	}
	if len(b) >= 2 && b[0] == '\r' && b[1] == '\n' {
		return 2
	}
	for i := 0; i < len(b); i++ {
		if b[i] != '\n' {
			continue
		}
		j := i + 1
		if j < len(b) && b[j] == '\r' {
			j++
		}
		if j < len(b) && b[j] == '\n' {
			return j + 1
		}
	}
	return -1
}

// scanHeaders walks the raw header bytes once, without building per-header
// records, and extracts the three headers the pipeline acts on.
func scanHeaders(req *Request, raw []byte) {
	for len(raw) > 0 {
		lineLen := bytes.IndexByte(raw, '\n')
		if lineLen < 0 {
			lineLen = len(raw)
		}
		line := trimCR(raw[:lineLen])
		if lineLen == len(raw) {
			raw = nil
		} else {
			raw = raw[lineLen+1:]
		}
		if len(line) == 0 {
			continue
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		name := bytes.TrimSpace(line[:colon])
		value := bytes.TrimSpace(line[colon+1:])

		switch {
		case equalFold(name, []byte("connection")):
			if containsFold(value, []byte("keep-alive")) {
				req.KeepAlive = true
			} else if containsFold(value, []byte("close")) {
				req.KeepAlive = false
			}
		case equalFold(name, []byte("accept-encoding")):
			if containsFold(value, []byte("gzip")) {
				req.AcceptsGzip = true
			}
		case equalFold(name, []byte("range")):
			req.Range, req.HasRange = parseRange(value)
		}
	}
}

// parseRange parses "bytes=start-end". Either bound may be missing; a
// malformed numeric field is treated as absent rather than as an error.
func parseRange(value []byte) (ByteRange, bool) {
	var r ByteRange
	const prefix = "bytes="
	if len(value) < len(prefix) || !equalFold(value[:len(prefix)], []byte(prefix)) {
		return r, false
	}
	spec := value[len(prefix):]
	dash := bytes.IndexByte(spec, '-')
	if dash < 0 {
		return r, false
	}

	if start, ok := parseInt(bytes.TrimSpace(spec[:dash])); ok {
		r.Start = start
		r.HasStart = true
	}
	if end, ok := parseInt(bytes.TrimSpace(spec[dash+1:])); ok {
		r.End = end
		r.HasEnd = true
	}
	if !r.HasStart && !r.HasEnd {
		return ByteRange{}, false
	}
	return r, true
}

func parseInt(b []byte) (int64, bool) {
	if len(b) == 0 || len(b) > 18 {
		return 0, false
	}
	var v int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int64(c-'0')
	}
	return v, true
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func equalFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle []byte) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if equalFold(haystack[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
