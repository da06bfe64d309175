// Package http parses an HTTP/1.1 request subset from a byte stream into a
// zero-copy request structure backed by a per-worker arena.
package http

import (
	"errors"
	"io"

	"golang.org/x/sys/unix"
)

// Method is the request method, collapsed to the set the server serves.
type Method uint8

const (
	MethodOther Method = iota
	MethodGet
	MethodHead
	MethodOptions
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	case MethodOptions:
		return "OPTIONS"
	default:
		return "OTHER"
	}
}

// ByteRange is a parsed Range header. Either bound may be absent; a range
// with only End is a suffix range (last End bytes of the resource).
type ByteRange struct {
	Start    int64
	End      int64
	HasStart bool
	HasEnd   bool
}

// Request is one parsed request. Path and RawMethod are views into the
// arena that backed parsing; they are valid only until the arena is reset
// and must not outlive it.
type Request struct {
	Method    Method
	RawMethod []byte
	Path      []byte

	KeepAlive   bool
	AcceptsGzip bool
	HasRange    bool
	Range       ByteRange
}

var (
	// ErrMalformed covers unparsable request lines and header blocks.
	ErrMalformed = errors.New("http: malformed request")
	// ErrOversized is returned when a fixed buffer fills before its
	// terminator is seen.
	ErrOversized = errors.New("http: request exceeds size limit")
	// ErrReadTimeout is returned when the would-block retry budget is
	// exhausted. Callers treat it like a malformed request.
	ErrReadTimeout = errors.New("http: read retry budget exhausted")
	// ErrClosed is returned when the peer disconnects before a complete
	// request line was received. No response is owed.
	ErrClosed = errors.New("http: peer closed connection")
)

// FDReader adapts a raw socket descriptor to io.Reader. A zero-byte read
// (orderly shutdown by the peer) is reported as io.EOF; EAGAIN from the
// nonblocking socket passes through for the parser's bounded retry.
type FDReader struct {
	FD int
}

func (r FDReader) Read(p []byte) (int, error) {
	n, err := unix.Read(r.FD, p)
	if n < 0 {
		n = 0
	}
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}
