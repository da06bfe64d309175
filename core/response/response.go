// Package response turns a resolved resource and a parsed request into
// bytes on the wire: status line, headers, and a streamed body with Range,
// gzip, ETag/Cache-Control and CORS semantics.
package response

import (
	"fmt"
	"io"
	"os"

	"github.com/valyala/bytebufferpool"

	"github.com/searchktools/static-server/core/arena"
	httpx "github.com/searchktools/static-server/core/http"
	"github.com/searchktools/static-server/core/mime"
	"github.com/searchktools/static-server/core/static"
)

// Options fixes the per-process response policy. Immutable after startup.
type Options struct {
	// Gzip enables on-the-fly compression for textual content.
	Gzip bool
	// CORS enables Access-Control-* headers and the OPTIONS preflight.
	CORS bool
	// KeepAlive enables the persistent-connection loop. When false every
	// response carries "Connection: close" (single-shot policy).
	KeepAlive bool
}

// Engine builds and writes responses.
type Engine struct {
	opts Options
}

// Result is the only response state surfaced to the access-log
// collaborator.
type Result struct {
	Status        int
	ContentLength int64
}

// New returns an Engine with the given policy.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

const (
	allowedMethods = "GET, HEAD, OPTIONS"
	cacheControl   = "Cache-Control: public, max-age=3600\r\n"
	bodyChunkSize  = 32 * 1024
)

// Respond writes one complete response for req/res. It returns the result
// for logging and whether the connection may continue with another request.
// Scratch space comes from the worker's arena; nothing written here may
// outlive the next arena reset.
func (e *Engine) Respond(w io.Writer, req *httpx.Request, res static.Resource, a *arena.Arena) (Result, bool, error) {
	keep := e.opts.KeepAlive && req.KeepAlive

	switch req.Method {
	case httpx.MethodOptions:
		// Preflight is answered without consulting the resolver.
		if !e.opts.CORS {
			r, err := e.writeError(w, 405, false, keep)
			return r, keep && err == nil, err
		}
		r, err := e.writeOptions(w, keep)
		return r, keep && err == nil, err
	case httpx.MethodGet, httpx.MethodHead:
		// Served below.
	default:
		r, err := e.writeError(w, 405, req.Method == httpx.MethodHead, keep)
		return r, keep && err == nil, err
	}

	if res.Kind == static.KindDenied {
		r, err := e.writeError(w, res.Status, req.Method == httpx.MethodHead, keep)
		return r, keep && err == nil, err
	}

	r, err := e.writeResource(w, req, res, a, keep)
	return r, keep && err == nil, err
}

func (e *Engine) writeResource(w io.Writer, req *httpx.Request, res static.Resource, a *arena.Arena, keep bool) (Result, error) {
	contentType := mime.TypeByPath(res.Path)

	// Range is honored only for plain files, never for the SPA fallback.
	ranged := req.HasRange && res.Kind == static.KindFile
	// Partial content cannot be compressed without reframing the length,
	// so gzip is skipped whenever a Range was requested at all.
	gzipped := e.opts.Gzip && req.AcceptsGzip && !req.HasRange && mime.Compressible(contentType)

	f, err := os.Open(res.Path)
	if err != nil {
		return e.writeError(w, 500, req.Method == httpx.MethodHead, keep)
	}
	defer f.Close()

	if gzipped {
		return e.writeGzipped(w, req, res, f, contentType, keep)
	}

	start := int64(0)
	end := res.Size - 1
	status := 200
	if ranged && res.Size > 0 {
		start, end = clampRange(req.Range, res.Size)
		status = 206
	}
	length := end - start + 1
	if res.Size == 0 {
		length = 0
	}

	hdr := bytebufferpool.Get()
	defer bytebufferpool.Put(hdr)

	writeStatusLine(hdr, status)
	writeCommonHeaders(hdr, contentType, length, res, e.opts.CORS, keep)
	if status == 206 {
		fmt.Fprintf(hdr, "Content-Range: bytes %d-%d/%d\r\n", start, end, res.Size)
	}
	hdr.WriteString("\r\n")

	if err := writeFull(w, hdr.B); err != nil {
		return Result{Status: status, ContentLength: length}, err
	}

	if req.Method == httpx.MethodHead || length == 0 {
		return Result{Status: status, ContentLength: length}, nil
	}

	if err := e.copyBody(w, f, start, length, a); err != nil {
		return Result{Status: status, ContentLength: length}, err
	}
	return Result{Status: status, ContentLength: length}, nil
}

func (e *Engine) writeGzipped(w io.Writer, req *httpx.Request, res static.Resource, f *os.File, contentType string, keep bool) (Result, error) {
	compressed, err := compressFile(f)
	if err != nil {
		return e.writeError(w, 500, req.Method == httpx.MethodHead, keep)
	}
	defer bytebufferpool.Put(compressed)

	length := int64(len(compressed.B))

	hdr := bytebufferpool.Get()
	defer bytebufferpool.Put(hdr)

	writeStatusLine(hdr, 200)
	writeCommonHeaders(hdr, contentType, length, res, e.opts.CORS, keep)
	hdr.WriteString("Content-Encoding: gzip\r\n\r\n")

	if err := writeFull(w, hdr.B); err != nil {
		return Result{Status: 200, ContentLength: length}, err
	}
	if req.Method == httpx.MethodHead {
		return Result{Status: 200, ContentLength: length}, nil
	}
	if err := writeFull(w, compressed.B); err != nil {
		return Result{Status: 200, ContentLength: length}, err
	}
	return Result{Status: 200, ContentLength: length}, nil
}

// copyBody streams length bytes starting at offset from f to w in fixed
// chunks, using sendfile when both ends expose raw descriptors.
func (e *Engine) copyBody(w io.Writer, f *os.File, offset, length int64, a *arena.Arena) error {
	if fd, ok := rawFd(w); ok {
		n, err := sendFile(fd, f, offset, length)
		if err == nil {
			return nil
		}
		if n > 0 {
			// A partially sent body cannot be restarted.
			return err
		}
		// Fall through to the chunked copy (e.g. sendfile unsupported
		// for this descriptor pairing).
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	chunk := a.Alloc(bodyChunkSize)
	remaining := length
	for remaining > 0 {
		n := int64(len(chunk))
		if n > remaining {
			n = remaining
		}
		read, err := io.ReadFull(f, chunk[:n])
		if read == 0 && err != nil {
			return err
		}
		if err := writeFull(w, chunk[:read]); err != nil {
			return err
		}
		remaining -= int64(read)
	}
	return nil
}

func (e *Engine) writeOptions(w io.Writer, keep bool) (Result, error) {
	hdr := bytebufferpool.Get()
	defer bytebufferpool.Put(hdr)

	writeStatusLine(hdr, 200)
	hdr.WriteString("Allow: " + allowedMethods + "\r\n")
	hdr.WriteString("Access-Control-Allow-Origin: *\r\n")
	hdr.WriteString("Access-Control-Allow-Methods: " + allowedMethods + "\r\n")
	hdr.WriteString("Access-Control-Allow-Headers: Range, Content-Type\r\n")
	hdr.WriteString("Content-Length: 0\r\n")
	writeConnectionHeader(hdr, keep)
	hdr.WriteString("\r\n")

	err := writeFull(w, hdr.B)
	return Result{Status: 200, ContentLength: 0}, err
}

// writeError emits a plain-text error response. The body is suppressed for
// HEAD but the declared length still matches it.
func (e *Engine) writeError(w io.Writer, status int, head, keep bool) (Result, error) {
	body := statusText(status) + "\n"

	hdr := bytebufferpool.Get()
	defer bytebufferpool.Put(hdr)

	writeStatusLine(hdr, status)
	hdr.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	fmt.Fprintf(hdr, "Content-Length: %d\r\n", len(body))
	if status == 405 {
		hdr.WriteString("Allow: " + allowedMethods + "\r\n")
	}
	if e.opts.CORS {
		hdr.WriteString("Access-Control-Allow-Origin: *\r\n")
	}
	writeConnectionHeader(hdr, keep)
	hdr.WriteString("\r\n")
	if !head {
		hdr.WriteString(body)
	}

	err := writeFull(w, hdr.B)
	return Result{Status: status, ContentLength: int64(len(body))}, err
}

// WriteBadRequest answers an unparsable request when the socket still
// accepts writes. The connection never continues afterwards.
func (e *Engine) WriteBadRequest(w io.Writer) Result {
	r, _ := e.writeError(w, 400, false, false)
	return r
}

func writeCommonHeaders(hdr *bytebufferpool.ByteBuffer, contentType string, length int64, res static.Resource, cors, keep bool) {
	hdr.WriteString("Content-Type: ")
	hdr.WriteString(contentType)
	hdr.WriteString("\r\n")
	fmt.Fprintf(hdr, "Content-Length: %d\r\n", length)
	hdr.WriteString("Accept-Ranges: bytes\r\n")
	hdr.WriteString(cacheControl)
	fmt.Fprintf(hdr, "ETag: \"%d-%d\"\r\n", res.Size, res.ModTime.Unix())
	if cors {
		hdr.WriteString("Access-Control-Allow-Origin: *\r\n")
	}
	writeConnectionHeader(hdr, keep)
}

func writeConnectionHeader(hdr *bytebufferpool.ByteBuffer, keep bool) {
	if keep {
		hdr.WriteString("Connection: keep-alive\r\n")
	} else {
		hdr.WriteString("Connection: close\r\n")
	}
}

func writeStatusLine(hdr *bytebufferpool.ByteBuffer, status int) {
	fmt.Fprintf(hdr, "HTTP/1.1 %d %s\r\n", status, statusText(status))
}

// clampRange applies the Range defaults: a missing start is 0, a missing
// end is size-1, and a suffix-only range selects the last N bytes. Both
// bounds are clamped into [0, size-1].
func clampRange(r httpx.ByteRange, size int64) (start, end int64) {
	start = 0
	end = size - 1

	if !r.HasStart && r.HasEnd {
		// Suffix range: last r.End bytes.
		start = size - r.End
		if start < 0 {
			start = 0
		}
		return start, end
	}

	if r.HasStart {
		start = r.Start
	}
	if r.HasEnd {
		end = r.End
	}
	if start < 0 {
		start = 0
	}
	if start > size-1 {
		start = size - 1
	}
	if end > size-1 {
		end = size - 1
	}
	if end < start {
		end = start
	}
	return start, end
}

func statusText(status int) string {
	switch status {
	case 200:
		return "OK"
	case 206:
		return "Partial Content"
	case 400:
		return "Bad Request"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 500:
		return "Internal Server Error"
	default:
		return "Error"
	}
}
