package response

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/bytebufferpool"
)

// compressFile buffers the whole file and gzips it, returning the pooled
// buffer holding the compressed bytes. The caller must return the buffer to
// the pool. Compressed length becomes the response's Content-Length, which
// is why the resource cannot be streamed through the encoder.
func compressFile(f io.Reader) (*bytebufferpool.ByteBuffer, error) {
	raw := bytebufferpool.Get()
	defer bytebufferpool.Put(raw)

	if _, err := raw.ReadFrom(f); err != nil {
		return nil, err
	}

	out := bytebufferpool.Get()
	zw := gzip.NewWriter(out)
	if _, err := zw.Write(raw.B); err != nil {
		zw.Close()
		bytebufferpool.Put(out)
		return nil, err
	}
	if err := zw.Close(); err != nil {
		bytebufferpool.Put(out)
		return nil, err
	}
	return out, nil
}
