package logging

import (
	"io"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/bytebufferpool"
)

// AccessLog writes one line per served request. Lines are assembled in a
// pooled buffer and flushed with a single Write under the mutex, so
// concurrent workers never interleave output.
type AccessLog struct {
	mu        sync.Mutex
	w         io.Writer
	jsonLines bool
	now       func() time.Time
}

// NewAccessLog returns an access log writing to w, in combined-log-style
// text or JSON lines.
func NewAccessLog(w io.Writer, jsonLines bool) *AccessLog {
	return &AccessLog{w: w, jsonLines: jsonLines, now: time.Now}
}

type accessRecord struct {
	Time   string `json:"time"`
	Peer   string `json:"peer"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`
	Bytes  int64  `json:"bytes"`
}

// Log records one completed request.
func (l *AccessLog) Log(method, path string, status int, contentLength int64, peer string) {
	ts := l.now().Format(time.RFC3339)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if l.jsonLines {
		line, err := json.Marshal(accessRecord{
			Time:   ts,
			Peer:   peer,
			Method: method,
			Path:   path,
			Status: status,
			Bytes:  contentLength,
		})
		if err != nil {
			return
		}
		buf.Write(line)
		buf.WriteByte('\n')
	} else {
		buf.WriteString(peer)
		buf.WriteString(" [")
		buf.WriteString(ts)
		buf.WriteString("] \"")
		buf.WriteString(method)
		buf.WriteByte(' ')
		buf.WriteString(path)
		buf.WriteString("\" ")
		buf.WriteString(strconv.Itoa(status))
		buf.WriteByte(' ')
		buf.WriteString(strconv.FormatInt(contentLength, 10))
		buf.WriteByte('\n')
	}

	l.mu.Lock()
	l.w.Write(buf.B)
	l.mu.Unlock()
}
