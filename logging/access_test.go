package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestAccessLogText(t *testing.T) {
	var buf bytes.Buffer
	l := NewAccessLog(&buf, false)
	l.now = fixedNow

	l.Log("GET", "/index.html", 200, 1234, "127.0.0.1:5555")

	want := "127.0.0.1:5555 [2025-03-14T09:26:53Z] \"GET /index.html\" 200 1234\n"
	if got := buf.String(); got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestAccessLogJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewAccessLog(&buf, true)
	l.now = fixedNow

	l.Log("HEAD", "/a.css", 404, 0, "10.1.2.3:80")

	var rec accessRecord
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal access line: %v", err)
	}
	want := accessRecord{
		Time:   "2025-03-14T09:26:53Z",
		Peer:   "10.1.2.3:80",
		Method: "HEAD",
		Path:   "/a.css",
		Status: 404,
		Bytes:  0,
	}
	if rec != want {
		t.Errorf("record = %+v, want %+v", rec, want)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("JSON line should end with a newline")
	}
}

// Concurrent writers must produce whole lines, never interleaved output.
func TestAccessLogConcurrent(t *testing.T) {
	var buf bytes.Buffer
	l := NewAccessLog(&syncWriter{w: &buf}, false)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Log("GET", "/x", 200, 3, "peer")
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 16*50 {
		t.Fatalf("got %d lines, want %d", len(lines), 16*50)
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, "\"GET /x\" 200 3") {
			t.Fatalf("mangled line: %q", line)
		}
	}
}

// syncWriter guards the bytes.Buffer itself; the interleaving property
// under test is that each Log call issues exactly one Write.
type syncWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
