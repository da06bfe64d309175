package mime

import "testing"

func TestTypeByPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/index.html", "text/html; charset=utf-8"},
		{"/assets/app.js", "application/javascript; charset=utf-8"},
		{"/style.css", "text/css; charset=utf-8"},
		{"/data.json", "application/json; charset=utf-8"},
		{"/logo.svg", "image/svg+xml"},
		{"/photo.jpeg", "image/jpeg"},
		{"/archive.tar", "application/x-tar"},
		{"/binary", DefaultType},
		{"/weird.xyz", DefaultType},
		// Case-sensitive: upper-case extensions are unmapped.
		{"/INDEX.HTML", DefaultType},
		{"/photo.JPG", DefaultType},
	}
	for _, tt := range tests {
		if got := TypeByPath(tt.path); got != tt.want {
			t.Errorf("TypeByPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCompressible(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html; charset=utf-8", true},
		{"text/plain; charset=utf-8", true},
		{"application/javascript; charset=utf-8", true},
		{"application/json; charset=utf-8", true},
		{"application/xml; charset=utf-8", true},
		{"image/svg+xml", true},
		{"image/png", false},
		{"application/zip", false},
		{"application/octet-stream", false},
		{"video/mp4", false},
	}
	for _, tt := range tests {
		if got := Compressible(tt.contentType); got != tt.want {
			t.Errorf("Compressible(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func BenchmarkTypeByPath(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		TypeByPath("/assets/vendor/app.min.js")
	}
}
