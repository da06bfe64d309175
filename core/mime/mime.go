// Package mime maps file extensions to content types.
//
// The table is built once at package init and never mutated afterwards, so
// concurrent lookups need no synchronization. Lookups are case-sensitive:
// ".HTML" is not ".html" and falls back to application/octet-stream.
package mime

import "path/filepath"

// DefaultType is returned for unmapped or missing extensions.
const DefaultType = "application/octet-stream"

var types = map[string]string{
	".html":  "text/html; charset=utf-8",
	".htm":   "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".mjs":   "application/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".xml":   "application/xml; charset=utf-8",
	".txt":   "text/plain; charset=utf-8",
	".md":    "text/markdown; charset=utf-8",
	".csv":   "text/csv; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".avif":  "image/avif",
	".ico":   "image/x-icon",
	".bmp":   "image/bmp",
	".pdf":   "application/pdf",
	".zip":   "application/zip",
	".gz":    "application/gzip",
	".tar":   "application/x-tar",
	".wasm":  "application/wasm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".eot":   "application/vnd.ms-fontobject",
	".mp3":   "audio/mpeg",
	".ogg":   "audio/ogg",
	".wav":   "audio/wav",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".map":   "application/json; charset=utf-8",
}

// TypeByPath returns the content type for the file's extension, or
// DefaultType when the extension is unmapped.
func TypeByPath(path string) string {
	if t, ok := types[filepath.Ext(path)]; ok {
		return t
	}
	return DefaultType
}

// Compressible reports whether a content type is worth gzip-compressing.
// Binary formats (images, archives, media) are already compressed and are
// excluded.
func Compressible(contentType string) bool {
	if len(contentType) >= 5 && contentType[:5] == "text/" {
		return true
	}
	switch trimParams(contentType) {
	case "application/javascript", "application/json", "application/xml", "image/svg+xml":
		return true
	}
	return false
}

func trimParams(contentType string) string {
	for i := 0; i < len(contentType); i++ {
		if contentType[i] == ';' {
			return contentType[:i]
		}
	}
	return contentType
}
