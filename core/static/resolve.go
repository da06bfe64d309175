// Package static maps request paths to filesystem resources under a single
// root, applying the server's resolution policy: root jailing, default
// documents, SPA fallback, and the directory-listing prohibition.
package static

import (
	"os"
	"path"
	"strings"
	"time"
)

// Kind discriminates resolution outcomes.
type Kind uint8

const (
	// KindFile is a regular file to serve.
	KindFile Kind = iota
	// KindSpaFallback is the root index document served in place of a
	// missing path when single-page mode is on.
	KindSpaFallback
	// KindDenied carries an error status instead of content.
	KindDenied
)

// Resource is the outcome of resolving one request path. It is derived
// fresh per request and never cached: size and mtime may change between
// requests and staleness is not tolerated.
type Resource struct {
	Kind    Kind
	Path    string
	Size    int64
	ModTime time.Time
	Status  int
}

// Resolver applies the resolution policy for one filesystem root.
type Resolver struct {
	Root       string
	SinglePage bool
	NoDirlist  bool
}

const indexDocument = "index.html"

// Resolve maps a request path to a Resource. The rules apply in order:
// "/" becomes "/index.html"; a trailing slash is a directory reference
// (403 when listing is disabled, otherwise the index document is tried);
// a missing path falls back to the root index in single-page mode; any
// unexpected I/O error is a 500.
func (rv *Resolver) Resolve(reqPath string) Resource {
	p := reqPath
	if p == "" || p == "/" {
		p = "/" + indexDocument
	}

	if strings.HasSuffix(p, "/") {
		if rv.NoDirlist {
			return Resource{Kind: KindDenied, Status: 403}
		}
		p += indexDocument
	}

	// Jail the path under the root: Clean resolves "." and ".." segments
	// against "/" so the concatenation cannot escape.
	p = path.Clean("/" + p)
	full := rv.Root + p

	st, err := os.Stat(full)
	switch {
	case err == nil && st.Mode().IsRegular():
		return Resource{Kind: KindFile, Path: full, Size: st.Size(), ModTime: st.ModTime()}

	case err == nil && st.IsDir():
		// A directory reached without a trailing slash.
		if rv.NoDirlist {
			return Resource{Kind: KindDenied, Status: 403}
		}
		return rv.resolveIndex(full)

	case os.IsNotExist(err):
		if rv.SinglePage {
			return rv.spaFallback()
		}
		return Resource{Kind: KindDenied, Status: 404}

	case err == nil:
		// Sockets, devices and other non-regular files are not served.
		return Resource{Kind: KindDenied, Status: 404}

	default:
		return Resource{Kind: KindDenied, Status: 500}
	}
}

func (rv *Resolver) resolveIndex(dir string) Resource {
	full := dir + "/" + indexDocument
	st, err := os.Stat(full)
	switch {
	case err == nil && st.Mode().IsRegular():
		return Resource{Kind: KindFile, Path: full, Size: st.Size(), ModTime: st.ModTime()}
	case err == nil || os.IsNotExist(err):
		if rv.SinglePage {
			return rv.spaFallback()
		}
		return Resource{Kind: KindDenied, Status: 404}
	default:
		return Resource{Kind: KindDenied, Status: 500}
	}
}

func (rv *Resolver) spaFallback() Resource {
	full := rv.Root + "/" + indexDocument
	st, err := os.Stat(full)
	switch {
	case err == nil && st.Mode().IsRegular():
		return Resource{Kind: KindSpaFallback, Path: full, Size: st.Size(), ModTime: st.ModTime()}
	case err == nil || os.IsNotExist(err):
		return Resource{Kind: KindDenied, Status: 404}
	default:
		return Resource{Kind: KindDenied, Status: 500}
	}
}
