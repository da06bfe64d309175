package static

import (
	"os"
	"path/filepath"
	"testing"
)

// newRoot builds a scratch docroot:
//
//	index.html        (11 bytes)
//	style.css
//	assets/
//	  app.js
//	empty/            (no index)
func newRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "<h1>hi</h1>")
	writeFile(t, filepath.Join(root, "style.css"), "body{}")
	writeFile(t, filepath.Join(root, "assets", "app.js"), "console.log(1)")
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveRootServesIndex(t *testing.T) {
	rv := &Resolver{Root: newRoot(t)}
	res := rv.Resolve("/")
	if res.Kind != KindFile {
		t.Fatalf("Kind = %v, want KindFile", res.Kind)
	}
	if res.Size != 11 {
		t.Errorf("Size = %d, want 11", res.Size)
	}
	if filepath.Base(res.Path) != "index.html" {
		t.Errorf("Path = %q", res.Path)
	}
}

func TestResolveExistingFile(t *testing.T) {
	rv := &Resolver{Root: newRoot(t)}
	res := rv.Resolve("/assets/app.js")
	if res.Kind != KindFile {
		t.Fatalf("Kind = %v, want KindFile", res.Kind)
	}
	if res.Size != int64(len("console.log(1)")) {
		t.Errorf("Size = %d", res.Size)
	}
}

func TestResolveMissing(t *testing.T) {
	rv := &Resolver{Root: newRoot(t)}
	res := rv.Resolve("/missing.html")
	if res.Kind != KindDenied || res.Status != 404 {
		t.Errorf("got %+v, want Denied 404", res)
	}
}

func TestResolveSpaFallback(t *testing.T) {
	rv := &Resolver{Root: newRoot(t), SinglePage: true}
	res := rv.Resolve("/client/route/42")
	if res.Kind != KindSpaFallback {
		t.Fatalf("Kind = %v, want KindSpaFallback", res.Kind)
	}
	if res.Size != 11 {
		t.Errorf("Size = %d, want index size 11", res.Size)
	}
}

func TestResolveSpaFallbackWithoutIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "other.txt"), "x")
	rv := &Resolver{Root: root, SinglePage: true}
	res := rv.Resolve("/anything")
	if res.Kind != KindDenied || res.Status != 404 {
		t.Errorf("got %+v, want Denied 404", res)
	}
}

func TestResolveDirectoryPolicy(t *testing.T) {
	root := newRoot(t)

	// Listing disabled: directory references are forbidden.
	denied := &Resolver{Root: root, NoDirlist: true}
	for _, p := range []string{"/assets/", "/assets", "/empty/"} {
		res := denied.Resolve(p)
		if res.Kind != KindDenied || res.Status != 403 {
			t.Errorf("Resolve(%q) = %+v, want Denied 403", p, res)
		}
	}

	// Listing allowed: the index document is tried instead.
	allowed := &Resolver{Root: root}
	res := allowed.Resolve("/empty/")
	if res.Kind != KindDenied || res.Status != 404 {
		t.Errorf("Resolve(/empty/) = %+v, want Denied 404", res)
	}
	writeFile(t, filepath.Join(root, "empty", "index.html"), "idx")
	res = allowed.Resolve("/empty/")
	if res.Kind != KindFile {
		t.Errorf("Resolve(/empty/) after creating index = %+v, want KindFile", res)
	}
}

func TestResolveRootJail(t *testing.T) {
	root := newRoot(t)
	outside := filepath.Join(filepath.Dir(root), "secret.txt")
	writeFile(t, outside, "secret")

	rv := &Resolver{Root: root}
	res := rv.Resolve("/../secret.txt")
	if res.Kind == KindFile {
		t.Fatalf("path traversal escaped the root: %+v", res)
	}
}

func TestResolveIdempotent(t *testing.T) {
	rv := &Resolver{Root: newRoot(t)}
	first := rv.Resolve("/style.css")
	second := rv.Resolve("/style.css")
	if first != second {
		t.Errorf("resolution not idempotent: %+v vs %+v", first, second)
	}
}

func TestResolveSeesFreshMetadata(t *testing.T) {
	root := newRoot(t)
	rv := &Resolver{Root: root}
	before := rv.Resolve("/style.css")
	writeFile(t, filepath.Join(root, "style.css"), "body{margin:0}")
	after := rv.Resolve("/style.css")
	if after.Size == before.Size {
		t.Errorf("resolver cached stale size %d", after.Size)
	}
}
