package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootWatcherTracksPresence(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "site")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatal(err)
	}

	w := newRootWatcher(root)

	w.check()
	if w.missing {
		t.Fatal("existing root reported missing")
	}

	if err := os.Remove(root); err != nil {
		t.Fatal(err)
	}
	w.check()
	if !w.missing {
		t.Fatal("removed root not reported missing")
	}
	// Repeated checks while missing must not flap.
	w.check()
	if !w.missing {
		t.Fatal("missing state lost on repeat check")
	}

	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatal(err)
	}
	w.check()
	if w.missing {
		t.Fatal("restored root still reported missing")
	}
}

func TestRootWatcherFileIsNotADir(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "site")
	if err := os.WriteFile(root, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := newRootWatcher(root)
	w.check()
	if !w.missing {
		t.Fatal("plain file accepted as served root")
	}
}
