package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Bind != "0.0.0.0" {
		t.Errorf("Bind = %q, want 0.0.0.0", cfg.Bind)
	}
	if cfg.Root != "." {
		t.Errorf("Root = %q, want .", cfg.Root)
	}
	if !cfg.Gzip || !cfg.KeepAlive {
		t.Errorf("Gzip = %v, KeepAlive = %v, want both true", cfg.Gzip, cfg.KeepAlive)
	}
	if cfg.SinglePage || cfg.CORS || cfg.NoDirlist || cfg.Quiet || cfg.Open {
		t.Error("feature flags should default to off")
	}
}

func TestLoadFlags(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load([]string{
		"-port", "9000",
		"-bind", "127.0.0.1",
		"-root", root,
		"-spa",
		"-cors",
		"-gzip=false",
		"-keepalive=false",
		"-threads", "4",
		"-log-json",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.Bind != "127.0.0.1" || cfg.Root != root {
		t.Errorf("listen config mismatch: %+v", cfg)
	}
	if !cfg.SinglePage || !cfg.CORS || !cfg.LogJSON {
		t.Errorf("boolean flags not applied: %+v", cfg)
	}
	if cfg.Gzip || cfg.KeepAlive {
		t.Errorf("negated flags not applied: %+v", cfg)
	}
	if cfg.Threads != 4 {
		t.Errorf("Threads = %d, want 4", cfg.Threads)
	}
}

func TestLoadFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.json")
	body := `{"port": 9999, "bind": "10.0.0.1", "single_page": true, "threads": 2}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"-config", path, "-port", "8088"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8088 {
		t.Errorf("Port = %d, want flag value 8088 over file value", cfg.Port)
	}
	if cfg.Bind != "10.0.0.1" {
		t.Errorf("Bind = %q, want file value 10.0.0.1", cfg.Bind)
	}
	if !cfg.SinglePage {
		t.Error("SinglePage should come from the file")
	}
	if cfg.Threads != 2 {
		t.Errorf("Threads = %d, want file value 2", cfg.Threads)
	}
	if !cfg.Gzip {
		t.Error("fields absent from the file keep their defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad port", []string{"-port", "banana"}},
		{"port out of range", []string{"-port", "70000"}},
		{"missing root", []string{"-root", "/does/not/exist"}},
		{"negative threads", []string{"-threads", "-1"}},
		{"missing config file", []string{"-config", "/does/not/exist.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := load(tt.args, io.Discard); err == nil {
				t.Errorf("load(%v) succeeded, want error", tt.args)
			}
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load([]string{"-config", path}); err == nil {
		t.Error("Load succeeded on malformed JSON, want error")
	}
}
