// Package config loads server settings from the command line, optionally
// layered over a JSON config file. Flags always win over the file.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Config holds all application configuration. It is fixed at startup and
// never mutated while serving.
type Config struct {
	// Port is the TCP listen port. 0 asks the kernel for a free port.
	Port uint16 `json:"port"`
	// Bind is the IPv4 listen address.
	Bind string `json:"bind"`
	// Root is the directory served as the site root.
	Root string `json:"root"`

	// SinglePage rewrites misses to /index.html for client-side routing.
	SinglePage bool `json:"single_page"`
	// NoDirlist makes a directory URL with a trailing slash a 403 instead
	// of falling back to its index.html.
	NoDirlist bool `json:"no_dirlist"`
	// CORS enables Access-Control-* headers and the OPTIONS preflight.
	CORS bool `json:"cors"`
	// Gzip enables on-the-fly compression of textual responses.
	Gzip bool `json:"gzip"`
	// KeepAlive enables persistent connections; disabled, every response
	// closes its connection.
	KeepAlive bool `json:"keep_alive"`

	// Threads fixes the worker count; 0 derives it from the CPU count.
	Threads int `json:"threads"`

	// LogJSON switches diagnostics and access logs to JSON lines.
	LogJSON bool `json:"log_json"`
	// Quiet suppresses the per-request access log.
	Quiet bool `json:"quiet"`
	// Open launches the system browser at the served address on startup.
	Open bool `json:"open"`
}

func defaults() *Config {
	return &Config{
		Port:      8080,
		Bind:      "0.0.0.0",
		Root:      ".",
		Gzip:      true,
		KeepAlive: true,
	}
}

// Load parses args (without the program name) into a Config. A -config file
// is read first and explicitly passed flags override its values, so the
// flag set is registered with the file's values as defaults and parsed
// once more on top of them.
func Load(args []string) (*Config, error) {
	return load(args, os.Stderr)
}

func load(args []string, usageOut io.Writer) (*Config, error) {
	file, err := configFileArg(args, usageOut)
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	if file != "" {
		if err := loadFile(file, cfg); err != nil {
			return nil, err
		}
	}

	fs := newFlagSet(cfg, usageOut)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

// configFileArg runs a throwaway parse that only extracts -config.
func configFileArg(args []string, usageOut io.Writer) (string, error) {
	scratch := defaults()
	fs := newFlagSet(scratch, usageOut)
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return fs.Lookup("config").Value.String(), nil
}

func newFlagSet(cfg *Config, usageOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("static-server", flag.ContinueOnError)
	fs.SetOutput(usageOut)

	fs.Func("port", "TCP listen port (0 picks a free port)", func(s string) error {
		var p uint16
		if _, err := fmt.Sscanf(s, "%d", &p); err != nil {
			return fmt.Errorf("invalid port %q", s)
		}
		cfg.Port = p
		return nil
	})
	fs.StringVar(&cfg.Bind, "bind", cfg.Bind, "IPv4 listen address")
	fs.StringVar(&cfg.Root, "root", cfg.Root, "directory to serve")
	fs.BoolVar(&cfg.SinglePage, "spa", cfg.SinglePage, "single-page-app mode: serve /index.html on miss")
	fs.BoolVar(&cfg.NoDirlist, "no-dirlist", cfg.NoDirlist, "forbid directory URLs instead of serving their index.html")
	fs.BoolVar(&cfg.CORS, "cors", cfg.CORS, "emit permissive CORS headers and answer OPTIONS")
	fs.BoolVar(&cfg.Gzip, "gzip", cfg.Gzip, "gzip textual responses when the client accepts it")
	fs.BoolVar(&cfg.KeepAlive, "keepalive", cfg.KeepAlive, "keep connections open between requests")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "worker count (0 = derive from CPUs)")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "write logs as JSON lines")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress the access log")
	fs.BoolVar(&cfg.Open, "open", cfg.Open, "open the served address in the system browser")
	fs.String("config", "", "path to a JSON config file")

	return fs
}

func (c *Config) validate() error {
	if c.Root == "" {
		return fmt.Errorf("root directory must not be empty")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("root directory %q: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %q is not a directory", c.Root)
	}
	if c.Threads < 0 {
		return fmt.Errorf("threads must not be negative, got %d", c.Threads)
	}
	return nil
}
