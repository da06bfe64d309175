package config

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// loadFile overlays cfg with the values from a JSON config file. Fields
// absent from the file keep their current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
