// Package config loads the JSON settings shared by the spider commands.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"spider-cipher/keying"
)

// Config holds command settings. Command-line flags override these values.
type Config struct {
	Source      string `json:"source"`       // keying source kind
	SourceWidth int    `json:"source_width"` // bytes per source draw: 1, 2 or 4
	Keyring     string `json:"keyring"`      // SQLite keyring path
	KeyFile     string `json:"key_file"`     // default JSON key path
	Runs        int    `json:"runs"`         // deckstat sample size
	ReportDir   string `json:"report_dir"`   // deckstat output directory
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Source:      keying.SourceCrypto,
		SourceWidth: 1,
		Keyring:     "spider_keys/keyring.db",
		KeyFile:     "spider_keys/key.json",
		Runs:        10000,
		ReportDir:   "Measure_Reports",
	}
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	switch c.Source {
	case keying.SourcePRNG, keying.SourceKeyed, keying.SourcePassphrase, keying.SourceChaCha, keying.SourceCrypto:
	default:
		return fmt.Errorf("%w: %q", keying.ErrUnknownSource, c.Source)
	}
	if c.SourceWidth != 1 && c.SourceWidth != 2 && c.SourceWidth != 4 {
		return fmt.Errorf("%w (got %d)", keying.ErrSourceWidth, c.SourceWidth)
	}
	if c.Runs <= 0 {
		return fmt.Errorf("runs must be >0 (got %d)", c.Runs)
	}
	if c.Keyring == "" || c.KeyFile == "" || c.ReportDir == "" {
		return fmt.Errorf("keyring/key_file/report_dir must be set")
	}
	return nil
}

// Load decodes settings from JSON on top of Default and validates them.
// Unknown fields are rejected.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromFile opens path and calls Load. An empty path yields Default.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
