// Package config provides configuration file support for the rc command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rc-project/rc/internal/compression"
	"github.com/rc-project/rc/pkg/fsutil"
	"github.com/rc-project/rc/pkg/logging"
	"github.com/rc-project/rc/pkg/rc"
)

// EnvPath overrides DefaultPath when set.
const EnvPath = "RC_CONFIG"

// Config represents the rc tool configuration.
type Config struct {
	// Strict enforces the conformsto check when opening containers.
	Strict bool `yaml:"strict"`
	// Compression is the deflate level for archive writes: none, fast,
	// default or max.
	Compression string        `yaml:"compression"`
	Progress    bool          `yaml:"progress"`
	Logging     LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Strict:      true,
		Compression: "default",
		Progress:    true,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultPath returns $RC_CONFIG, or rc/config.yaml under the user config
// directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "rc", "config.yaml"), nil
}

// Load loads configuration from path.
// Returns default config if file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil // No config file is OK, use defaults
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to path atomically.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := fsutil.AtomicWrite(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := compression.NewCompressorFromString(c.Compression); err != nil {
		return fmt.Errorf("config compression: %w", err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config logging.level: %w", err)
	}
	switch logging.Format(c.Logging.Format) {
	case "", logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("config logging.format: invalid format %q (must be json or text)", c.Logging.Format)
	}
	return nil
}

// Logger builds a logger from the logging section.
func (c *Config) Logger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	l := logging.NewLogger(level)
	if c.Logging.Format != "" {
		l.SetFormat(logging.Format(c.Logging.Format))
	}
	return l, nil
}

// OpenOptions converts the configuration into container options.
func (c *Config) OpenOptions() (rc.Options, error) {
	if _, err := compression.NewCompressorFromString(c.Compression); err != nil {
		return rc.Options{}, err
	}
	log, err := c.Logger()
	if err != nil {
		return rc.Options{}, err
	}
	return rc.Options{
		Lenient:     !c.Strict,
		Compression: c.Compression,
		Logger:      log,
	}, nil
}
