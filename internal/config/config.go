package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults
const (
	DefaultStorePath = "data/codes.txt"
	DefaultBatchSize = 5
	configDirName    = ".gatepass"
	configFileName   = "config.toml"
)

// Config represents the flat gatepass configuration
type Config struct {
	StorePath  string `toml:"store_path"`
	BatchSize  int    `toml:"batch_size"`
	LedgerPath string `toml:"ledger_path,omitempty"` // empty = ~/.gatepass/ledger.db
	NoLedger   bool   `toml:"no_ledger,omitempty"`
	Operator   string `toml:"operator,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		StorePath: DefaultStorePath,
		BatchSize: DefaultBatchSize,
	}
}

// Path returns the config file location for a directory.
func Path(dir string) string {
	return filepath.Join(dir, configDirName, configFileName)
}

// LoadConfig reads .gatepass/config.toml from the specified directory.
// A missing file yields Default(); unset fields keep their defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	path := Path(dir)
	meta, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.toml to directory
func SaveConfig(dir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	configDir := filepath.Join(dir, configDirName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", configDirName, err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StorePath) == "" {
		return fmt.Errorf("store_path must not be empty")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	return nil
}

// ResolveLedgerPath returns the ledger database path, expanding a leading ~.
func (c *Config) ResolveLedgerPath(defaultPath func() (string, error)) (string, error) {
	if c.LedgerPath == "" {
		return defaultPath()
	}
	if rest, ok := strings.CutPrefix(c.LedgerPath, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, rest), nil
	}
	return c.LedgerPath, nil
}
