package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConnectivityCheckTimeout is used when the file does not set one.
	DefaultConnectivityCheckTimeout = 5 * time.Minute

	// DefaultUser is the OS user created on every host.
	DefaultUser = "party"

	// DefaultPath is the config file used when neither a flag nor
	// EnvConfigPath names one.
	DefaultPath = "config.yaml"

	// EnvConfigPath overrides DefaultPath.
	EnvConfigPath = "HOSTPARTY_CONFIG"
)

// ResolvePath returns the config path to use: the explicit value when set,
// then $HOSTPARTY_CONFIG, then DefaultPath.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultPath
}

// LoadFile reads, defaults, and validates the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes, defaults, and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills in unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.General.ConnectivityCheckTimeout == 0 {
		c.General.ConnectivityCheckTimeout = Duration(DefaultConnectivityCheckTimeout)
	}
	if c.Instances.User == "" {
		c.Instances.User = DefaultUser
	}
}

// DecodeArgs decodes a provider args node into out. A missing node leaves
// out untouched.
func DecodeArgs(node *yaml.Node, out interface{}) error {
	if node == nil || node.Kind == 0 {
		return nil
	}
	if err := node.Decode(out); err != nil {
		return fmt.Errorf("failed to decode provider args: %w", err)
	}
	return nil
}

// Write serializes cfg as YAML to path, creating parent directories.
// Existing files are only replaced when overwrite is set.
func Write(cfg *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	// The file holds credentials.
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
