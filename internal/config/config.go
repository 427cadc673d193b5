// Package config provides configuration for the crosslock daemon.
// All daemon parameters (API address, data dir, engine policy defaults)
// are defined here; nothing is hardcoded elsewhere.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the daemon.
type Config struct {
	// API settings
	API APIConfig `yaml:"api"`

	// Storage
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Engine policy defaults, applied on first boot only. After that the
	// persisted policy row is authoritative and changes go through the
	// admin config_update call.
	Engine EngineConfig `yaml:"engine"`
}

// APIConfig holds JSON-RPC API settings.
type APIConfig struct {
	// ListenAddr is the host:port for the JSON-RPC and WebSocket API.
	ListenAddr string `yaml:"listen_addr"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	// DataDir is the directory for all data files.
	DataDir string `yaml:"data_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`
}

// EngineConfig holds first-boot engine policy defaults.
type EngineConfig struct {
	// Admin is the address with exclusive rights to update policy and
	// force-refund. Required on first boot.
	Admin string `yaml:"admin"`

	// AddressPrefix is the bech32 prefix accepted by the identity
	// validator. Empty accepts any prefix.
	AddressPrefix string `yaml:"address_prefix"`

	// MinimumSafetyDeposit is the smallest deposit in base units,
	// as a decimal string.
	MinimumSafetyDeposit string `yaml:"minimum_safety_deposit"`

	// MinTimelockDuration and MaxTimelockDuration bound, in seconds, how
	// far in the future a timelock may be set.
	MinTimelockDuration int64 `yaml:"min_timelock_duration"`
	MaxTimelockDuration int64 `yaml:"max_timelock_duration"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			ListenAddr: "127.0.0.1:8545",
		},
		Storage: StorageConfig{
			DataDir: "~/.crosslock",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Engine: EngineConfig{
			AddressPrefix:        "juno",
			MinimumSafetyDeposit: "1000000",
			MinTimelockDuration:  3600,
			MaxTimelockDuration:  7 * 24 * 3600,
		},
	}
}

// ConfigFileName is the default config file name.
const ConfigFileName = "config.yaml"

// ConfigPath returns the config file path inside a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(expandPath(dataDir), ConfigFileName)
}

// Load loads configuration from a YAML file in the data directory.
// If the file doesn't exist, it creates one with default values.
func Load(dataDir string) (*Config, error) {
	configPath := ConfigPath(dataDir)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.Storage.DataDir = dataDir

		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Crosslock HTLC Engine Configuration\n# Generated automatically on first run\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
