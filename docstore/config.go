// ABOUTME: Configuration for the Charm KV backed document store
// ABOUTME: Handles server settings, auto-sync, and the remote poll interval

package docstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	// DefaultCharmHost is the hosted charm server the platform syncs through.
	DefaultCharmHost = "cloud.charm.sh"

	// AppName is the application name for the Charm KV database.
	AppName = "salesdesk"

	// ConfigFileName is where we store local store config.
	ConfigFileName = "store-config.json"

	// DefaultSyncInterval is how often subscriptions pull remote changes.
	DefaultSyncInterval = 15 * time.Second
)

// Config holds document store connection settings.
type Config struct {
	// Host is the charm server hostname.
	Host string `json:"host,omitempty"`

	// AutoSync enables automatic sync after every write operation.
	AutoSync bool `json:"auto_sync"`

	// SyncInterval is the period between remote change polls on open
	// subscriptions.
	SyncInterval time.Duration `json:"sync_interval,omitempty"`
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:         DefaultCharmHost,
		AutoSync:     true,
		SyncInterval: DefaultSyncInterval,
	}
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, AppName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dataDir, ConfigFileName), nil
}

// LoadConfig loads config from disk, or returns defaults if not found.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		// Can't determine config path, use defaults
		return DefaultConfig(), nil //nolint:nilerr // Intentionally returning defaults on path error
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Invalid config, use defaults
		return DefaultConfig(), nil //nolint:nilerr // Intentionally returning defaults on parse error
	}

	// Apply defaults for missing fields
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}

	return &cfg, nil
}

// Save persists the config to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// SetHost sets the charm server host and saves.
func (c *Config) SetHost(host string) error {
	c.Host = host
	return c.Save()
}
