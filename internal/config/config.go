// Package config loads and persists the cardquiz configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Scryfall API settings
	API APIConfig `toml:"api"`

	// Name cache settings
	Cache CacheConfig `toml:"cache"`

	// Session persistence settings
	Store StoreConfig `toml:"store"`

	// Quiz gameplay settings
	Game GameConfig `toml:"game"`
}

// APIConfig contains Scryfall client settings.
type APIConfig struct {
	BaseURL string `toml:"base_url"` // API base URL (default: official Scryfall)
	Timeout string `toml:"timeout"`  // Request timeout (e.g., "30s")
}

// CacheConfig contains autocomplete name-cache settings.
type CacheConfig struct {
	MaxEntries int `toml:"max_entries"` // Max cached FilterSet keys
}

// StoreConfig contains session persistence settings.
type StoreConfig struct {
	Path string `toml:"path"` // Path to the session database ("" = default location)
}

// GameConfig contains quiz gameplay settings.
type GameConfig struct {
	Mode string   `toml:"mode"` // "text" or "choice"
	Sets []string `toml:"sets"` // Default set codes to quiz on
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://api.scryfall.com",
			Timeout: "30s",
		},
		Cache: CacheConfig{
			MaxEntries: 4,
		},
		Store: StoreConfig{
			Path: "",
		},
		Game: GameConfig{
			Mode: "text",
			Sets: nil,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".cardquiz")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// DefaultStorePath returns the default session database location.
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".cardquiz", "session.db"), nil
}

// Load loads the configuration from disk. Returns default config if the
// file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("invalid API timeout %q: %w", c.API.Timeout, err)
		}
	}

	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max entries cannot be negative: %d", c.Cache.MaxEntries)
	}

	switch c.Game.Mode {
	case "", "text", "choice":
	default:
		return fmt.Errorf("invalid game mode %q (want \"text\" or \"choice\")", c.Game.Mode)
	}

	return nil
}
