package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete bot configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Discord DiscordConfig `json:"discord" yaml:"discord"`
	Stats   StatsConfig   `json:"stats" yaml:"stats"`
}

// ServerConfig contains HTTP listener parameters.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// StoreConfig locates the SQLite datastore file.
type StoreConfig struct {
	Path string `json:"path" yaml:"path"`
}

// DiscordConfig carries the application credentials. PublicKey is the
// hex-encoded ed25519 key used to verify inbound webhooks; BotToken is only
// needed for command registration and message edits.
type DiscordConfig struct {
	AppID     string `json:"app_id" yaml:"app_id"`
	PublicKey string `json:"public_key" yaml:"public_key"`
	BotToken  string `json:"bot_token,omitempty" yaml:"bot_token,omitempty"`
	APIBase   string `json:"api_base,omitempty" yaml:"api_base,omitempty"`
}

// StatsConfig contains statistics parameters. ReferenceZone is the IANA
// zone used to bucket entries into calendar days for streaks.
type StatsConfig struct {
	ReferenceZone string `json:"reference_zone" yaml:"reference_zone"`
}

// LoadFromFile loads configuration from a file (YAML or JSON), layered over
// the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	return cfg, nil
}

// ApplyEnv overrides config values from the environment. Called after file
// loading so the env wins, matching how the original deployment was
// configured.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("GLIZZY_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("DISCORD_APP_ID"); v != "" {
		c.Discord.AppID = v
	}
	if v := os.Getenv("DISCORD_PUBLIC_KEY"); v != "" {
		c.Discord.PublicKey = v
	}
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		c.Discord.BotToken = v
	}
	if v := os.Getenv("GLIZZY_REFERENCE_ZONE"); v != "" {
		c.Stats.ReferenceZone = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Stats.ReferenceZone == "" {
		return fmt.Errorf("stats.reference_zone is required")
	}
	if _, err := time.LoadLocation(c.Stats.ReferenceZone); err != nil {
		return fmt.Errorf("unknown stats.reference_zone: %w", err)
	}
	return nil
}

// Location resolves the reference zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Stats.ReferenceZone)
}

// Default returns a configuration with sensible defaults. Discord
// credentials have no default and come from the env or a config file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":3000",
		},
		Store: StoreConfig{
			Path: "./database/data.db",
		},
		Stats: StatsConfig{
			ReferenceZone: "America/Los_Angeles",
		},
	}
}
