package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"musicplayer/internal/library"
)

const appName = "musicplayer"

type Config struct {
	Engine         string        `koanf:"engine"`           // "beep" or "vlc"
	TickIntervalMs int           `koanf:"tick_interval_ms"` // position refresh period
	Extensions     []string      `koanf:"-"`                // files listed next to the opened track
	ArtworkMaxSize int           `koanf:"artwork_max_size"` // pixels, 0 keeps original size
	Discord        DiscordConfig `koanf:"discord"`
}

// DiscordConfig enables Rich Presence when a client ID is set.
type DiscordConfig struct {
	Enabled  bool   `koanf:"enabled"`
	ClientID string `koanf:"client_id"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine:         "beep",
		TickIntervalMs: 200,
		Extensions:     append([]string(nil), library.DefaultExtensions...),
		ArtworkMaxSize: 600,
	}
}

// TickInterval returns the position refresh period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// Load reads the config files in priority order (last wins) on top of Default.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files, skipping the ones that do not exist.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	// Replace rather than merge into the default list.
	if k.Exists("extensions") {
		cfg.Extensions = k.Strings("extensions")
	}

	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	if cfg.Engine == "" {
		cfg.Engine = "beep"
	}
	if cfg.TickIntervalMs <= 0 {
		cfg.TickIntervalMs = Default().TickIntervalMs
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = Default().Extensions
	}
	if cfg.ArtworkMaxSize < 0 {
		cfg.ArtworkMaxSize = 0
	}
	cfg.Discord.ClientID = strings.TrimSpace(cfg.Discord.ClientID)
	if cfg.Discord.ClientID == "" {
		cfg.Discord.Enabled = false
	}
	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/musicplayer/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}
