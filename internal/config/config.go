// Package config provides YAML-based application configuration loading
// for the memory-match front ends.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/memory-match/internal/levels"
)

// Config is the full application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Game    GameConfig    `yaml:"game"`
	Levels  levels.Table  `yaml:"levels"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`

	// Source names where the YAML was read from.
	Source string `yaml:"-"`
}

// CatalogConfig points the dealer at the character catalog.
type CatalogConfig struct {
	BaseURL  string        `yaml:"base_url"`
	PageSize int           `yaml:"page_size"`
	MaxPage  int           `yaml:"max_page"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// GameConfig tunes the state machine.
type GameConfig struct {
	ShuffleWindow time.Duration `yaml:"shuffle_window"`
}

// ServerConfig configures the SSH and HTTP front ends.
type ServerConfig struct {
	SSHAddr     string        `yaml:"ssh_addr"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	HTTPAddr    string        `yaml:"http_addr"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // TUI log file; empty discards TUI logs
}

// Validate checks the configuration for values the game cannot run with.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("config: catalog.base_url is empty")
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("config: catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.MaxPage <= 0 {
		return fmt.Errorf("config: catalog.max_page must be positive, got %d", c.Catalog.MaxPage)
	}
	if c.Catalog.Timeout < 0 || c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("config: catalog durations must not be negative")
	}
	if c.Game.ShuffleWindow <= 0 {
		return fmt.Errorf("config: game.shuffle_window must be positive, got %s", c.Game.ShuffleWindow)
	}
	if c.Server.SessionTTL < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("config: server durations must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if err := c.Levels.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LogLevel parses Log.Level. An empty level means info.
func (c *Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: log.level: %w", err)
	}
	return lvl, nil
}
