package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/memory-match/internal/levels"
)

//go:embed defaults/memory.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration, used when no YAML can be read.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			BaseURL:  "https://api.disneyapi.dev",
			PageSize: 50,
			MaxPage:  50,
			Timeout:  8 * time.Second,
			CacheTTL: 5 * time.Minute,
		},
		Game: GameConfig{
			ShuffleWindow: 800 * time.Millisecond,
		},
		Levels: *levels.Default(),
		Server: ServerConfig{
			SSHAddr:     ":23235",
			HostKey:     "", // NewSSHServer falls back to ~/.memory/host_key
			IdleTimeout: 10 * time.Minute,
			HTTPAddr:    ":8081",
			SessionTTL:  30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Source: "built-in",
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
