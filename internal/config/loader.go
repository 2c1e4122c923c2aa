package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration, applies environment overrides and validates it.
// Search order: customPath -> ~/.memory/config.yaml -> ./configs/memory.yaml -> embedded default
func Load(customPath string) (Config, error) {
	return load(customPath, userConfigPath(), filepath.Join("configs", "memory.yaml"))
}

func load(customPath, userPath, localPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		cfg.Source = customPath
		return finish(cfg)
	}

	// User and local files are skipped when unreadable or malformed.
	for _, path := range []string{userPath, localPath} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := Default()
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			candidate.Source = path
			return finish(candidate)
		}
	}

	// Use embedded default YAML
	embedded := Default()
	if err := yaml.Unmarshal(defaultYAML, &embedded); err != nil {
		return finish(Default()) // Fallback to hardcoded if embed fails
	}
	embedded.Source = "embedded"
	return finish(embedded)
}

func finish(cfg Config) (Config, error) {
	ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".memory", "config.yaml")
}
