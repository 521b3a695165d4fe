package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads the game configuration.
// Search order: customPath -> ~/.glowroutes/config.yaml -> ./configs/glowroutes.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the
// knobs it names. A custom path that cannot be read or parsed is an error;
// the implicit locations are skipped silently.
func Load(customPath string) (GameConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := decodeFile(customPath)
		if err != nil {
			return cfg, err
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath("config.yaml"), filepath.Join("configs", "glowroutes.yaml")} {
		if path == "" {
			continue
		}
		if cfg, err := decodeFile(path); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(defaultGameYAML, &cfg); err != nil {
		return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Decode parses config data in the given format ("yaml" or "toml") over the
// defaults.
func Decode(data []byte, format string) (GameConfig, error) {
	cfg := DefaultGameConfig()
	switch strings.ToLower(format) {
	case "toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, err
		}
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", format)
	}
	return cfg, nil
}

func decodeFile(path string) (GameConfig, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return DefaultGameConfig(), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultGameConfig(), fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".glowroutes", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
