// Package config loads, saves and defaults the vidmove global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileName is the global config file name inside the user config directory.
const fileName = "config.yml"

// GlobalConfig represents the global configuration file
// (~/.config/vidmove/config.yml on most systems).
type GlobalConfig struct {
	Destination string   `yaml:"destination"`
	Keyword     string   `yaml:"keyword,omitempty"`
	Formats     []string `yaml:"formats,flow"`
	OnConflict  string   `yaml:"on_conflict"`
}

// Clone returns a deep copy of the global configuration
func (g *GlobalConfig) Clone() GlobalConfig {
	res := *g
	if len(g.Formats) > 0 {
		res.Formats = make([]string, len(g.Formats))
		copy(res.Formats, g.Formats)
	}
	return res
}

// GetDefaults returns the built-in configuration used when no config file
// exists. The destination mirrors the classic "filtered files on the desktop"
// layout; formats cover the common video containers.
func GetDefaults() GlobalConfig {
	return GlobalConfig{
		Destination: "~/Desktop/Filtered_Files",
		Formats:     []string{"mp4", "avi", "mov", "mkv", "flv", "wmv"},
		OnConflict:  "rename",
	}
}

// Path returns the location of the global config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "vidmove", fileName), nil
}

// LoadGlobal reads the global config file. It returns (nil, nil) when the
// file does not exist so callers can fall back to GetDefaults.
func LoadGlobal() (*GlobalConfig, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load reads and parses a config file from an explicit path.
func Load(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save marshals the config to YAML and writes it to path, creating parent
// directories as needed.
func Save(path string, cfg *GlobalConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// defaultTemplate is the commented starter config written by "config init".
const defaultTemplate = `# vidmove global configuration

# Flat directory matched files are moved into. "~" expands to your home.
destination: ~/Desktop/Filtered_Files

# Keyword a filename must contain (case-insensitive). Usually passed with
# --keyword instead; set it here to make it the default.
#keyword: play

# Video extensions to match, without the leading dot (case-insensitive).
formats: [mp4, avi, mov, mkv, flv, wmv]

# What to do when the destination already holds a same-named file:
# rename (probe name_1.ext, name_2.ext, ...), skip, or overwrite.
on_conflict: rename
`

// WriteTemplate writes the commented default config file to path, creating
// parent directories as needed.
func WriteTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Effective merges the on-disk global config (if any) over the built-in
// defaults. Only non-zero fields of the file override the defaults.
func Effective() (GlobalConfig, error) {
	cfg := GetDefaults()
	global, err := LoadGlobal()
	if err != nil {
		return cfg, err
	}
	if global == nil {
		return cfg, nil
	}
	if global.Destination != "" {
		cfg.Destination = global.Destination
	}
	if global.Keyword != "" {
		cfg.Keyword = global.Keyword
	}
	if len(global.Formats) > 0 {
		cfg.Formats = global.Formats
	}
	if global.OnConflict != "" {
		cfg.OnConflict = global.OnConflict
	}
	return cfg, nil
}

// ExpandHome resolves a leading "~" or "~/" in path against the current
// user's home directory. Paths without the prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
