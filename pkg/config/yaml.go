package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of both the per-user and the per-source option file
const FileName = ".dirsync"

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Load merges the per-user and per-source option files for sourceDir.
// Keys set in the per-source file win. Missing files are skipped.
func Load(sourceDir string) (*Config, error) {
	return LoadFiles(SearchPaths(sourceDir)...)
}

// LoadFiles decodes each existing file on top of the defaults, in order
func LoadFiles(paths ...string) (*Config, error) {
	cfg := Default()
	for _, path := range paths {
		err := decodeFile(cfg, path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SearchPaths returns the option files consulted for sourceDir, lowest
// precedence first
func SearchPaths(sourceDir string) []string {
	var paths []string
	if path, err := DefaultConfigPath(); err == nil {
		paths = append(paths, path)
	}
	if path := SourceConfigPath(sourceDir); path != "" {
		paths = append(paths, path)
	}
	return paths
}

// SourceConfigPath returns the per-source option file of sourceDir
func SourceConfigPath(sourceDir string) string {
	if sourceDir == "" {
		return ""
	}
	abs, err := filepath.Abs(filepath.Join(sourceDir, FileName))
	if err != nil {
		return ""
	}
	return abs
}

func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveToFile saves configuration to a YAML file
func SaveToFile(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the per-user option file path
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, FileName), nil
}

// DefaultHistoryPath returns the run history database path used when the
// history section names none
func DefaultHistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".dirsync.db"), nil
}
