package config

import (
	"github.com/sdejongh/dirsync/pkg/logging"
	"github.com/sdejongh/dirsync/pkg/models"
)

// Config represents the contents of a .dirsync option file
type Config struct {
	Action    string   `yaml:"action"`
	Verbose   bool     `yaml:"verbose"`
	Purge     bool     `yaml:"purge"`
	Force     bool     `yaml:"force"`
	Direction string   `yaml:"direction"`
	Create    bool     `yaml:"create"`
	ModTime   bool     `yaml:"modtime"`
	Only      []string `yaml:"only"`
	Exclude   []string `yaml:"exclude"`
	Include   []string `yaml:"include"`
	Ignore    []string `yaml:"ignore"`

	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`
}

// OutputConfig holds report-related settings
type OutputConfig struct {
	Format     string `yaml:"format"`      // "human", "json" or "progress"
	DiffReport string `yaml:"diff_report"` // Differences report path (empty = none)
	DiffFormat string `yaml:"diff_format"` // "human" or "json"
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	File   string `yaml:"file"`   // Log file path (empty = console only)
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
}

// HistoryConfig holds run history settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Database path (empty = ~/.dirsync.db)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Action:    string(models.ModeSync),
		Direction: string(models.DirectionSourceToTarget),
		Only:      []string{},
		Exclude:   []string{},
		Include:   []string{},
		Ignore:    []string{},
		Output: OutputConfig{
			Format:     "human",
			DiffFormat: "human",
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := models.ParseMode(c.Action); err != nil {
		return &models.ValidationError{
			Field:   "action",
			Message: "must be 'sync', 'update' or 'diff'",
		}
	}

	if _, err := models.ParseDirection(c.Direction); err != nil {
		return &models.ValidationError{
			Field:   "direction",
			Message: "must be 'source-to-target', 'target-to-source' or 'bidirectional'",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true, "progress": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human', 'json' or 'progress'",
		}
	}

	validDiffFormats := map[string]bool{"human": true, "json": true}
	if !validDiffFormats[c.Output.DiffFormat] {
		return &models.ValidationError{
			Field:   "output.diff_format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[logging.Format]bool{logging.FormatJSON: true, logging.FormatText: true}
	if !validLogFormats[logging.Format(c.Logging.Format)] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// Mode returns the parsed action
func (c *Config) Mode() (models.Mode, error) {
	return models.ParseMode(c.Action)
}

// ToOptions converts the file settings into run options
func (c *Config) ToOptions() models.Options {
	opts := models.DefaultOptions()
	opts.Verbose = c.Verbose
	opts.Purge = c.Purge
	opts.ForcePermissions = c.Force
	opts.CreateTarget = c.Create
	opts.ModTimeOnly = c.ModTime
	if d, err := models.ParseDirection(c.Direction); err == nil {
		opts.Direction = d
	}
	opts.Only = append([]string(nil), c.Only...)
	opts.Exclude = append([]string(nil), c.Exclude...)
	opts.Include = append([]string(nil), c.Include...)
	opts.Ignore = append([]string(nil), c.Ignore...)
	return opts
}
