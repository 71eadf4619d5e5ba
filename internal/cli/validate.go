package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirsync/pkg/config"
	"github.com/sdejongh/dirsync/pkg/models"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitPartial = 1
	ExitConfig  = 2
)

// ExitError carries a process exit code out of a command. A nil Err means
// the command already reported everything it had to say.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitConfig
}

// configError marks err as a configuration problem
func configError(err error) error {
	return &ExitError{Code: ExitConfig, Err: err}
}

// loadConfig merges the option files for sourceDir. --config replaces the
// per-user file.
func loadConfig(sourceDir string) (*config.Config, error) {
	if globalFlags.ConfigFile == "" {
		return config.Load(sourceDir)
	}

	if _, err := os.Stat(globalFlags.ConfigFile); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return config.LoadFiles(globalFlags.ConfigFile, config.SourceConfigPath(sourceDir))
}

// prepareConfig loads the option files and applies the command-line flags
func prepareConfig(cmd *cobra.Command, sourceDir string, f *SyncFlags) (*config.Config, error) {
	cfg, err := loadConfig(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlagsToConfig(cmd, cfg, f)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// requireTwoDirs validates the positional arguments of run commands
func requireTwoDirs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return configError(&models.ValidationError{
			Field:   "Arguments",
			Message: fmt.Sprintf("expected <source> <target>, got %d argument(s)", len(args)),
		})
	}
	return nil
}
