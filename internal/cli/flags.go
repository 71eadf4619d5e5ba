package cli

import (
	"github.com/spf13/cobra"

	"github.com/sdejongh/dirsync/pkg/config"
	"github.com/sdejongh/dirsync/pkg/models"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"per-user option file (default is $HOME/.dirsync)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"provide verbose output",
	)
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}

// SyncFlags holds the flags shared by every command that runs the engine
type SyncFlags struct {
	Purge       bool
	Force       bool
	Create      bool
	ModTime     bool
	NoDirection bool
	Direction   string
	Only        []string
	Exclude     []string
	Include     []string
	Ignore      []string
	Output      string
	DiffReport  string
	DiffFormat  string
	History     bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

// addSyncFlags registers the run flags on cmd
func addSyncFlags(cmd *cobra.Command, f *SyncFlags) {
	cmd.Flags().BoolVarP(&f.Purge, "purge", "p", false, "purge entries that no longer exist on the authoritative side")
	cmd.Flags().BoolVarP(&f.Force, "force", "f", false, "force copying by trying to change permissions")
	cmd.Flags().BoolVarP(&f.Create, "create", "c", false, "create the target directory if it does not exist")
	cmd.Flags().BoolVarP(&f.ModTime, "modtime", "m", false, "only compare modification times for an update")
	cmd.Flags().BoolVarP(&f.NoDirection, "nodirection", "n", false, "sync in both directions (same as --direction bidirectional)")
	cmd.Flags().StringVar(&f.Direction, "direction", "source-to-target", "direction: source-to-target, target-to-source, bidirectional")

	// Patterns may contain commas, so each occurrence of a flag is one pattern
	cmd.Flags().StringArrayVarP(&f.Only, "only", "o", nil, "pattern to exclusively include (repeatable)")
	cmd.Flags().StringArrayVarP(&f.Exclude, "exclude", "e", nil, "pattern to exclude (repeatable)")
	cmd.Flags().StringArrayVarP(&f.Include, "include", "i", nil, "pattern to include, with precedence over excludes (repeatable)")
	cmd.Flags().StringArrayVarP(&f.Ignore, "ignore", "x", nil, "pattern to ignore on both sides (repeatable)")

	cmd.Flags().StringVar(&f.Output, "output", "human", "output format: human, json, progress")
	cmd.Flags().StringVar(&f.DiffReport, "diff-report", "", "write differences report to file")
	cmd.Flags().StringVar(&f.DiffFormat, "diff-format", "human", "differences report format: human, json")
	cmd.Flags().BoolVar(&f.History, "history", false, "record the run in the history database")

	// Logging flags
	cmd.Flags().StringVar(&f.LogFile, "log-file", "", "also write logs to file")
	cmd.Flags().StringVar(&f.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&f.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// applyFlagsToConfig overrides config values with the flags set on the
// command line. Flags left at their default keep the option file value.
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config, f *SyncFlags) {
	changed := cmd.Flags().Changed

	if changed("verbose") {
		cfg.Verbose = globalFlags.Verbose
	}
	if changed("purge") {
		cfg.Purge = f.Purge
	}
	if changed("force") {
		cfg.Force = f.Force
	}
	if changed("create") {
		cfg.Create = f.Create
	}
	if changed("modtime") {
		cfg.ModTime = f.ModTime
	}
	if changed("direction") {
		cfg.Direction = f.Direction
	}
	if changed("nodirection") && f.NoDirection {
		cfg.Direction = string(models.DirectionBidirectional)
	}

	// Pattern flags replace the file's list for that set
	if changed("only") {
		cfg.Only = f.Only
	}
	if changed("exclude") {
		cfg.Exclude = f.Exclude
	}
	if changed("include") {
		cfg.Include = f.Include
	}
	if changed("ignore") {
		cfg.Ignore = f.Ignore
	}

	if changed("output") {
		cfg.Output.Format = f.Output
	}
	if changed("diff-report") {
		cfg.Output.DiffReport = f.DiffReport
	}
	if changed("diff-format") {
		cfg.Output.DiffFormat = f.DiffFormat
	}
	if changed("history") {
		cfg.History.Enabled = f.History
	}

	if changed("log-file") {
		cfg.Logging.File = f.LogFile
	}
	if changed("log-format") {
		cfg.Logging.Format = f.LogFormat
	}
	if changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
}
