package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the dirsync command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dirsync",
		Short: "Directory synchronization utility",
		Long: `dirsync keeps two directory trees in step. It can report their
difference, update files common to both, or fully synchronize them with
optional purging, filtered by include/exclude/only/ignore patterns.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Unknown flags and bad arguments are configuration errors
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return configError(err)
	})

	// Add commands
	rootCmd.AddCommand(NewSyncCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewDiffCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
