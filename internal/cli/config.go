package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirsync/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage option files",
		Long:  `View or create dirsync option files.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [source]",
		Short: "Show the merged options for a source directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			}

			cfg, err := loadConfig(source)
			if err != nil {
				return configError(err)
			}

			data, err := cfg.Marshal()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range config.SearchPaths(source) {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "# %s\n", path)
				}
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [source]",
		Short: "Create a default option file",
		Long: `Create $HOME/.dirsync, or <source>/.dirsync when a source directory is
given, holding the default options.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = config.SourceConfigPath(args[0])
			} else {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return configError(fmt.Errorf("%s already exists (use --force to overwrite)", path))
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
