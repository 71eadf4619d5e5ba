package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirsync/pkg/models"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int
	var path string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Long:  `List the most recent runs recorded with --history or "history.enabled".`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return configError(err)
			}
			if cmd.Flags().Changed("path") {
				cfg.History.Path = path
			}

			store, err := openHistory(cfg)
			if err != nil {
				return configError(err)
			}
			defer store.Close()

			runs, err := store.Recent(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no history yet")
				return nil
			}

			for _, run := range runs {
				status := "✓"
				if run.Status != string(models.StatusSuccess) {
					status = "✗"
				}

				fmt.Fprintf(out, "%s [%s] %-6s %s -> %s (%d copied, %d updated, %d purged, %d failed)\n",
					status,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Mode,
					run.Source,
					run.Target,
					run.FilesCopied,
					run.FilesUpdated,
					run.FilesPurged+run.DirsPurged,
					run.Failures,
				)
				if run.FirstError != "" {
					fmt.Fprintf(out, "    %s\n", run.FirstError)
				}
			}

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d runs recorded, %d successful, %d partial\n", stats.Total, stats.Success, stats.Partial)

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of runs to show")
	cmd.Flags().StringVar(&path, "path", "", "history database (default is $HOME/.dirsync.db)")

	return cmd
}
