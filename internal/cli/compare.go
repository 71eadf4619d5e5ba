package cli

import (
	"github.com/spf13/cobra"

	"github.com/sdejongh/dirsync/pkg/models"
)

// NewDiffCommand creates the diff command
func NewDiffCommand() *cobra.Command {
	cmd := newModeCommand(models.ModeDiff, "diff <source> <target>",
		"Report the difference between source and target",
		`Compare source and target and list the entries found only in the source,
only in the target, and in both. No file operation is performed.`)
	cmd.Aliases = []string{"compare"}
	return cmd
}
