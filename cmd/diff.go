package cmd

import (
	"github.com/spf13/cobra"

	"clar.dev/pkg/clargen/internal/domain"
)

var diffContextFlag int

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [path]",
		Short: "Show how the .suite file would change",
		Long: `Render the .suite file in memory and print a unified diff against the file
on disk. Prints nothing when the file is up to date. Nothing is written.`,
		Args: pathArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Diff(cmd.Context(), domain.DiffArgs{
				ScanArgs: scanArgs(args),
				Context:  diffContextFlag,
			})
		},
	}

	cmd.Flags().IntVarP(&diffContextFlag, contextFlagName, "U", defaultContext, "lines of context")

	return cmd
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
