package cmd

import (
	"github.com/spf13/cobra"

	"clar.dev/pkg/clargen/internal/controller"
	"clar.dev/pkg/clargen/internal/domain"
)

var listFormatFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List the suites the generated file would register",
		Long: `List one row per suite: every module contributes a row per initializer
variant, or a single row when it has none. The cache is read but neither the
cache nor the .suite file is written.`,
		Args: pathArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := controller.ParseFormat(listFormatFlag)
			if err != nil {
				return err
			}

			return workflow.List(cmd.Context(), domain.ListArgs{
				ScanArgs: scanArgs(args),
				Format:   format,
			})
		},
	}

	cmd.Flags().StringVar(&listFormatFlag, formatFlagName, string(controller.FormatTable), "output format: table or yaml")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
