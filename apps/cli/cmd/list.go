package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered tests",
	Long: `List every test in the compiled-in suite with its number and
declared mode.

Examples:
  crucible list`,
	Run: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) {
	suite := builtinTests()
	for i := range suite {
		d := &suite[i]
		fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-5s  %s\n", i+1, d.Mode, d.Msg)
		if d.Predicate != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "            runs as %s when %s\n",
				d.Predicate.AlternateMode, d.Predicate.Description)
		}
		if d.WIP != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "            work in progress: %s\n", d.WIP)
		}
	}
}
