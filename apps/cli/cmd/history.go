package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucible-dev/crucible/packages/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded run history",
	Long: `Show past runs recorded with --history-db, or the per-verdict
breakdown of a single test across runs.

Examples:
  crucible history --db runs.db
  crucible history --db runs.db --limit 5
  crucible history --db runs.db --test sample-tree`,
	RunE: historyCommand,
}

var (
	historyDBPathFlag string
	historyLimitFlag  int
	historyTestFlag   string
)

func init() {
	historyCmd.Flags().StringVar(&historyDBPathFlag, "db", getEnvString("CRUCIBLE_HISTORY_DB", ""), "Path to the history database (env: CRUCIBLE_HISTORY_DB)")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 10, "How many runs to show")
	historyCmd.Flags().StringVar(&historyTestFlag, "test", "", "Show the verdict breakdown for this test name")
	_ = historyCmd.MarkFlagRequired("db")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	store, err := history.Open(historyDBPathFlag)
	if err != nil {
		return err
	}
	defer store.Close()

	if historyTestFlag != "" {
		counts, err := store.TestHistory(historyTestFlag)
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no recorded results for %q\n", historyTestFlag)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", historyTestFlag)
		for _, vc := range counts {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-6s %d\n", vc.Verdict, vc.Count)
		}
		return nil
	}

	runs, err := store.RecentRuns(historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(cmd.OutOrStdout(),
			"#%-4d %s  %s  passed=%d failed=%d xfail=%d xpass=%d skipped=%d  %dms\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.ProgName,
			r.Passed, r.Failed, r.XFailed, r.XPassed, r.Skipped, r.DurationMs)
	}
	return nil
}
