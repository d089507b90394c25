package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise pricing recommendations and spec positioning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := rt.app.Workflow.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("compute stats: %w", err)
			}

			out := cmd.OutOrStdout()
			color.New(color.FgCyan, color.Bold).Fprintf(out, "Records: %d\n", stats.TotalRecords)
			fmt.Fprintf(out, "  price match:    %d\n", stats.PriceMatch)
			fmt.Fprintf(out, "  revert to base: %d\n", stats.RevertToBase)
			fmt.Fprintf(out, "  comparable:     %d\n", stats.Comparable)
			fmt.Fprintf(out, "  under spec:     %d\n", stats.UnderSpec)
			fmt.Fprintf(out, "  over spec:      %d\n", stats.OverSpec)
			return nil
		},
	}
}
