package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTimeSavedCmd(rt *runtime) *cobra.Command {
	var add int

	cmd := &cobra.Command{
		Use:   "time-saved",
		Short: "Show or increment the time-saved counter",
		Long: `Show the time-saved counter, or record a run of N automated items.

Examples:
  rbmctl time-saved
  rbmctl time-saved --add 40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("add") {
				update, err := rt.app.TimeSaved.Record(cmd.Context(), add)
				if err != nil {
					return fmt.Errorf("record time saved: %w", err)
				}
				color.New(color.FgGreen).Fprintf(out, "Added %d minutes\n", update.AddedMinutes)
				fmt.Fprintf(out, "Total: %s over %d runs\n", formatMinutes(update.TotalMinutes), update.ExecutionCount)
				return nil
			}

			counter, err := rt.app.TimeSaved.Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("read time saved: %w", err)
			}
			fmt.Fprintf(out, "Total: %s over %d runs\n", formatMinutes(counter.TotalMinutes), counter.ExecutionCount)
			if counter.LastUpdated != "" {
				fmt.Fprintf(out, "Last updated: %s\n", counter.LastUpdated)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&add, "add", 0, "number of items processed in a run")
	return cmd
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
