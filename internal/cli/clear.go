package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newClearCmd(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored workflow data",
		Long: `Replace the stored workflow data with an empty collection.

The time-saved counter and feedback are left alone. Requires --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear workflow data without --yes")
			}
			if err := rt.app.Workflow.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear workflow data: %w", err)
			}
			color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "All workflow data cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
