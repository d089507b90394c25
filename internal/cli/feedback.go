package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ganot/rbm-dashboard/internal/domain/feedback"
)

func newFeedbackCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect reviewer feedback",
	}
	cmd.AddCommand(newFeedbackListCmd(rt))
	return cmd
}

func newFeedbackListCmd(rt *runtime) *cobra.Command {
	var asin string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submitted feedback, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := rt.app.Feedback.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list feedback: %w", err)
			}

			out := cmd.OutOrStdout()
			shown := 0
			for _, e := range entries {
				if asin != "" && e.ASIN != asin {
					continue
				}
				shown++
				kind := color.New(color.FgWhite)
				switch e.Type {
				case feedback.KindPositive:
					kind = color.New(color.FgGreen)
				case feedback.KindNegative:
					kind = color.New(color.FgRed)
				}
				fmt.Fprintf(out, "%s  %-12s ", e.SubmittedAt, e.ASIN)
				kind.Fprintf(out, "%-8s", e.Type)
				fmt.Fprintf(out, " %s\n", e.Text)
			}
			if shown == 0 {
				fmt.Fprintln(out, "No feedback.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&asin, "asin", "", "only feedback for this ASIN")
	return cmd
}
