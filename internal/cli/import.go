package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newImportCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a CSV or JSON file into the stored workflow data",
		Long: `Merge a CSV or JSON file into the stored workflow data.

The file goes through the same parser and merge as POST /upload-data:
records are matched on "PB C-ASIN", existing ones are updated in place and
new ones appended. Records without a key are skipped.

Examples:
  rbmctl import ./pricing-2024-06.csv
  rbmctl import ./pipeline-output.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			result, err := rt.app.Workflow.Upload(cmd.Context(), filepath.Base(path), f)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "Imported %d records from %s\n", result.RecordCount, filepath.Base(path))
			fmt.Fprintf(out, "  new:     %d\n", result.NewCount)
			fmt.Fprintf(out, "  updated: %d\n", result.UpdatedCount)
			color.New(color.FgCyan).Fprintf(out, "  total:   %d\n", result.TotalRecords)
			return nil
		},
	}
}
