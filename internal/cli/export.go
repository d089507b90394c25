package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
	"github.com/ganot/rbm-dashboard/internal/repository"
)

func newExportCmd(rt *runtime) *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored workflow data as JSON or CSV",
		Long: `Write the stored workflow data as JSON or CSV.

CSV output starts with the "PB C-ASIN" column followed by every other field
in sorted order, and can be imported again unchanged.

Examples:
  rbmctl export > workflow-data.json
  rbmctl export --format csv --out ./backup.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("unsupported format %q (want json or csv)", format)
			}

			records, err := rt.app.Workflow.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}

			if err := writeRecords(out, format, records); err != nil {
				return err
			}
			if outPath != "" {
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func writeRecords(w io.Writer, format string, records workflow.Collection) error {
	if format == "csv" {
		if err := workflow.WriteCSV(w, records); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		return nil
	}

	data, err := repository.Encode(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
