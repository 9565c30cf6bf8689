package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housepriceai/dataset"
	"github.com/YuminosukeSato/housepriceai/preprocessing"
	"github.com/YuminosukeSato/housepriceai/report"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		csvPath string
		rows    int
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the first rows and inferred column roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(csvPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rows") {
				rows = a.cfg.Report.PreviewRows
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.PreviewTable(ds, rows))
			for _, col := range ds.Columns {
				fmt.Fprintf(out, "%-20s %s\n", col, preprocessing.InferRole(columnValues(ds, col)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file to read (defaults to the bundled sample)")
	cmd.Flags().IntVar(&rows, "rows", 5, "Number of rows to show")
	return cmd
}

func columnValues(ds dataset.Dataset, col string) []dataset.Value {
	values := make([]dataset.Value, len(ds.Records))
	for i, r := range ds.Records {
		values[i] = r.Get(col)
	}
	return values
}
