// Package report renders trained-model results as text tables and PNG charts.
package report

import (
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/YuminosukeSato/housepriceai/dataset"
	"github.com/YuminosukeSato/housepriceai/linear"
)

// MetricsTable renders R², RMSE, MSE and the intercept.
func MetricsTable(m *linear.Model) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})
	if m != nil {
		t.AppendRows([]table.Row{
			{"R2", formatFloat(m.R2, 4)},
			{"RMSE", formatFloat(m.RMSE, 2)},
			{"MSE", formatFloat(m.MSE, 2)},
			{"Intercept", formatFloat(m.Intercept, 4)},
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// ImportanceTable renders coefficients in the order given.
func ImportanceTable(items []linear.FeatureImportance) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Feature", "Coefficient"})
	for i, it := range items {
		t.AppendRow(table.Row{i + 1, it.Name, formatFloat(it.Importance, 4)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// PreviewTable renders the first n records of ds under its header.
func PreviewTable(ds dataset.Dataset, n int) string {
	t := table.NewWriter()
	header := make(table.Row, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, r := range ds.Head(n).Records {
		row := make(table.Row, len(ds.Columns))
		for i, c := range ds.Columns {
			row[i] = r.Get(c).String()
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{strconv.Itoa(ds.Len()) + " rows"})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func formatFloat(f float64, prec int) string {
	if math.IsNaN(f) {
		return "undefined"
	}
	return strconv.FormatFloat(f, 'f', prec, 64)
}
