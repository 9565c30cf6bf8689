package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housepriceai/insight"
	"github.com/YuminosukeSato/housepriceai/linear"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
	"github.com/YuminosukeSato/housepriceai/report"
	"github.com/YuminosukeSato/housepriceai/session"
)

func newTrainCmd(a *app) *cobra.Command {
	var (
		csvPath  string
		target   string
		features []string
		save     string
		chartDir string
		insights bool
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit a linear model and report its metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(csvPath)
			if err != nil {
				return err
			}
			if len(features) == 0 {
				for _, c := range ds.Columns {
					if c != target {
						features = append(features, c)
					}
				}
			}

			s := session.New(ds, session.WithGenerator(a.generator()))
			if err := s.Configure(target, features); err != nil {
				return err
			}
			if err := s.Train(cmd.Context()); err != nil {
				return errors.New(errors.UserMessage(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.MetricsTable(s.Model()))
			fmt.Fprintln(out, report.ImportanceTable(s.Importance()))

			if save != "" {
				if err := linear.SaveBundleFile(save, s.Processed(), s.Model()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Model saved to %s\n", save)
			}
			if chartDir != "" {
				if err := writeCharts(chartDir, s, a.cfg.Report.ScatterLimit); err != nil {
					return err
				}
				fmt.Fprintf(out, "Charts written to %s\n", chartDir)
			}
			if insights {
				text, err := s.Insights(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file to read (defaults to the bundled sample)")
	cmd.Flags().StringVar(&target, "target", "price", "Target column")
	cmd.Flags().StringSliceVar(&features, "features", nil, "Feature columns (defaults to every other column)")
	cmd.Flags().StringVar(&save, "save", "", "Write the fitted model bundle to this file")
	cmd.Flags().StringVar(&chartDir, "chart", "", "Write importance.png and scatter.png into this directory")
	cmd.Flags().BoolVar(&insights, "insights", false, "Print commentary on the fitted model")
	return cmd
}

func (a *app) generator() insight.Generator {
	if a.cfg.Insight.Endpoint == "" {
		return insight.Static{}
	}
	return insight.NewHTTPGenerator(a.cfg.Insight.Endpoint, a.cfg.Insight.Model, a.cfg.Insight.Timeout)
}

func writeCharts(dir string, s *session.Session, limit int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}
	points, err := s.ActualVsPredicted(limit)
	if err != nil {
		return err
	}
	if err := report.SaveFile(filepath.Join(dir, "importance.png"), func(w io.Writer) error {
		return report.ImportanceChart(w, s.Importance())
	}); err != nil {
		return err
	}
	return report.SaveFile(filepath.Join(dir, "scatter.png"), func(w io.Writer) error {
		return report.ScatterChart(w, points)
	})
}
