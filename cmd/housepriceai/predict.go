package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housepriceai/dataset"
	"github.com/YuminosukeSato/housepriceai/linear"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

func newPredictCmd(a *app) *cobra.Command {
	var (
		modelPath string
		sets      []string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a price with a saved model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, m, err := linear.LoadBundleFile(modelPath)
			if err != nil {
				return err
			}

			known := make(map[string]bool, len(p.Features))
			for _, f := range p.Features {
				known[f] = true
			}
			input := make(dataset.Record, len(sets))
			for _, kv := range sets {
				col, raw, ok := strings.Cut(kv, "=")
				if !ok {
					return errors.NewValidationError("set", "expected column=value", kv)
				}
				if !known[col] {
					return errors.NewValidationError("set", "not a feature of the model", col)
				}
				input[col] = dataset.Parse(raw)
			}

			y, err := linear.Predict(input, p, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Predicted %s: %.2f\n", p.Target, y)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "Model bundle written by train --save")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Feature value as column=value, repeatable")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}
