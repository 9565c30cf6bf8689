package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housepriceai/dataset"
	"github.com/YuminosukeSato/housepriceai/internal/config"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
	"github.com/YuminosukeSato/housepriceai/pkg/log"
)

type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "housepriceai",
		Short:         "House price regression from CSV data",
		Long:          `Train an ordinary least squares model on tabular house data, inspect its coefficients and predict prices.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newPreviewCmd(a), newTrainCmd(a), newPredictCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, ".env")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	switch cfg.Log.Format {
	case "json":
		if err := log.SetupLoggerTo(cmd.ErrOrStderr(), cfg.Log.Level); err != nil {
			return err
		}
	default:
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		log.SetLogger(log.NewConsoleLogger(level))
	}
	log.InstallWarningBridge(log.GetLogger())
	return nil
}

// loadDataset reads path, or returns the bundled sample when path is empty.
func loadDataset(path string) (dataset.Dataset, error) {
	if path == "" {
		return dataset.Sample(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return dataset.Dataset{}, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return dataset.ReadCSV(f)
}
