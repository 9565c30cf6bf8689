// Package config loads CLI settings from defaults, an optional YAML file,
// a .env file and HOUSEPRICEAI_* environment variables, in increasing
// order of precedence.
package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "HOUSEPRICEAI"

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Insight InsightConfig `mapstructure:"insight"`
	Report  ReportConfig  `mapstructure:"report"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InsightConfig selects the commentary backend. An empty Endpoint means the
// local static generator.
type InsightConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ReportConfig struct {
	PreviewRows  int `mapstructure:"preview_rows"`
	ScatterLimit int `mapstructure:"scatter_limit"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info", Format: "console"},
		Insight: InsightConfig{Model: "llama3", Timeout: 30 * time.Second},
		Report:  ReportConfig{PreviewRows: 5, ScatterLimit: 100},
	}
}

// Load reads path (skipped when empty) on top of the defaults and then
// applies the environment. dotenv names an optional .env file; a missing
// file is not an error.
func Load(path, dotenv string) (*Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "failed to load %s", dotenv)
		}
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the CLI cannot act on.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.NewValidationError("log.format", "must be json or console", c.Log.Format)
	}
	if c.Insight.Timeout <= 0 {
		return errors.NewValidationError("insight.timeout", "must be positive", c.Insight.Timeout)
	}
	if c.Report.PreviewRows < 0 {
		return errors.NewValidationError("report.preview_rows", "must not be negative", c.Report.PreviewRows)
	}
	if c.Report.ScatterLimit < 0 {
		return errors.NewValidationError("report.scatter_limit", "must not be negative", c.Report.ScatterLimit)
	}
	return nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("insight.endpoint", d.Insight.Endpoint)
	v.SetDefault("insight.model", d.Insight.Model)
	v.SetDefault("insight.timeout", d.Insight.Timeout)
	v.SetDefault("report.preview_rows", d.Report.PreviewRows)
	v.SetDefault("report.scatter_limit", d.Report.ScatterLimit)
}
