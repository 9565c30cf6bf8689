package linear

import (
	"github.com/YuminosukeSato/housepriceai/pkg/log"
)

// Option は Train の動作を設定する
type Option func(*config)

type config struct {
	logger      log.Logger
	estimatorID string
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("linear")
	}
	cfg.logger = cfg.logger.With(log.ModelNameKey, ModelName)
	if cfg.estimatorID != "" {
		cfg.logger = cfg.logger.With(log.EstimatorIDKey, cfg.estimatorID)
	}
	return cfg
}

// WithLogger sets the logger used for training logs
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithEstimatorID tags training logs with a session identifier
func WithEstimatorID(id string) Option {
	return func(c *config) {
		c.estimatorID = id
	}
}
