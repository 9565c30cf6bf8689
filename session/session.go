// Package session drives one user's upload, configure, train and predict flow.
//
// A Session owns an immutable dataset and, after a successful Train, the
// preprocessing metadata and fitted model derived from it. A failed training
// run clears every previous result so no partial model is ever visible.
// A Session is not safe for concurrent use; create one per user or request.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/housepriceai/dataset"
	"github.com/YuminosukeSato/housepriceai/insight"
	"github.com/YuminosukeSato/housepriceai/linear"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
	"github.com/YuminosukeSato/housepriceai/pkg/log"
	"github.com/YuminosukeSato/housepriceai/preprocessing"
)

// State is the step of the flow a Session is in.
type State int

const (
	// StateUpload waits for a dataset.
	StateUpload State = iota
	// StateConfig has a dataset and waits for a target and features.
	StateConfig
	// StateTrained holds a fitted model.
	StateTrained
)

func (s State) String() string {
	switch s {
	case StateConfig:
		return "config"
	case StateTrained:
		return "trained"
	default:
		return "upload"
	}
}

// InsightFailedMessage is shown when the insight generator fails.
const InsightFailedMessage = "Failed to generate insights due to an API error."

// Session holds the state of one modelling flow.
type Session struct {
	id        string
	state     State
	ds        dataset.Dataset
	target    string
	features  []string
	generator insight.Generator
	base      log.Logger
	logger    log.Logger

	processed  *preprocessing.ProcessedData
	model      *linear.Model
	importance []linear.FeatureImportance
}

// Option configures a Session.
type Option func(*Session)

// WithGenerator sets the insight generator. Without one, insight.Static is used.
func WithGenerator(g insight.Generator) Option {
	return func(s *Session) { s.generator = g }
}

// WithLogger sets the session logger.
func WithLogger(l log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New creates a Session over ds. An empty dataset leaves the session in StateUpload.
func New(ds dataset.Dataset, opts ...Option) *Session {
	s := &Session{id: uuid.NewString()}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = insight.Static{}
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("session")
	}
	s.base = s.logger
	s.logger = s.logger.With(log.EstimatorIDKey, s.id)
	s.Load(ds)
	return s
}

// ID returns the session id used in logs.
func (s *Session) ID() string { return s.id }

// State returns the current step.
func (s *Session) State() State { return s.state }

// Dataset returns the loaded dataset.
func (s *Session) Dataset() dataset.Dataset { return s.ds }

// Target returns the configured target column.
func (s *Session) Target() string { return s.target }

// Features returns a copy of the configured feature columns.
func (s *Session) Features() []string { return append([]string(nil), s.features...) }

// Load replaces the dataset and discards any configuration and results.
func (s *Session) Load(ds dataset.Dataset) {
	s.ds = ds
	s.target = ""
	s.features = nil
	s.clearResults()
	if ds.Len() > 0 {
		s.state = StateConfig
	} else {
		s.state = StateUpload
	}
}

// Reset drops the dataset and returns to StateUpload.
func (s *Session) Reset() {
	s.Load(dataset.Dataset{})
}

// Configure selects the target and feature columns.
//
// The selection is rejected with a ValidationError when the dataset is empty,
// the target is missing or unknown, no feature is selected, a feature is
// unknown or repeated, or the target is also a feature. Previous results are
// discarded.
func (s *Session) Configure(target string, features []string) error {
	if s.ds.Len() == 0 {
		return errors.NewValidationError("dataset", "upload a dataset before configuring the model", s.ds.Len())
	}
	if target == "" {
		return errors.NewValidationError("target", "select a target column", target)
	}
	if !s.ds.HasColumn(target) {
		return errors.NewValidationError("target", "target column is not in the dataset", target)
	}
	if len(features) == 0 {
		return errors.NewValidationError("features", "select at least one feature column", features)
	}
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		if f == target {
			return errors.NewValidationError("features", "the target column cannot also be a feature", f)
		}
		if !s.ds.HasColumn(f) {
			return errors.NewValidationError("features", "feature column is not in the dataset", f)
		}
		if _, dup := seen[f]; dup {
			return errors.NewValidationError("features", "feature column selected more than once", f)
		}
		seen[f] = struct{}{}
	}

	s.target = target
	s.features = append([]string(nil), features...)
	s.clearResults()
	s.state = StateConfig
	return nil
}

// Train preprocesses the dataset and fits a model for the current selection.
// On failure all previous results are cleared and the session stays in StateConfig.
func (s *Session) Train(ctx context.Context) error {
	if s.target == "" || len(s.features) == 0 {
		return errors.NewValidationError("features", "configure a target and at least one feature before training", s.features)
	}
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	start := time.Now()
	p := preprocessing.Preprocess(s.ds, s.target, s.features)
	m, err := linear.Train(p, linear.WithLogger(s.base), linear.WithEstimatorID(s.id))
	if err != nil {
		s.clearResults()
		s.state = StateConfig
		return err
	}

	s.processed = p
	s.model = m
	s.importance = linear.Importance(p, m)
	s.state = StateTrained

	s.logger.Info("Session trained",
		log.TargetKey, s.target,
		log.FeaturesKey, len(s.features),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Model returns the fitted model, or nil before a successful Train.
func (s *Session) Model() *linear.Model { return s.model }

// Processed returns the preprocessing result of the last successful Train.
func (s *Session) Processed() *preprocessing.ProcessedData { return s.processed }

// Importance returns features ordered by absolute coefficient.
func (s *Session) Importance() []linear.FeatureImportance {
	return append([]linear.FeatureImportance(nil), s.importance...)
}

// Options returns the selectable categories of a categorical feature, or nil
// for numeric features and before training.
func (s *Session) Options(feature string) []string {
	if s.processed == nil {
		return nil
	}
	if enc, ok := s.processed.Encoders[feature]; ok && enc != nil {
		return enc.Options()
	}
	return nil
}

// Predict estimates the target for user-entered feature values.
func (s *Session) Predict(input dataset.Record) (float64, error) {
	if s.state != StateTrained {
		return 0, errors.NewNotFittedError(linear.ModelName, "Predict")
	}
	v, err := linear.Predict(input, s.processed, s.model)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("Prediction", log.OperationKey, log.OperationPredict, log.PredictionKey, v)
	return v, nil
}

// ActualVsPredicted returns up to limit (actual, predicted) pairs.
func (s *Session) ActualVsPredicted(limit int) ([]linear.Point, error) {
	if s.state != StateTrained {
		return nil, errors.NewNotFittedError(linear.ModelName, "ActualVsPredicted")
	}
	return linear.ActualVsPredicted(s.processed, s.model, limit)
}

// Insights asks the generator for commentary on the fitted model. Generator
// errors and panics are logged and replaced by InsightFailedMessage; they
// never affect the model.
func (s *Session) Insights(ctx context.Context) (string, error) {
	if s.state != StateTrained {
		return "", errors.NewNotFittedError(linear.ModelName, "Insights")
	}

	req := insight.Request{Target: s.target, Model: s.model, Importance: s.Importance()}
	var text string
	err := errors.SafeExecute("session.Insights", func() error {
		var gerr error
		text, gerr = s.generator.Generate(ctx, req)
		return gerr
	})
	if err != nil {
		s.logger.Warn("Insight generation failed", err, log.OperationKey, log.OperationInsight)
		return InsightFailedMessage, nil
	}
	return text, nil
}

func (s *Session) clearResults() {
	s.processed = nil
	s.model = nil
	s.importance = nil
}
