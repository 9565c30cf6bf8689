package session_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/housepriceai/dataset"
	"github.com/YuminosukeSato/housepriceai/insight"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
	"github.com/YuminosukeSato/housepriceai/pkg/log"
	"github.com/YuminosukeSato/housepriceai/session"
)

var sampleFeatures = []string{"area_sqft", "bedrooms", "bathrooms", "location_score", "age_years"}

func newSession(t *testing.T, ds dataset.Dataset, opts ...session.Option) (*session.Session, *log.TestLogger) {
	t.Helper()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	opts = append([]session.Option{session.WithLogger(logger)}, opts...)
	return session.New(ds, opts...), logger
}

func TestLifecycle(t *testing.T) {
	s, _ := newSession(t, dataset.Sample())
	assert.Equal(t, session.StateConfig, s.State())
	assert.NotEmpty(t, s.ID())

	require.NoError(t, s.Configure("price", sampleFeatures))
	require.NoError(t, s.Train(context.Background()))
	assert.Equal(t, session.StateTrained, s.State())

	m := s.Model()
	require.NotNil(t, m)
	assert.Len(t, m.Coefficients, 5)
	assert.Greater(t, m.R2, 0.8)

	imp := s.Importance()
	require.Len(t, imp, 5)
	for i := 1; i < len(imp); i++ {
		assert.GreaterOrEqual(t, abs(imp[i-1].Importance), abs(imp[i].Importance))
	}

	v, err := s.Predict(dataset.Record{
		"area_sqft":      dataset.NumberValue(1500),
		"bedrooms":       dataset.NumberValue(3),
		"bathrooms":      dataset.NumberValue(2),
		"location_score": dataset.NumberValue(8),
		"age_years":      dataset.NumberValue(10),
	})
	require.NoError(t, err)
	assert.InDelta(t, 450000, v, 100000)

	pts, err := s.ActualVsPredicted(100)
	require.NoError(t, err)
	assert.Len(t, pts, 15)

	s.Reset()
	assert.Equal(t, session.StateUpload, s.State())
	assert.Nil(t, s.Model())
	_, err = s.Predict(dataset.Record{})
	assert.Error(t, err)
}

func TestConfigureValidation(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		features []string
		param    string
	}{
		{"no target", "", sampleFeatures, "target"},
		{"unknown target", "rent", sampleFeatures, "target"},
		{"no features", "price", nil, "features"},
		{"empty feature list", "price", []string{}, "features"},
		{"unknown feature", "price", []string{"garage"}, "features"},
		{"target as feature", "price", []string{"price", "bedrooms"}, "features"},
		{"duplicate feature", "price", []string{"bedrooms", "bedrooms"}, "features"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSession(t, dataset.Sample())
			err := s.Configure(tt.target, tt.features)

			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.param, ve.ParamName)
			assert.NotEmpty(t, errors.UserMessage(err))
		})
	}

	s, _ := newSession(t, dataset.Dataset{})
	assert.Equal(t, session.StateUpload, s.State())
	assert.Error(t, s.Configure("price", sampleFeatures))
}

// 特徴量が選択されていない場合は学習処理に到達する前に拒否される
func TestEmptyFeaturesRejectedBeforeTraining(t *testing.T) {
	s, logger := newSession(t, dataset.Sample())

	err := s.Configure("price", nil)
	require.Error(t, err)

	err = s.Train(context.Background())
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.False(t, logger.ContainsMessage("Training started"), "trainer must not run")
	assert.False(t, errors.As(err, new(*errors.TrainingFailedError)))
}

func TestTrainFailureClearsResults(t *testing.T) {
	ds, err := dataset.ReadCSV(strings.NewReader("price,zone,area\n10,a,1\n20,b,2\n35,c,3\n"))
	require.NoError(t, err)

	s, _ := newSession(t, ds)
	require.NoError(t, s.Configure("price", []string{"area"}))
	require.NoError(t, s.Train(context.Background()))
	require.NotNil(t, s.Model())

	require.NoError(t, s.Configure("price", []string{"zone", "area"}))
	err = s.Train(context.Background())
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
	assert.Equal(t, errors.TrainingMessage, errors.UserMessage(err))
	assert.Equal(t, session.StateConfig, s.State())
	assert.Nil(t, s.Model())
	assert.Nil(t, s.Processed())
	assert.Empty(t, s.Importance())

	_, err = s.Predict(dataset.Record{})
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestTrainHonoursCancelledContext(t *testing.T) {
	s, _ := newSession(t, dataset.Sample())
	require.NoError(t, s.Configure("price", sampleFeatures))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Train(ctx), context.Canceled)
	assert.Nil(t, s.Model())
}

func TestOptions(t *testing.T) {
	ds, err := dataset.ReadCSV(strings.NewReader("price,location,area\n100,Suburb,10\n120,Downtown,12\n90,Rural,9\n150,Downtown,20\n"))
	require.NoError(t, err)

	s, _ := newSession(t, ds)
	assert.Nil(t, s.Options("location"))

	require.NoError(t, s.Configure("price", []string{"location", "area"}))
	require.NoError(t, s.Train(context.Background()))

	assert.Equal(t, []string{"Downtown", "Rural", "Suburb"}, s.Options("location"))
	assert.Nil(t, s.Options("area"))
}

func TestInsights(t *testing.T) {
	s, _ := newSession(t, dataset.Sample())
	_, err := s.Insights(context.Background())
	assert.Error(t, err, "insights need a trained model")

	require.NoError(t, s.Configure("price", sampleFeatures))
	require.NoError(t, s.Train(context.Background()))

	text, err := s.Insights(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "R2 is")
}

func TestInsightsGeneratorFailure(t *testing.T) {
	tests := []struct {
		name string
		gen  insight.GeneratorFunc
	}{
		{"error", func(context.Context, insight.Request) (string, error) {
			return "", errors.New("service unavailable")
		}},
		{"panic", func(context.Context, insight.Request) (string, error) {
			panic("boom")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, logger := newSession(t, dataset.Sample(), session.WithGenerator(tt.gen))
			require.NoError(t, s.Configure("price", sampleFeatures))
			require.NoError(t, s.Train(context.Background()))
			before := *s.Model()

			text, err := s.Insights(context.Background())
			require.NoError(t, err)
			assert.Equal(t, session.InsightFailedMessage, text)
			assert.True(t, logger.ContainsMessage("Insight generation failed"))

			assert.Equal(t, before.Coefficients, s.Model().Coefficients)
		})
	}
}

func TestWithID(t *testing.T) {
	s, logger := newSession(t, dataset.Sample(), session.WithID("fixed-id"))
	require.NoError(t, s.Configure("price", sampleFeatures))
	require.NoError(t, s.Train(context.Background()))

	assert.Equal(t, "fixed-id", s.ID())
	assert.True(t, logger.ContainsField(log.EstimatorIDKey, "fixed-id"))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
