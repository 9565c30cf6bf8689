package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPreview(t *testing.T) {
	out, err := run(t, "preview", "--rows", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "450000")
	assert.Contains(t, out, "location_score")
	assert.Contains(t, out, "numeric")
}

func TestTrainSaveAndPredict(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "model.json")
	charts := filepath.Join(dir, "charts")

	out, err := run(t, "train", "--save", bundle, "--chart", charts, "--insights")
	require.NoError(t, err)
	assert.Contains(t, out, "R2")
	assert.Contains(t, out, "area_sqft")
	assert.Contains(t, out, "Model saved to")

	for _, name := range []string{"importance.png", "scatter.png"} {
		info, err := os.Stat(filepath.Join(charts, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	out, err = run(t, "predict", "--model", bundle,
		"--set", "area_sqft=1500", "--set", "bedrooms=3", "--set", "bathrooms=2",
		"--set", "location_score=8", "--set", "age_years=10")
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted price:")

	_, err = run(t, "predict", "--model", bundle, "--set", "garage=1")
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestTrainRejectsBadConfiguration(t *testing.T) {
	_, err := run(t, "train", "--target", "missing")
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "target", ve.ParamName)
}

func TestTrainReportsSingularFit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.csv")
	require.NoError(t, os.WriteFile(path, []byte("price,a,b\n1,1,1\n2,2,2\n3,3,3\n"), 0o600))

	_, err := run(t, "train", "--csv", path, "--features", "a,b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not train model")
}
