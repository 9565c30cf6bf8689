// Package log defines standard attribute keys for regression operations.
//
// Using these keys consistently lets log pipelines filter training runs,
// predictions and preprocessing decisions without parsing messages.
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples").

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model. Example: "OLS"
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies a specific training session.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "preprocess", "fit", "predict", "insight"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "linear", "preprocessing", "session"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of rows used.
	SamplesKey = "data.samples"

	// DroppedRowsKey indicates the number of rows removed by the target filter.
	DroppedRowsKey = "data.dropped_rows"

	// FeaturesKey indicates the number of original feature columns.
	FeaturesKey = "data.features"

	// EncodedFeaturesKey indicates the design-matrix width after one-hot encoding.
	EncodedFeaturesKey = "data.encoded_features"

	// TargetKey names the target column.
	TargetKey = "data.target"

	// ColumnKey names a single column.
	ColumnKey = "data.column"

	// ColumnRoleKey records the inferred role of a column ("numeric" or "categorical").
	ColumnRoleKey = "data.column_role"

	// CategoriesKey records the number of categories observed for a column.
	CategoriesKey = "data.categories"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records R² for regression. Range (-∞, 1.0].
	R2ScoreKey = "metrics.r2_score"

	// MSEKey records the in-sample mean squared error.
	MSEKey = "metrics.mse"

	// RMSEKey records the in-sample root mean squared error.
	RMSEKey = "metrics.rmse"
)

// Prediction Context
const (
	// PredictionKey records a single predicted value.
	PredictionKey = "preds.value"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationPreprocess = "preprocess"
	OperationFit        = "fit"
	OperationPredict    = "predict"
	OperationInsight    = "insight"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
	ErrorInvalidConfig     = "INVALID_CONFIG"
	ErrorTrainingFailed    = "TRAINING_FAILED"
)
