package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

// TestLoggerInterface tests the TestLogger implementation of Logger
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", ColumnKey, "bedrooms")
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorCodeKey, ErrorSingularMatrix)

	if buffer.String() == "" {
		t.Fatal("Expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "test error") {
		t.Error("Expected leading error to be logged under the error key")
	}
}

// TestLoggerWith tests the With method for context-aware logging
func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "OLS",
		ComponentKey, "linear",
		EstimatorIDKey, "session-001",
	)
	contextLogger.Info("contextual message", OperationKey, OperationFit)

	if !testLogger.ContainsField(ModelNameKey, "OLS") {
		t.Error("Model name context not found")
	}
	if !testLogger.ContainsField(EstimatorIDKey, "session-001") {
		t.Error("Estimator id context not found")
	}
	if !testLogger.ContainsField(OperationKey, OperationFit) {
		t.Error("Operation field not found")
	}
}

func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !testLogger.Enabled(ctx, LevelInfo) {
		t.Error("Logger should be enabled for Info level")
	}
	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsMessage("this should appear") {
		t.Error("Info message should appear when level is Info")
	}
}

// TestTrainingAttributes checks the fields a training run is expected to log
func TestTrainingAttributes(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	testLogger.Info("Training completed",
		OperationKey, OperationFit,
		PhaseKey, PhaseTraining,
		SamplesKey, 15,
		EncodedFeaturesKey, 5,
		R2ScoreKey, 0.97,
		DurationMsKey, 2,
	)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}

	expected := map[string]interface{}{
		OperationKey:       OperationFit,
		PhaseKey:           PhaseTraining,
		SamplesKey:         15.0,
		EncodedFeaturesKey: 5.0,
		R2ScoreKey:         0.97,
		DurationMsKey:      2.0,
	}
	for key, want := range expected {
		if got, ok := entries[0][key]; !ok {
			t.Errorf("Expected field %s not found", key)
		} else if got != want {
			t.Errorf("Field %s: expected %v, got %v", key, want, got)
		}
	}
}

func TestLoggerProviderIntegration(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)

	provider.GetLogger().Info("provider test message")
	provider.GetLoggerWithName("preprocessing").Info("named logger message")

	out := buffer.String()
	for _, want := range []string{"provider test message", "named logger message", "preprocessing"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q not found in output", want)
		}
	}
}

func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	const goroutines, perGoroutine = 4, 5
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				testLogger.Info("message", "goroutine_id", id, "message_id", j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != goroutines*perGoroutine {
		t.Errorf("Expected %d log entries, got %d", goroutines*perGoroutine, len(entries))
	}
}

func TestSetupLoggerTo(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	var buf bytes.Buffer
	if err := SetupLoggerTo(&buf, "debug"); err != nil {
		t.Fatalf("SetupLoggerTo() error = %v", err)
	}

	err := errors.NewSingularMatrixError("matrix.Inverse", 2, 0, 1e-10)
	GetLogger().Error("training failed", err, TargetKey, "price")

	var entry map[string]interface{}
	if jerr := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); jerr != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), jerr)
	}
	if entry["message"] != "training failed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry[ErrorCodeKey] != ErrorSingularMatrix {
		t.Errorf("%s = %v, want %s", ErrorCodeKey, entry[ErrorCodeKey], ErrorSingularMatrix)
	}
	if _, ok := entry[StacktraceAttrKey]; !ok {
		t.Error("expected stacktrace attribute for cockroachdb error")
	}

	if err := SetupLoggerTo(&buf, "verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestErrFmtHandlerSingleErrorCode(t *testing.T) {
	tests := []struct {
		name   string
		fields []any
		want   string
	}{
		{"derived from error", nil, ErrorSingularMatrix},
		{"explicit code wins", []any{ErrorCodeKey, ErrorTrainingFailed}, ErrorTrainingFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewSlogLogger(slog.New(WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))))

			err := errors.NewTrainingFailedError("linear.Train", errors.NewSingularMatrixError("matrix.Inverse", 1, 0, 1e-10))
			logger.Error("training failed", append([]any{err}, tt.fields...)...)

			out := buf.String()
			if n := strings.Count(out, `"`+ErrorCodeKey+`"`); n != 1 {
				t.Fatalf("expected one %s key, got %d in %s", ErrorCodeKey, n, out)
			}
			var entry map[string]interface{}
			if jerr := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); jerr != nil {
				t.Fatal(jerr)
			}
			if entry[ErrorCodeKey] != tt.want {
				t.Errorf("%s = %v, want %s", ErrorCodeKey, entry[ErrorCodeKey], tt.want)
			}
		})
	}
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo).With(ModelNameKey, "OLS")

	logger.Debug("hidden")
	logger.Info("trained", SamplesKey, 15)
	logger.Error("failed", errors.NewNotSquareError("matrix.Inverse", 2, 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}

	var info map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &info); err != nil {
		t.Fatal(err)
	}
	if info[ModelNameKey] != "OLS" || info[SamplesKey] != 15.0 {
		t.Errorf("unexpected info entry: %v", info)
	}

	var failed map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &failed); err != nil {
		t.Fatal(err)
	}
	detail, ok := failed["error_detail"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error_detail object, got %v", failed)
	}
	if detail["type"] != "NotSquareError" {
		t.Errorf("error_detail.type = %v", detail["type"])
	}

	if !logger.Enabled(context.Background(), LevelWarn) || logger.Enabled(context.Background(), LevelDebug) {
		t.Error("unexpected Enabled result")
	}
}

func TestInstallWarningBridge(t *testing.T) {
	var buf bytes.Buffer
	InstallWarningBridge(NewZerologLogger(&buf, LevelDebug))
	defer errors.SetZerologWarnFunc(nil)

	errors.Warn(errors.NewDataConversionWarning("bedrooms", "string", "float64", 1, "imputed 0"))

	if !strings.Contains(buf.String(), `"type":"DataConversionWarning"`) {
		t.Errorf("expected structured warning, got %s", buf.String())
	}
}

func BenchmarkLoggingWithContext(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelInfo)
	contextLogger := testLogger.With(ModelNameKey, "OLS", ComponentKey, "benchmark")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		contextLogger.Info("benchmark message", OperationKey, OperationPredict, SamplesKey, 1000)
	}
}
