package errors

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NumericalInstabilityError is returned when NaN or Inf values show up in data
// that must be finite, such as regression labels or fitted coefficients.
type NumericalInstabilityError struct {
	Operation string    // where the values were observed, e.g. "labels"
	Index     int       // position of the first offending value
	Values    []float64 // offending values, capped at maxReportedValues
}

const maxReportedValues = 5

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("housepriceai: numerical instability detected in %s at index %d. Values: [%s]",
		e.Operation, e.Index, valStr)
}

// MarshalZerologObject adds the structured fields to a zerolog event.
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Int("index", e.Index).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a stack trace.
func NewNumericalInstabilityError(operation string, index int, values []float64) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Index: index, Values: values})
}

// CheckNumericalStability checks if values contain NaN or Inf
// and returns an error if numerical instability is detected.
func CheckNumericalStability(operation string, values []float64) error {
	first := -1
	var bad []float64
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if first < 0 {
				first = i
			}
			if len(bad) < maxReportedValues {
				bad = append(bad, v)
			}
		}
	}
	if first >= 0 {
		return NewNumericalInstabilityError(operation, first, bad)
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, 0, []float64{value})
	}
	return nil
}
