// Package insight turns a trained model into short natural-language commentary.
//
// Generation is optional and sits outside the numeric core: a Generator only
// reads the metrics and coefficients it is handed and never feeds anything back.
package insight

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/housepriceai/linear"
)

// Request carries everything a Generator may look at.
type Request struct {
	Target     string
	Model      *linear.Model
	Importance []linear.FeatureImportance
}

// Generator produces free-text commentary for a trained model.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f(ctx, req).
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// BuildPrompt renders the instruction sent to a text-generation service.
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I have trained a linear regression model to predict '%s'.\n\n", req.Target)
	b.WriteString("Here are the model performance metrics:\n")
	if req.Model != nil {
		fmt.Fprintf(&b, "- R-Squared (R2): %s\n", formatFloat(req.Model.R2, 4))
		fmt.Fprintf(&b, "- Root Mean Squared Error (RMSE): %s\n", formatFloat(req.Model.RMSE, 2))
	}
	b.WriteString("\nHere are the top feature coefficients (importance):\n")
	for _, f := range req.Importance {
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, formatFloat(f.Importance, 4))
	}
	b.WriteString(`
Please provide a concise, user-friendly analysis of these results.
1. Interpret the R2 score (is it good?).
2. Explain which features drive the price up or down the most based on the coefficients.
3. Give a brief recommendation on data quality or what else could be collected to improve the model.

Keep the tone professional but accessible to a non-technical user.
`)
	return b.String()
}

func formatFloat(f float64, prec int) string {
	if math.IsNaN(f) {
		return "undefined"
	}
	return fmt.Sprintf("%.*f", prec, f)
}
