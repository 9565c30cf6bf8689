package insight

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/housepriceai/linear"
)

// Static writes commentary locally from the metrics alone. It is used when no
// text-generation endpoint is configured, and its output is deterministic.
type Static struct{}

// Generate implements Generator.
func (Static) Generate(_ context.Context, req Request) (string, error) {
	var b strings.Builder

	if req.Model != nil {
		r2 := req.Model.R2
		switch {
		case math.IsNaN(r2):
			b.WriteString("R2 is undefined because every row has the same target value, so the model cannot explain any variation.\n")
		case r2 >= 0.8:
			fmt.Fprintf(&b, "R2 is %.4f: the features explain most of the variation in %s.\n", r2, req.Target)
		case r2 >= 0.5:
			fmt.Fprintf(&b, "R2 is %.4f: the model captures a moderate share of the variation in %s.\n", r2, req.Target)
		default:
			fmt.Fprintf(&b, "R2 is %.4f: the model explains little of the variation in %s.\n", r2, req.Target)
		}
		fmt.Fprintf(&b, "Typical prediction error (RMSE) is %.2f.\n", req.Model.RMSE)
	}

	if up, ok := strongest(req, 1); ok {
		fmt.Fprintf(&b, "The strongest upward driver is %s (%+.4f per unit).\n", up.Name, up.Importance)
	}
	if down, ok := strongest(req, -1); ok {
		fmt.Fprintf(&b, "The strongest downward driver is %s (%+.4f per unit).\n", down.Name, down.Importance)
	}

	b.WriteString("Coefficients depend on the units of each column; collecting more rows and features such as lot size or renovation year would make the estimates more reliable.")
	return b.String(), nil
}

// strongest returns the first item of req.Importance with the given sign.
// Importance is ordered by magnitude, so the first match is the largest.
func strongest(req Request, sign float64) (linear.FeatureImportance, bool) {
	for _, f := range req.Importance {
		if f.Importance*sign > 0 {
			return f, true
		}
	}
	return linear.FeatureImportance{}, false
}
