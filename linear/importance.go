package linear

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/housepriceai/pkg/errors"
	"github.com/YuminosukeSato/housepriceai/preprocessing"
)

// FeatureImportance は符号化後の特徴量名と係数の組
type FeatureImportance struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

// Importance は係数の絶対値の降順に並べた特徴量の重要度を返す
// 絶対値が等しい場合は元の順序を保つ。
func Importance(p *preprocessing.ProcessedData, m *Model) []FeatureImportance {
	if p == nil || m == nil {
		return nil
	}
	n := len(m.Coefficients)
	if len(p.FeatureNamesAfterEncoding) < n {
		n = len(p.FeatureNamesAfterEncoding)
	}
	out := make([]FeatureImportance, n)
	for i := 0; i < n; i++ {
		out[i] = FeatureImportance{Name: p.FeatureNamesAfterEncoding[i], Importance: m.Coefficients[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Importance) > math.Abs(out[j].Importance)
	})
	return out
}

// Point は実測値と予測値の組
type Point struct {
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// ActualVsPredicted は先頭 limit 行の実測値と予測値を返す
// limit が 0 以下の場合は全行を返す。
func ActualVsPredicted(p *preprocessing.ProcessedData, m *Model, limit int) ([]Point, error) {
	if m == nil || !m.IsFitted() {
		return nil, errors.NewNotFittedError(ModelName, "ActualVsPredicted")
	}
	if p == nil {
		return nil, errors.NewValueError("linear.ActualVsPredicted", "preprocessing metadata is required")
	}
	n := p.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		row := p.Data[i]
		if len(row) != len(m.Coefficients) {
			return nil, errors.NewDimensionError("linear.ActualVsPredicted", len(m.Coefficients), len(row), 1)
		}
		out[i] = Point{Actual: p.Labels[i], Predicted: m.predictRow(row)}
	}
	return out, nil
}
