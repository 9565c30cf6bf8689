package linear

import (
	"io"
	"math"

	"github.com/YuminosukeSato/housepriceai/core/model"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
	"github.com/YuminosukeSato/housepriceai/preprocessing"
)

// bundle は学習済みモデルと予測に必要な前処理情報の保存形式
// 計画行列とラベルは保存しない。
type bundle struct {
	Processed    *preprocessing.ProcessedData `json:"processed"`
	Intercept    float64                      `json:"intercept"`
	Coefficients []float64                    `json:"coefficients"`
	MSE          float64                      `json:"mse"`
	RMSE         float64                      `json:"rmse"`
	R2           *float64                     `json:"r2"` // NaN は JSON で表せないため null
}

// SaveBundle はモデルと前処理情報を JSON として w に書き出す
func SaveBundle(w io.Writer, p *preprocessing.ProcessedData, m *Model) error {
	b, err := newBundle(p, m)
	if err != nil {
		return err
	}
	return model.Write(w, ModelName, true, b)
}

// SaveBundleFile は SaveBundle のファイル版
func SaveBundleFile(filename string, p *preprocessing.ProcessedData, m *Model) error {
	b, err := newBundle(p, m)
	if err != nil {
		return err
	}
	return model.SaveFile(filename, ModelName, true, b)
}

// LoadBundle は SaveBundle で保存したモデルを読み込む
// 戻り値の ProcessedData は予測用であり、Data と Labels は空になる。
func LoadBundle(r io.Reader) (*preprocessing.ProcessedData, *Model, error) {
	var b bundle
	if err := model.Read(r, ModelName, &b); err != nil {
		return nil, nil, err
	}
	return b.restore()
}

// LoadBundleFile は LoadBundle のファイル版
func LoadBundleFile(filename string) (*preprocessing.ProcessedData, *Model, error) {
	var b bundle
	if err := model.LoadFile(filename, ModelName, &b); err != nil {
		return nil, nil, err
	}
	return b.restore()
}

func newBundle(p *preprocessing.ProcessedData, m *Model) (*bundle, error) {
	if m == nil || !m.IsFitted() {
		return nil, errors.NewNotFittedError(ModelName, "SaveBundle")
	}
	if p == nil {
		return nil, errors.NewValueError("linear.SaveBundle", "preprocessing metadata is required")
	}
	b := &bundle{
		Processed:    p,
		Intercept:    m.Intercept,
		Coefficients: m.Coefficients,
		MSE:          m.MSE,
		RMSE:         m.RMSE,
	}
	if !math.IsNaN(m.R2) {
		r2 := m.R2
		b.R2 = &r2
	}
	return b, nil
}

func (b *bundle) restore() (*preprocessing.ProcessedData, *Model, error) {
	if b.Processed == nil {
		return nil, nil, errors.NewValueError("linear.LoadBundle", "bundle has no preprocessing metadata")
	}
	if len(b.Processed.FeatureNamesAfterEncoding) != len(b.Coefficients) {
		return nil, nil, errors.NewDimensionError("linear.LoadBundle", len(b.Coefficients), len(b.Processed.FeatureNamesAfterEncoding), 1)
	}
	m := &Model{
		Intercept:    b.Intercept,
		Coefficients: b.Coefficients,
		MSE:          b.MSE,
		RMSE:         b.RMSE,
		R2:           math.NaN(),
	}
	if b.R2 != nil {
		m.R2 = *b.R2
	}
	m.SetFitted()
	return b.Processed, m, nil
}
