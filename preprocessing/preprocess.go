// Package preprocessing は生のレコードを回帰用の計画行列に変換する。
//
// 列の役割推定、カテゴリ列のワンホット符号化（基準カテゴリを一つ落とす）、
// 数値列の 0 補完を行う。変換は失敗せず、不正な値は 0 や "Unknown" に退化する。
package preprocessing

import (
	"math"

	"github.com/YuminosukeSato/housepriceai/dataset"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
	"github.com/YuminosukeSato/housepriceai/pkg/log"
)

// ProcessedData は前処理の結果
//
// Data と Labels は学習時にのみ必要なため永続化しない。
// Features と Encoders があれば予測時に同じ符号化を再現できる。
type ProcessedData struct {
	Features                  []string              `json:"features"`
	Target                    string                `json:"target"`
	Roles                     map[string]ColumnRole `json:"roles"`
	Encoders                  map[string]*Encoder   `json:"encoders"`
	FeatureNamesAfterEncoding []string              `json:"feature_names_after_encoding"`

	Data   [][]float64 `json:"-"`
	Labels []float64   `json:"-"`
}

// Preprocess はデータセットを目的変数と特徴量の選択に従って変換する
//
// 目的変数が欠損または空の行は除外する。特徴量の順序は呼び出し側の指定に従う。
// 目的変数が数値として解釈できない行のラベルは NaN になる。
func Preprocess(ds dataset.Dataset, target string, features []string) *ProcessedData {
	logger := log.GetLoggerWithName("preprocessing")

	valid := make([]dataset.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		if !r.Get(target).IsEmpty() {
			valid = append(valid, r)
		}
	}

	p := &ProcessedData{
		Features: append([]string(nil), features...),
		Target:   target,
		Roles:    make(map[string]ColumnRole, len(features)),
		Encoders: make(map[string]*Encoder),
	}

	for _, col := range features {
		values := make([]dataset.Value, len(valid))
		for i, r := range valid {
			values[i] = r.Get(col)
		}

		role := InferRole(values)
		p.Roles[col] = role
		if role == Categorical {
			enc := NewEncoder(col, values)
			p.Encoders[col] = enc
			p.FeatureNamesAfterEncoding = append(p.FeatureNamesAfterEncoding, enc.Names()...)
			logger.Debug("Column role inferred",
				log.ColumnKey, col,
				log.ColumnRoleKey, string(role),
				log.CategoriesKey, len(enc.Categories),
			)
			continue
		}

		p.FeatureNamesAfterEncoding = append(p.FeatureNamesAfterEncoding, col)
		logger.Debug("Column role inferred", log.ColumnKey, col, log.ColumnRoleKey, string(role))
		warnImputed(col, values)
	}

	p.Data = make([][]float64, len(valid))
	p.Labels = make([]float64, len(valid))
	for i, r := range valid {
		p.Data[i] = p.EncodeRecord(r)
		if y, ok := r.Get(target).Float(); ok {
			p.Labels[i] = y
		} else {
			p.Labels[i] = math.NaN()
		}
	}

	logger.Info("Preprocessing completed",
		log.OperationKey, log.OperationPreprocess,
		log.TargetKey, target,
		log.SamplesKey, len(valid),
		log.DroppedRowsKey, len(ds.Records)-len(valid),
		log.FeaturesKey, len(features),
		log.EncodedFeaturesKey, len(p.FeatureNamesAfterEncoding),
	)
	return p
}

// EncodeRecord はレコードを学習時と同じ順序・幅の数値ベクトルに変換する
//
// カテゴリ列は Encoder で符号化し、数値列は解釈できない値や欠損を 0 とする。
func (p *ProcessedData) EncodeRecord(r dataset.Record) []float64 {
	row := make([]float64, 0, len(p.FeatureNamesAfterEncoding))
	for _, col := range p.Features {
		v := r.Get(col)
		if enc, ok := p.Encoders[col]; ok && enc != nil {
			row = append(row, enc.Encode(v)...)
			continue
		}
		f, _ := v.Float()
		row = append(row, f)
	}
	return row
}

// Len は学習に使う行数を返す
func (p *ProcessedData) Len() int {
	return len(p.Data)
}

// Validate は形状の不変条件を確認する
func (p *ProcessedData) Validate() error {
	if len(p.Data) != len(p.Labels) {
		return errors.NewDimensionError("ProcessedData.Validate", len(p.Data), len(p.Labels), 0)
	}
	width := 0
	for _, col := range p.Features {
		if enc, ok := p.Encoders[col]; ok && enc != nil {
			width += enc.Width()
		} else {
			width++
		}
	}
	if width != len(p.FeatureNamesAfterEncoding) {
		return errors.NewDimensionError("ProcessedData.Validate", len(p.FeatureNamesAfterEncoding), width, 1)
	}
	for _, row := range p.Data {
		if len(row) != width {
			return errors.NewDimensionError("ProcessedData.Validate", width, len(row), 1)
		}
	}
	return nil
}

// warnImputed は数値列に数値でない値が含まれていた場合に警告を出す
func warnImputed(col string, values []dataset.Value) {
	count := 0
	for _, v := range values {
		if v.IsEmpty() {
			continue
		}
		if _, ok := v.Float(); !ok {
			count++
		}
	}
	if count > 0 {
		errors.Warn(errors.NewDataConversionWarning(col, "string", "float64", count, "non-numeric values imputed as 0"))
	}
}
