// Package linear は正規方程式による最小二乗線形回帰の学習と予測を提供する。
package linear

import (
	"math"
	"time"

	"github.com/YuminosukeSato/housepriceai/core/matrix"
	"github.com/YuminosukeSato/housepriceai/core/model"
	"github.com/YuminosukeSato/housepriceai/dataset"
	"github.com/YuminosukeSato/housepriceai/metrics"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
	"github.com/YuminosukeSato/housepriceai/pkg/log"
	"github.com/YuminosukeSato/housepriceai/preprocessing"
)

// ModelName はログと保存形式で使うモデル名
const ModelName = "OLS"

// InvalidLabelMessage は目的変数に数値でない値が含まれていた場合のメッセージ
const InvalidLabelMessage = "Could not train model. The target column contains values that are not numbers."

// EmptyDataMessage は学習に使える行がない場合のメッセージ
const EmptyDataMessage = "Could not train model. No rows have a value for the target column."

// Model は学習済みの線形回帰モデルと学習データ上の評価指標
//
// Coefficients の順序は ProcessedData.FeatureNamesAfterEncoding と一致する。
// 再学習時は新しい Model で丸ごと置き換える。
type Model struct {
	model.BaseEstimator

	Intercept    float64
	Coefficients []float64
	MSE          float64
	RMSE         float64
	R2           float64 // 目的変数が全て同じ値の場合は NaN
}

// Train は正規方程式 θ = (XᵀX)⁻¹Xᵀy でモデルを学習する
//
// 行列演算の失敗は一度だけ捕捉し、失敗の種類を保持した TrainingFailedError として返す。
// 行数が符号化後の特徴量数より少ない場合も特異行列として検出される。
func Train(p *preprocessing.ProcessedData, opts ...Option) (*Model, error) {
	const op = "linear.Train"
	cfg := newConfig(opts)
	logger := cfg.logger
	start := time.Now()

	if p == nil || p.Len() == 0 {
		err := errors.NewTrainingFailedErrorKind(op, errors.KindEmptyData, EmptyDataMessage, errors.ErrEmptyData)
		logger.Error("Training failed", err, log.ErrorCodeKey, log.ErrorCode(err))
		return nil, err
	}
	if err := p.Validate(); err != nil {
		err = errors.NewTrainingFailedError(op, err)
		logger.Error("Training failed", err, log.ErrorCodeKey, log.ErrorCode(err))
		return nil, err
	}
	if err := errors.CheckNumericalStability("labels", p.Labels); err != nil {
		err = errors.NewTrainingFailedErrorKind(op, errors.KindInvalidLabel, InvalidLabelMessage, err)
		logger.Error("Training failed", err, log.ErrorCodeKey, log.ErrorCode(err))
		return nil, err
	}

	logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.TargetKey, p.Target,
		log.SamplesKey, p.Len(),
		log.EncodedFeaturesKey, len(p.FeatureNamesAfterEncoding),
	)

	// 切片項のために X に 1 の列を追加
	xb := withBias(p.Data)

	theta, err := solveNormalEquation(xb, p.Labels)
	if err != nil {
		err = errors.NewTrainingFailedError(op, err)
		logger.Error("Training failed", err, log.ErrorCodeKey, log.ErrorCode(err))
		return nil, err
	}

	yPred, err := matrix.MultiplyVector(xb, theta)
	if err != nil {
		return nil, errors.NewTrainingFailedError(op, err)
	}
	summary, err := metrics.Evaluate(p.Labels, yPred)
	if err != nil {
		return nil, errors.NewTrainingFailedError(op, err)
	}

	m := &Model{
		Intercept:    theta[0],
		Coefficients: append([]float64(nil), theta[1:]...),
		MSE:          summary.MSE,
		RMSE:         summary.RMSE,
		R2:           summary.R2,
	}
	m.SetFitted()

	logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, p.Len(),
		log.R2ScoreKey, loggableFloat(m.R2),
		log.RMSEKey, m.RMSE,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

// Predict は 1 件の入力レコードに対する予測値を返す
//
// 入力は学習時と同じ Encoder で符号化する。未知のカテゴリや欠損は全て 0 の指示ベクトル、
// 数値として解釈できない値は 0 になり、入力の誤りはエラーにならない。
// モデルが未学習の場合は NotFittedError、符号化後の幅と係数の数が合わない場合は DimensionError を返す。
func Predict(input dataset.Record, p *preprocessing.ProcessedData, m *Model) (float64, error) {
	if m == nil || !m.IsFitted() {
		return 0, errors.NewNotFittedError(ModelName, "Predict")
	}
	if p == nil {
		return 0, errors.NewValueError("linear.Predict", "preprocessing metadata is required")
	}

	x := p.EncodeRecord(input)
	if len(x) != len(m.Coefficients) {
		return 0, errors.NewDimensionError("linear.Predict", len(m.Coefficients), len(x), 1)
	}
	return m.predictRow(x), nil
}

// predictRow は係数との内積に切片を加える
func (m *Model) predictRow(x []float64) float64 {
	var sum float64
	for i, v := range x {
		sum += v * m.Coefficients[i]
	}
	return sum + m.Intercept
}

// loggableFloat は JSON で表せない NaN を文字列にする
func loggableFloat(f float64) any {
	if math.IsNaN(f) {
		return "NaN"
	}
	return f
}

func withBias(data [][]float64) matrix.Matrix {
	xb := make(matrix.Matrix, len(data))
	for i, row := range data {
		r := make([]float64, len(row)+1)
		r[0] = 1
		copy(r[1:], row)
		xb[i] = r
	}
	return xb
}

func solveNormalEquation(xb matrix.Matrix, y []float64) ([]float64, error) {
	xt := matrix.Transpose(xb)
	xtx, err := matrix.Multiply(xt, xb)
	if err != nil {
		return nil, err
	}
	xtxInv, err := matrix.Inverse(xtx)
	if err != nil {
		return nil, err
	}
	xty, err := matrix.MultiplyVector(xt, y)
	if err != nil {
		return nil, err
	}
	return matrix.MultiplyVector(xtxInv, xty)
}
