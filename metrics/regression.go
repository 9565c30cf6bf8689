// Package metrics は回帰モデルの評価指標を計算する。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

// Summary は学習データ上での評価結果
type Summary struct {
	Mean  float64 // yTrue の平均
	SSTot float64 // 全変動 Σ(y - mean)²
	SSRes float64 // 残差変動 Σ(y - ŷ)²
	MSE   float64
	RMSE  float64
	R2    float64 // 全変動が 0 の場合は NaN
}

// Evaluate は MSE・RMSE・R² をまとめて計算する
//
// すべての yTrue が同じ値の場合 R² は定義されないため NaN とし、
// エラーではなく UndefinedMetricWarning を発生させる。
func Evaluate(yTrue, yPred []float64) (Summary, error) {
	if err := checkInputs("Evaluate", yTrue, yPred); err != nil {
		return Summary{}, err
	}

	mean := stat.Mean(yTrue, nil)
	var ssTot, ssRes float64
	for i, y := range yTrue {
		d := y - mean
		ssTot += d * d
		r := y - yPred[i]
		ssRes += r * r
	}

	n := float64(len(yTrue))
	s := Summary{
		Mean:  mean,
		SSTot: ssTot,
		SSRes: ssRes,
		MSE:   ssRes / n,
	}
	s.RMSE = math.Sqrt(s.MSE)
	s.R2 = r2(ssRes, ssTot, constant(yTrue))
	return s, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := checkInputs("MSE", yTrue, yPred); err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}
	return sum / float64(len(yTrue)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := checkInputs("MAE", yTrue, yPred); err != nil {
		return 0, err
	}

	var sum float64
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue)), nil
}

// R2Score は決定係数（R²）を計算する
// 全変動が 0 の場合は NaN を返し、警告を発生させる。
func R2Score(yTrue, yPred []float64) (float64, error) {
	s, err := Evaluate(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return s.R2, nil
}

// 平均の丸め誤差で ssTot が 0 にならない場合があるため、値の一致で判定する
func r2(ssRes, ssTot float64, constantTrue bool) float64 {
	if constantTrue || ssTot == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("R2Score", "total sum of squares is zero (no variance in yTrue)", math.NaN()))
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}

// constant はすべての値が先頭の値と等しいかどうかを返す
func constant(ys []float64) bool {
	for _, y := range ys[1:] {
		if y != ys[0] {
			return false
		}
	}
	return true
}

func checkInputs(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty vector")
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}
