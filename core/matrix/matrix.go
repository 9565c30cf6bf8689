// Package matrix は正規方程式を解くための密行列演算を提供する。
//
// 行列は行優先の [][]float64 で表現し、全ての行は同じ幅を持つ。
// 想定する規模は数百〜数千行、数十列であり、逆行列は
// 部分ピボット選択付きガウス・ジョルダン消去で厳密に求める。
package matrix

import (
	"math"

	"github.com/YuminosukeSato/housepriceai/core/parallel"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

// Matrix は行優先の密行列
type Matrix = [][]float64

// SingularTolerance は行交換後のピボットの絶対値がこれを下回ると特異とみなす閾値
const SingularTolerance = 1e-10

// parallelRowThreshold を超える行数の積は行ごとに並列計算する
const parallelRowThreshold = 256

// Dims は行数と列数を返す。空の行列は (0, 0)。
func Dims(m Matrix) (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Identity は n×n の単位行列を返す
func Identity(n int) Matrix {
	out := make(Matrix, n)
	for i := range out {
		out[i] = make([]float64, n)
		out[i][i] = 1
	}
	return out
}

// Clone は行列の深いコピーを返す
func Clone(m Matrix) Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Transpose は行と列を入れ替えた新しい行列を返す。空の入力には空の行列を返す。
func Transpose(m Matrix) Matrix {
	r, c := Dims(m)
	if r == 0 || c == 0 {
		return Matrix{}
	}
	out := make(Matrix, c)
	for j := 0; j < c; j++ {
		out[j] = make([]float64, r)
		for i := 0; i < r; i++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Multiply は行列積 A·B を計算する
//
// cols(A) != rows(B) の場合は両方の次元を含む DimensionError を返す。
// どちらかが空の場合は空の行列を返す。
// 各要素は k の昇順で累積するため、並列計算でも逐次計算と同じ結果になる。
func Multiply(a, b Matrix) (Matrix, error) {
	r1, c1 := Dims(a)
	r2, c2 := Dims(b)
	if r1 == 0 || r2 == 0 {
		return Matrix{}, nil
	}
	if c1 != r2 {
		return nil, errors.NewDimensionError("matrix.Multiply", c1, r2, 0)
	}

	out := make(Matrix, r1)
	parallel.ParallelizeWithThreshold(r1, parallelRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := make([]float64, c2)
			ai := a[i]
			for j := 0; j < c2; j++ {
				var sum float64
				for k := 0; k < c1; k++ {
					sum += ai[k] * b[k][j]
				}
				row[j] = sum
			}
			out[i] = row
		}
	})
	return out, nil
}

// MultiplyVector は v を n×1 の列ベクトルとみなして A·v を計算し、平坦化して返す
func MultiplyVector(a Matrix, v []float64) ([]float64, error) {
	col := make(Matrix, len(v))
	for i, x := range v {
		col[i] = []float64{x}
	}
	prod, err := Multiply(a, col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(prod))
	for i, row := range prod {
		out[i] = row[0]
	}
	return out, nil
}

// Inverse は部分ピボット選択付きガウス・ジョルダン消去で逆行列を求める
//
// 入力は変更しない。n×n でない場合は NotSquareError、
// 行交換後のピボットの絶対値が SingularTolerance 未満の場合は SingularMatrixError を返す。
func Inverse(m Matrix) (Matrix, error) {
	n, c := Dims(m)
	if n != c {
		return nil, errors.NewNotSquareError("matrix.Inverse", n, c)
	}
	for _, row := range m {
		if len(row) != n {
			return nil, errors.NewNotSquareError("matrix.Inverse", n, len(row))
		}
	}

	// 拡大行列 [M | I]
	aug := make(Matrix, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], m[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		// ピボット選択: 残りの行で絶対値が最大のもの
		pivotRow := col
		maxAbs := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r][col]); v > maxAbs {
				maxAbs = v
				pivotRow = r
			}
		}
		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]

		pivot := aug[col][col]
		if math.Abs(pivot) < SingularTolerance || math.IsNaN(pivot) {
			return nil, errors.NewSingularMatrixError("matrix.Inverse", col, pivot, SingularTolerance)
		}

		pr := aug[col]
		for j := range pr {
			pr[j] /= pivot
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			row := aug[r]
			for j := range row {
				row[j] -= factor * pr[j]
			}
		}
	}

	out := make(Matrix, n)
	for i := 0; i < n; i++ {
		out[i] = append([]float64(nil), aug[i][n:]...)
	}
	return out, nil
}
