package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/housepriceai/dataset"
)

// UnknownCategory は空または欠損のカテゴリ値に割り当てる名前
const UnknownCategory = "Unknown"

// ColumnRole は特徴量列の役割
type ColumnRole string

const (
	// Numeric は数値としてそのまま使う列
	Numeric ColumnRole = "numeric"
	// Categorical はワンホット符号化する列
	Categorical ColumnRole = "categorical"
)

// InferRole は最初の空でない値から列の役割を決める
//
// その値が有限の数値として解釈できれば Numeric、そうでなければ Categorical。
// 空でない値が一つもない列は Numeric として扱う（全て 0 で補完される）。
func InferRole(values []dataset.Value) ColumnRole {
	for _, v := range values {
		if v.IsEmpty() {
			continue
		}
		if _, ok := v.Float(); ok {
			return Numeric
		}
		return Categorical
	}
	return Numeric
}

// Encoder はカテゴリ列のワンホット符号化器
//
// Categories は観測された全カテゴリの昇順、Kept は基準カテゴリ（先頭）を除いたもの。
// カテゴリが一つしかない場合は除外せずにそのまま残す。
type Encoder struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
	Kept       []string `json:"kept"`
}

// NewEncoder は観測値から Encoder を作成する
func NewEncoder(column string, values []dataset.Value) *Encoder {
	seen := make(map[string]struct{})
	for _, v := range values {
		seen[categoryOf(v)] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	kept := categories
	if len(categories) > 1 {
		kept = categories[1:]
	}
	return &Encoder{
		Column:     column,
		Categories: categories,
		Kept:       append([]string(nil), kept...),
	}
}

// Width は符号化後のベクトルの長さを返す
func (e *Encoder) Width() int {
	return len(e.Kept)
}

// Encode は値を Kept と同じ長さの指示ベクトルに変換する
// 基準カテゴリと未知のカテゴリは全て 0 になる。
func (e *Encoder) Encode(v dataset.Value) []float64 {
	out := make([]float64, len(e.Kept))
	s := categoryOf(v)
	for i, c := range e.Kept {
		if c == s {
			out[i] = 1
			break
		}
	}
	return out
}

// Names は符号化後の特徴量名 "<column>_<category>" を返す
func (e *Encoder) Names() []string {
	names := make([]string, len(e.Kept))
	for i, c := range e.Kept {
		names[i] = e.Column + "_" + c
	}
	return names
}

// Options は予測入力で選択できるカテゴリ（基準カテゴリを含む全カテゴリ）を返す
func (e *Encoder) Options() []string {
	return append([]string(nil), e.Categories...)
}

func categoryOf(v dataset.Value) string {
	if v.IsEmpty() {
		return UnknownCategory
	}
	return v.String()
}
