// Package dataset は表形式データの読み込みとセル値の表現を提供する。
//
// CSV のセルは数値・文字列・欠損のいずれかとして読み込まれ、
// 数値か文字列かの判定は列ではなくセル単位で行う。
// 列の役割（数値列かカテゴリ列か）の決定は preprocessing パッケージが行う。
package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind はセル値の種類
type Kind int

const (
	// Missing は値が存在しないセル
	Missing Kind = iota
	// Number は有限の数値として読み込まれたセル
	Number
	// String は数値として解釈できなかったセル
	String
)

// String は種類名を返す
func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "missing"
	}
}

// Value は 1 セル分の値（数値・文字列・欠損のいずれか）
type Value struct {
	kind Kind
	num  float64
	str  string
}

// NumberValue は数値セルを作成する
func NumberValue(f float64) Value {
	return Value{kind: Number, num: f}
}

// StringValue は文字列セルを作成する
func StringValue(s string) Value {
	return Value{kind: String, str: s}
}

// MissingValue は欠損セルを作成する
func MissingValue() Value {
	return Value{}
}

// Parse は生の文字列をセル値に変換する
// 空文字列は欠損、有限の数値として解釈できれば数値、それ以外は文字列になる。
func Parse(raw string) Value {
	if raw == "" {
		return MissingValue()
	}
	if f, ok := parseFinite(raw); ok {
		return NumberValue(f)
	}
	return StringValue(raw)
}

// Kind はセル値の種類を返す
func (v Value) Kind() Kind { return v.kind }

// IsEmpty は欠損または空文字列の場合に true を返す
func (v Value) IsEmpty() bool {
	return v.kind == Missing || (v.kind == String && v.str == "")
}

// Float は値を有限の数値として解釈する
// 文字列は前後の空白を除いて解析し、解析できない場合や NaN/Inf の場合は false を返す。
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Number:
		return v.num, true
	case String:
		return parseFinite(v.str)
	default:
		return 0, false
	}
}

// String は値の文字列表現を返す
// 数値は最短表現（例: 2.5, 3）で、欠損は空文字列になる。
func (v Value) String() string {
	switch v.kind {
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case String:
		return v.str
	default:
		return ""
	}
}

func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
