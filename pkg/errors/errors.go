// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 行列演算・学習・予測の各段階で発生する失敗を構造化されたエラー型として表現し、
// 呼び出し側が errors.Is / errors.As で失敗の種類を判別できるようにします。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("housepriceai-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定し、直前のハンドラを返します。
//
// 例:
//
//	prev := errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
//	defer errors.SetWarningHandler(prev)
func SetWarningHandler(handler func(w error)) func(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	prev := warningHandler
	warningHandler = handler
	return prev
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// DataConversionWarning はデータの型が暗黙的に変換された場合に発生する警告です。
// 数値列に数値として解釈できない値があり 0 で補完された場合などに使われます。
type DataConversionWarning struct {
	Column   string
	FromType string
	ToType   string
	Count    int
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("column %q: %d value(s) converted from %s to %s. Reason: %s",
		w.Column, w.Count, w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Int("count", w.Count).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning は新しいDataConversionWarningを作成します。
func NewDataConversionWarning(column, from, to string, count int, reason string) *DataConversionWarning {
	return &DataConversionWarning{Column: column, FromType: from, ToType: to, Count: count, Reason: reason}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、目的変数の分散が 0 のときの R² など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrDimensionMismatch は行列の形状が演算に適合しない場合のエラーです。
	ErrDimensionMismatch = New("dimension mismatch")

	// ErrNotSquare は正方行列が必要な演算に非正方行列が渡された場合のエラーです。
	ErrNotSquare = New("matrix is not square")

	// ErrSingularMatrix は特異行列（またはほぼ特異な行列）の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("housepriceai: %s: this model is not fitted yet. Call Train() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は演算の次元が噛み合わない場合のエラーです。
// 行列積では左辺の列数 (Expected) と右辺の行数 (Got) の両方を報告します。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("housepriceai: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// Is は ErrDimensionMismatch との比較を可能にします。
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// NotSquareError は逆行列などで正方行列が要求されたのに形状が n×n でない場合のエラーです。
type NotSquareError struct {
	Op   string
	Rows int
	Cols int
}

func (e *NotSquareError) Error() string {
	return fmt.Sprintf("housepriceai: %s: matrix must be square, got %dx%d", e.Op, e.Rows, e.Cols)
}

// Is は ErrNotSquare との比較を可能にします。
func (e *NotSquareError) Is(target error) bool {
	return target == ErrNotSquare
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotSquareError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("rows", e.Rows).
		Int("cols", e.Cols).
		Str("type", "NotSquareError")
}

// NewNotSquareError は新しいNotSquareErrorを作成し、スタックトレースを付与します。
func NewNotSquareError(op string, rows, cols int) error {
	return errors.WithStack(&NotSquareError{Op: op, Rows: rows, Cols: cols})
}

// SingularMatrixError はガウス・ジョルダン消去でピボットが許容誤差を下回った場合のエラーです。
type SingularMatrixError struct {
	Op        string
	Column    int     // ピボット列
	Pivot     float64 // 行交換後のピボット値
	Tolerance float64
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("housepriceai: %s: matrix is singular (pivot %.3g at column %d below %.0e)", e.Op, e.Pivot, e.Column, e.Tolerance)
}

// Is は ErrSingularMatrix との比較を可能にします。
func (e *SingularMatrixError) Is(target error) bool {
	return target == ErrSingularMatrix
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SingularMatrixError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("column", e.Column).
		Float64("pivot", e.Pivot).
		Float64("tolerance", e.Tolerance).
		Str("type", "SingularMatrixError")
}

// NewSingularMatrixError は新しいSingularMatrixErrorを作成し、スタックトレースを付与します。
func NewSingularMatrixError(op string, column int, pivot, tolerance float64) error {
	return errors.WithStack(&SingularMatrixError{Op: op, Column: column, Pivot: pivot, Tolerance: tolerance})
}

// FailureKind は学習失敗の原因の種類です。
type FailureKind string

const (
	KindSingularMatrix    FailureKind = "singular_matrix"
	KindDimensionMismatch FailureKind = "dimension_mismatch"
	KindNotSquare         FailureKind = "not_square"
	KindEmptyData         FailureKind = "empty_data"
	KindInvalidLabel      FailureKind = "invalid_label"
	KindUnknown           FailureKind = "unknown"
)

// TrainingMessage は学習失敗時にユーザーへそのまま表示するメッセージです。
const TrainingMessage = "Could not train model. The dataset might be singular (perfect multicollinearity) or too small."

// TrainingFailedError は学習中に発生した行列演算の失敗を一度だけ包んだエラーです。
// Kind で元の失敗の種類を保持し、Unwrap で元のエラーに辿れます。
type TrainingFailedError struct {
	Op      string
	Kind    FailureKind
	Message string
	Err     error
}

func (e *TrainingFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("housepriceai: %s: %s: %s: %v", e.Op, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("housepriceai: %s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *TrainingFailedError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *TrainingFailedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("kind", string(e.Kind)).
		Str("message", e.Message).
		Str("type", "TrainingFailedError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewTrainingFailedError は元のエラーから失敗の種類を判定してTrainingFailedErrorを作成します。
func NewTrainingFailedError(op string, err error) error {
	return errors.WithStack(&TrainingFailedError{Op: op, Kind: KindOf(err), Message: TrainingMessage, Err: err})
}

// NewTrainingFailedErrorKind は種類とメッセージを明示してTrainingFailedErrorを作成します。
func NewTrainingFailedErrorKind(op string, kind FailureKind, message string, err error) error {
	return errors.WithStack(&TrainingFailedError{Op: op, Kind: kind, Message: message, Err: err})
}

// KindOf はエラーチェーンから FailureKind を判定します。
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrSingularMatrix):
		return KindSingularMatrix
	case errors.Is(err, ErrDimensionMismatch):
		return KindDimensionMismatch
	case errors.Is(err, ErrNotSquare):
		return KindNotSquare
	case errors.Is(err, ErrEmptyData):
		return KindEmptyData
	default:
		return KindUnknown
	}
}

// UserMessage はユーザーに表示すべきメッセージを返します。
// TrainingFailedError の場合は Message をそのまま、それ以外は Error() を返します。
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var tf *TrainingFailedError
	if errors.As(err, &tf) {
		return tf.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return err.Error()
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// 学習設定（目的変数・特徴量の選択）の誤りはこのエラーとして Trainer に到達する前に拒否されます。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("housepriceai: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("housepriceai: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}
