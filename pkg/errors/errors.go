// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 入力検証の失敗をすべて構造化されたエラー型で表し、呼び出し元がどの契約に違反したかを判別できるようにします。
package errors

import (
	"fmt"
	"log"
	"strings"
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
		log.Printf("housevalue-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
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

// DataQualityWarning は読み込んだ表に欠損値や重複行が含まれる場合の警告です。
// 参照データセットはクリーンであることが分かっているため、既定では処理を止めません。
type DataQualityWarning struct {
	Source         string
	MissingCount   int
	DuplicateCount int
}

func (w *DataQualityWarning) Error() string {
	return fmt.Sprintf("data quality: %s has %d missing values and %d duplicate rows",
		w.Source, w.MissingCount, w.DuplicateCount)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DataQualityWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("source", w.Source).
		Int("missing", w.MissingCount).
		Int("duplicates", w.DuplicateCount).
		Str("type", "DataQualityWarning")
}

// NewDataQualityWarning は新しいDataQualityWarningを作成します。
func NewDataQualityWarning(source string, missing, duplicates int) *DataQualityWarning {
	return &DataQualityWarning{Source: source, MissingCount: missing, DuplicateCount: duplicates}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// DataFormatError は入力表の形式が期待と異なる場合のエラーです。
// 列数、ヘッダー名、数値の解析、目的変数の有無などを検査します。
type DataFormatError struct {
	Source string
	Line   int // 1始まり。0はファイル全体
	Column string
	Reason string
}

func (e *DataFormatError) Error() string {
	var b strings.Builder
	b.WriteString("housevalue: data format error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " (column %s)", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DataFormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Int("line", e.Line).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "DataFormatError")
}

// NewDataFormatError は新しいDataFormatErrorを作成し、スタックトレースを付与します。
func NewDataFormatError(source string, line int, column, reason string) error {
	return errors.WithStack(&DataFormatError{Source: source, Line: line, Column: column, Reason: reason})
}

// InvalidArgumentError は引数が許容範囲外の場合のエラーです。
type InvalidArgumentError struct {
	Op     string
	Param  string
	Value  interface{}
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("housevalue: %s: invalid argument %s=%v: %s", e.Op, e.Param, e.Value, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidArgumentError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("param_name", e.Param).
		Interface("value", e.Value).
		Str("reason", e.Reason).
		Str("type", "InvalidArgumentError")
}

// NewInvalidArgumentError は新しいInvalidArgumentErrorを作成し、スタックトレースを付与します。
func NewInvalidArgumentError(op, param string, value interface{}, reason string) error {
	return errors.WithStack(&InvalidArgumentError{Op: op, Param: param, Value: value, Reason: reason})
}

// ShapeMismatchError は予測時の特徴量が学習時のスキーマと一致しない場合のエラーです。
// 列数の不一致と、列名・列順の不一致の両方を表します。
type ShapeMismatchError struct {
	Op       string
	Expected []string
	Got      []string
	Position int // 列名が一致しない最初の位置。列数の不一致では -1
}

func (e *ShapeMismatchError) Error() string {
	if len(e.Expected) != len(e.Got) || e.Position < 0 {
		return fmt.Sprintf("housevalue: %s: feature count mismatch: expected %d, got %d",
			e.Op, len(e.Expected), len(e.Got))
	}
	return fmt.Sprintf("housevalue: %s: feature order mismatch at position %d: expected %s, got %s",
		e.Op, e.Position, e.Expected[e.Position], e.Got[e.Position])
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Strs("expected", e.Expected).
		Strs("got", e.Got).
		Int("position", e.Position).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError は新しいShapeMismatchErrorを作成し、スタックトレースを付与します。
func NewShapeMismatchError(op string, expected, got []string, position int) error {
	return errors.WithStack(&ShapeMismatchError{Op: op, Expected: expected, Got: got, Position: position})
}

// DomainError は関数の定義域外の値が渡された場合のエラーです。
// 例えば、対数変換に0以下の値を渡した場合など。
type DomainError struct {
	Op     string
	Index  int
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("housevalue: %s: value %g at index %d is outside the domain: %s",
		e.Op, e.Value, e.Index, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DomainError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Float64("value", e.Value).
		Str("reason", e.Reason).
		Str("type", "DomainError")
}

// NewDomainError は新しいDomainErrorを作成し、スタックトレースを付与します。
func NewDomainError(op string, index int, value float64, reason string) error {
	return errors.WithStack(&DomainError{Op: op, Index: index, Value: value, Reason: reason})
}

// UnknownFieldError は上書き指定のキーが学習済みの特徴量名に存在しない場合のエラーです。
type UnknownFieldError struct {
	Op    string
	Field string
	Known []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("housevalue: %s: unknown field %q (known: %s)",
		e.Op, e.Field, strings.Join(e.Known, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownFieldError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("field", e.Field).
		Strs("known", e.Known).
		Str("type", "UnknownFieldError")
}

// NewUnknownFieldError は新しいUnknownFieldErrorを作成し、スタックトレースを付与します。
func NewUnknownFieldError(op, field string, known []string) error {
	return errors.WithStack(&UnknownFieldError{Op: op, Field: field, Known: known})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
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
	return fmt.Sprintf("housevalue: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
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
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
	Err     error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("housevalue: %s: %s", e.Op, e.Message)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// NewValueErrorWithCause は原因となる共通エラー変数を保持したValueErrorを作成します。
func NewValueErrorWithCause(op, message string, cause error) error {
	return errors.WithStack(&ValueError{Op: op, Message: message, Err: cause})
}

// ModelError は回帰モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("housevalue: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("housevalue: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
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

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は計画行列のランクが不足している場合のエラーです。
	ErrSingularMatrix = New("singular matrix")

	// ErrZeroVariance は目的変数の分散が0で決定係数が定義できない場合のエラーです。
	ErrZeroVariance = New("zero variance")
)
