// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// データセットの構築・結合・分割・永続化で発生する契約違反を、型付きの構造化エラーとして表現します。
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
		log.Printf("golem-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
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

// SparseClassWarning は分割数がクラスのインスタンス数を上回り、
// 一部のフォールドにそのクラスのインスタンスが含まれない場合の警告です。
type SparseClassWarning struct {
	Class     int
	Instances int
	Folds     int
}

func (w *SparseClassWarning) Error() string {
	return fmt.Sprintf("class %d has only %d instances; %d of %d folds will contain none of them",
		w.Class, w.Instances, w.Folds-w.Instances, w.Folds)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *SparseClassWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("class", w.Class).
		Int("instances", w.Instances).
		Int("folds", w.Folds).
		Str("type", "SparseClassWarning")
}

// NewSparseClassWarning は新しいSparseClassWarningを作成します。
func NewSparseClassWarning(class, instances, folds int) *SparseClassWarning {
	return &SparseClassWarning{Class: class, Instances: instances, Folds: folds}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はノードが未学習の状態で `Apply` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("golem: %s: this node is not trained yet. Call Train() before using %s()", e.ModelName, e.Method)
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

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
// Axis は 0 が行（インスタンス）、1 が列、-1 が配列の次元数そのものを表します。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) axisName() string {
	switch e.Axis {
	case -1:
		return "ndim"
	case 0:
		return "rows"
	default:
		return "columns"
	}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("golem: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// TypeError は行列やラベル列などが期待と異なる型で渡された場合のエラーです。
// 暗黙の型変換は行いません。
type TypeError struct {
	Op       string
	Field    string
	Expected string
	Got      string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("golem: %s: field '%s' must be %s, got %s", e.Op, e.Field, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *TypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("field", e.Field).
		Str("expected", e.Expected).
		Str("got", e.Got).
		Str("type", "TypeError")
}

// NewTypeError は新しいTypeErrorを作成し、スタックトレースを付与します。
func NewTypeError(op, field, expected string, got interface{}) error {
	err := &TypeError{Op: op, Field: field, Expected: expected, Got: fmt.Sprintf("%T", got)}
	return errors.WithStack(err)
}

// ValidationError はメタデータの検証に失敗した場合のエラーです。
// ラベル列の長さや feat_shape の積が特徴量数と一致しない場合などに使われます。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("golem: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
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

// ContractError は認識されないフィールド名が渡された場合のエラーです。
type ContractError struct {
	Op    string
	Field string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("golem: %s: unrecognized field '%s'", e.Op, e.Field)
}

// NewContractError は新しいContractErrorを作成し、スタックトレースを付与します。
func NewContractError(op, field string) error {
	err := &ContractError{Op: op, Field: field}
	return errors.WithStack(err)
}

// IntegrityError はインスタンスIDの整合性が崩れている場合のエラーです。
// ids の行数が xs/ys と一致しない場合や、フォールド間でIDが重複する場合に使われます。
type IntegrityError struct {
	Op     string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("golem: %s: integrity violation: %s", e.Op, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IntegrityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "IntegrityError")
}

// NewIntegrityError は新しいIntegrityErrorを作成し、スタックトレースを付与します。
func NewIntegrityError(op, reason string) error {
	err := &IntegrityError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// MismatchError は二つのデータセットの構造が一致せず結合できない場合のエラーです。
// Field には一致しなかったフィールド名が入ります。
type MismatchError struct {
	Op    string
	Field string
	Left  interface{}
	Right interface{}
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("golem: %s: %s differs (%v vs %v)", e.Op, e.Field, e.Left, e.Right)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("field", e.Field).
		Str("type", "MismatchError")
}

// NewMismatchError は新しいMismatchErrorを作成し、スタックトレースを付与します。
func NewMismatchError(op, field string, left, right interface{}) error {
	err := &MismatchError{Op: op, Field: field, Left: left, Right: right}
	return errors.WithStack(err)
}

// IndexError はインスタンスのインデックスが範囲外の場合のエラーです。
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("golem: %s: index %d out of range for %d instances", e.Op, e.Index, e.Len)
}

// NewIndexError は新しいIndexErrorを作成し、スタックトレースを付与します。
func NewIndexError(op string, index, length int) error {
	err := &IndexError{Op: op, Index: index, Len: length}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("golem: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// IOError は保存・読み込み時の入出力エラーです。
// ファイルが存在しない、ストリームが読めない、コンテナが壊れている場合などに使われ、
// データ契約のエラーとは区別されます。
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("golem: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("golem: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError は新しいIOErrorを作成し、スタックトレースを付与します。
func NewIOError(op, path string, err error) error {
	ioErr := &IOError{Op: op, Path: path, Err: err}
	return errors.WithStack(ioErr)
}

// ModelError はノード（分類器・変換器）に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("golem: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("golem: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
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

	// ErrCorruptContainer は保存形式のヘッダが壊れている場合のエラーです。
	ErrCorruptContainer = New("corrupt dataset container")

	// ErrSingularMatrix は正規方程式の行列が特異な場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
