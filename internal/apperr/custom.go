package apperr

import "fmt"

// ValidationError は設定値のバリデーションエラーを表す。
type ValidationError struct {
	Field   string // エラーが発生したフィールド名
	Message string // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field=%s, message=%s", e.Field, e.Message)
}

// NewValidationError はValidationErrorを生成する。
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NetworkError はポリシー内の単一ネットワークのコンパイル失敗を表す。
// バッチ全体は中断せず、ネットワーク単位で報告される。
type NetworkError struct {
	Policy  string // 対象ポリシーのprefix
	Network string // 失敗したCIDR文字列
	Cause   error  // 根本原因
}

// Error はerrorインターフェースを実装する。
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: policy=%s, network=%s, cause=%v",
		e.Policy, e.Network, e.Cause)
}

// Unwrap は根本原因を返す。
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError はNetworkErrorを生成する。
func NewNetworkError(policy, network string, cause error) *NetworkError {
	return &NetworkError{
		Policy:  policy,
		Network: network,
		Cause:   cause,
	}
}

// PrefixError は単一prefixの充足処理失敗を表す。
// 他のprefixの処理は継続される。
type PrefixError struct {
	Prefix string // 対象prefix
	Cause  error  // 根本原因
}

// Error はerrorインターフェースを実装する。
func (e *PrefixError) Error() string {
	return fmt.Sprintf("prefix error: prefix=%s, cause=%v", e.Prefix, e.Cause)
}

// Unwrap は根本原因を返す。
func (e *PrefixError) Unwrap() error {
	return e.Cause
}

// NewPrefixError はPrefixErrorを生成する。
func NewPrefixError(prefix string, cause error) *PrefixError {
	return &PrefixError{
		Prefix: prefix,
		Cause:  cause,
	}
}
