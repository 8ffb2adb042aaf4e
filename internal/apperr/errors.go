// Package apperr は共通エラー定義を提供する。
package apperr

import "errors"

// ネットワーク/ポリシー関連エラー
var (
	// ErrInvalidNetwork は不正なCIDRネットワーク指定エラー
	ErrInvalidNetwork = errors.New("invalid network")
)

// 資格情報生成関連エラー
var (
	// ErrGenerationExhausted はユニークusername生成のリトライ上限超過エラー
	ErrGenerationExhausted = errors.New("username generation exhausted")
)

// ストア関連エラー
var (
	// ErrStoreUnavailable はストア接続エラー
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrTransactionFailed はトランザクション失敗エラー
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrOptionalSchemaMissing はオプションテーブル不在（userinfo等）
	ErrOptionalSchemaMissing = errors.New("optional schema missing")
	// ErrAccountNotFound はアカウントが見つからない場合のエラー
	ErrAccountNotFound = errors.New("account not found")
)

// 疎通確認関連エラー
var (
	// ErrProbeFailed はRADIUSサーバーとの交換失敗エラー
	ErrProbeFailed = errors.New("probe failed")
)
