package logging

import "log/slog"

// ログフィールド名の定数
const (
	FieldRunID    = "run_id"
	FieldEventID  = "event_id"
	FieldError    = "error"
	FieldPrefix   = "prefix"
	FieldUsername = "username"
	FieldPassword = "password"
	FieldDryRun   = "dry_run"
	FieldCount    = "count"
)

// WithRunID は実行IDのslog.Attrを返す。
func WithRunID(runID string) slog.Attr {
	return slog.String(FieldRunID, runID)
}

// WithEventID はイベントIDのslog.Attrを返す。
func WithEventID(eventID string) slog.Attr {
	return slog.String(FieldEventID, eventID)
}

// WithError はエラーのslog.Attrを返す。
func WithError(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// WithPrefix はprefixのslog.Attrを返す。
func WithPrefix(prefix string) slog.Attr {
	return slog.String(FieldPrefix, prefix)
}

// WithUsername はusernameのslog.Attrを返す。
func WithUsername(username string) slog.Attr {
	return slog.String(FieldUsername, username)
}

// WithDryRun はdry-runフラグのslog.Attrを返す。
func WithDryRun(dryRun bool) slog.Attr {
	return slog.Bool(FieldDryRun, dryRun)
}

// WithCount は件数のslog.Attrを返す。
func WithCount(count int) slog.Attr {
	return slog.Int(FieldCount, count)
}

// CommonFields はマスキング設定を保持するログフィールド生成器。
type CommonFields struct {
	masker *Masker
}

// NewCommonFields は新しいCommonFieldsを生成する。
func NewCommonFields(masker *Masker) *CommonFields {
	if masker == nil {
		masker = NewMasker(false)
	}
	return &CommonFields{masker: masker}
}

// WithPassword はマスキングされたパスワードのslog.Attrを返す。
func (cf *CommonFields) WithPassword(password string) slog.Attr {
	return slog.String(FieldPassword, cf.masker.Password(password))
}

// AccountLogFields はアカウント操作ログ用の共通フィールドを返す。
func (cf *CommonFields) AccountLogFields(runID, eventID, prefix, username string) []any {
	return []any{
		WithRunID(runID),
		WithEventID(eventID),
		WithPrefix(prefix),
		WithUsername(username),
	}
}
