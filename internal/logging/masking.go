// Package logging はログ関連のユーティリティを提供する。
package logging

// MaskPassword はパスワードをマスキングする。
// 長さも漏らさないよう固定長のマスク文字列を返す。
// enabled=false の場合はマスキングせずにそのまま返す。
func MaskPassword(password string, enabled bool) string {
	if !enabled {
		return password
	}
	if password == "" {
		return ""
	}
	return "********"
}

// MaskPartial は文字列の一部をマスキングする。
// keepPrefix: 先頭から保持する文字数
// keepSuffix: 末尾から保持する文字数
// maskChar: マスキングに使用する文字
func MaskPartial(s string, keepPrefix, keepSuffix int, maskChar rune) string {
	runes := []rune(s)
	length := len(runes)

	// 文字列が短すぎる場合はそのまま返す
	if length <= keepPrefix+keepSuffix {
		return s
	}

	result := make([]rune, length)

	for i := 0; i < keepPrefix; i++ {
		result[i] = runes[i]
	}
	for i := keepPrefix; i < length-keepSuffix; i++ {
		result[i] = maskChar
	}
	for i := length - keepSuffix; i < length; i++ {
		result[i] = runes[i]
	}

	return string(result)
}

// MaskDSN はDB接続文字列のパスワード部相当を部分マスキングする。
// 接続先のホスト等は残し、中間部のみ伏せる。
func MaskDSN(dsn string, enabled bool) string {
	if !enabled {
		return dsn
	}
	return MaskPartial(dsn, 4, 4, '*')
}

// Masker はマスキング設定を保持する構造体。
type Masker struct {
	enabled bool
}

// NewMasker は新しいMaskerを生成する。
func NewMasker(enabled bool) *Masker {
	return &Masker{enabled: enabled}
}

// Password はパスワードをマスキングする。
func (m *Masker) Password(password string) string {
	return MaskPassword(password, m.enabled)
}

// DSN はDB接続文字列をマスキングする。
func (m *Masker) DSN(dsn string) string {
	return MaskDSN(dsn, m.enabled)
}

// IsEnabled はマスキングが有効かどうかを返す。
func (m *Masker) IsEnabled() bool {
	return m.enabled
}
