// Package model はドメインモデルの値オブジェクトを提供する。
// 設定から毎回構築される不変の値であり、永続化はされない。
package model

import "strings"

// Position はusername内でのprefixの位置を表す。
type Position string

const (
	// PositionStart はprefixをusernameの先頭に置く
	PositionStart Position = "start"
	// PositionEnd はprefixをusernameの末尾に置く
	PositionEnd Position = "end"
)

// Valid は位置指定が有効かどうかを返す。
func (p Position) Valid() bool {
	return p == PositionStart || p == PositionEnd
}

// Matches はusernameが指定prefixにこの位置で一致するかを返す。
func (p Position) Matches(username, prefix string) bool {
	if p == PositionEnd {
		return strings.HasSuffix(username, prefix)
	}
	return strings.HasPrefix(username, prefix)
}

// AccessPolicy はprefix単位のアクセスポリシーを表す。
// マッチャー3種（Networks/NASPatterns/StationPatterns）が全て空でも
// エラーではなく、空のルールセットにコンパイルされる。
type AccessPolicy struct {
	Prefix          string   // 対象prefix
	Group           string   // デバイスグループ名（空なら導出値）
	Networks        []string // CIDR表記のソースネットワーク（宣言順を保持）
	NASPatterns     []string // NAS-Identifierに対する明示パターン
	StationPatterns []string // Called-Station-Idに対する明示パターン
	NeedsReview     bool     // 管理者の手直しが必要（自動合成や近似時）
}

// GroupName はデバイスグループ名を返す。
// 未設定の場合は「prefixの末尾区切り文字を除いた文字列 + "-devs"」を導出する。
func (p AccessPolicy) GroupName() string {
	if p.Group != "" {
		return p.Group
	}
	return strings.TrimRight(p.Prefix, "-_") + "-devs"
}

// Account はRADIUSユーザーストア上のアカウントを表す。
// usernameの一意性はストア側の制約で担保され、生成側は衝突時にリトライする。
type Account struct {
	Username string // prefix+tail または tail+prefix
	Password string // 平文パスワード（radcheckのCleartext-Password）
	Prefix   string // 所属するprefix
	Group    string // グループ割り当て（無効時は空）
}

// DesiredState はprefixごとの望ましいアカウント数を表す。
type DesiredState struct {
	Prefix      string // 対象prefix
	TargetCount int    // 維持するアカウント数（1以上）
}

// Shortfall は現在数に対する不足数を返す。負数は返さない。
// 余剰アカウントは削除対象ではなく、パスワードローテーションのみ行われる。
func (d DesiredState) Shortfall(current int) int {
	n := d.TargetCount - current
	if n < 0 {
		return 0
	}
	return n
}
