// Package policy はアクセスポリシーをhuntgroupメンバーシップ表と
// 認可ガードルールにコンパイルする。出力は宣言順を保持した決定的な
// ものであり、同じ入力からの再生成はバイト単位で一致する。
package policy

import (
	"github.com/mcguer0/radius-rotate/internal/apperr"
	"github.com/mcguer0/radius-rotate/internal/model"
	"github.com/mcguer0/radius-rotate/internal/netmatch"
)

// Dimension はデバイスマッチングの次元を表す。
type Dimension string

const (
	// DimensionSourceAddress はソースIPアドレス（NAS-IP-Address）
	DimensionSourceAddress Dimension = "source-address"
	// DimensionNASIdentifier はNAS-Identifier
	DimensionNASIdentifier Dimension = "nas-identifier"
	// DimensionCalledStationID はCalled-Station-Id（SSID等）
	DimensionCalledStationID Dimension = "called-station-id"
)

// SentinelNetwork は自動合成ポリシーに使う到達不能な番兵ネットワーク。
// 全通過ではなく不活性なルールを1本置くことで、enforced指定された
// prefixが黙って素通しになるのを防ぐ。
const SentinelNetwork = "0.0.0.0/32"

// GroupRow はhuntgroupメンバーシップ表の1行を表す。
type GroupRow struct {
	Group       string    // huntgroup名
	Dimension   Dimension // マッチング次元
	Pattern     string    // マッチパターン（source-addressは正規表現）
	Regex       bool      // パターンが正規表現かどうか
	Approximate bool      // CIDRコンパイルの近似結果（要レビュー）
}

// GuardRule は認可ステージのガードルール1本を表す。
// 「グループGのメンバーからのリクエストで、usernameがGの持ち主prefixで
// 始まらないものは拒否する」を符号化する。
type GuardRule struct {
	Group       string // huntgroup名
	Prefix      string // このグループを所有するprefix
	NeedsReview bool   // 自動合成ポリシー由来（要レビュー）
}

// Assembly はポリシーコンパイルの成果物を表す。
type Assembly struct {
	Rows   []GroupRow  // メンバーシップ表（宣言順、重複排除済み）
	Guards []GuardRule // ガードルール（ポリシー宣言順、グループごとに1本）
}

// Assemble はポリシー列をメンバーシップ表とガードルールにコンパイルする。
// 単一ネットワークのコンパイル失敗はそのネットワークだけを落として
// 報告し、アセンブリ全体は継続する（部分出力は期待される動作）。
func Assemble(policies []model.AccessPolicy) (*Assembly, []error) {
	a := &Assembly{}
	var errs []error

	seenRows := make(map[GroupRow]struct{})
	seenGroups := make(map[string]struct{})

	addRow := func(row GroupRow) {
		key := row
		if _, ok := seenRows[key]; ok {
			return
		}
		seenRows[key] = struct{}{}
		a.Rows = append(a.Rows, row)
	}

	for _, p := range policies {
		group := p.GroupName()

		for _, cidr := range p.Networks {
			pat, err := netmatch.Compile(cidr)
			if err != nil {
				errs = append(errs, apperr.NewNetworkError(p.Prefix, cidr, err))
				continue
			}
			addRow(GroupRow{
				Group:       group,
				Dimension:   DimensionSourceAddress,
				Pattern:     pat.Expr,
				Regex:       true,
				Approximate: pat.Approximate,
			})
		}
		for _, nas := range p.NASPatterns {
			if nas == "" {
				continue
			}
			addRow(GroupRow{Group: group, Dimension: DimensionNASIdentifier, Pattern: nas})
		}
		for _, station := range p.StationPatterns {
			if station == "" {
				continue
			}
			addRow(GroupRow{Group: group, Dimension: DimensionCalledStationID, Pattern: station})
		}

		if _, ok := seenGroups[group]; !ok {
			seenGroups[group] = struct{}{}
			a.Guards = append(a.Guards, GuardRule{
				Group:       group,
				Prefix:      p.Prefix,
				NeedsReview: p.NeedsReview,
			})
		}
	}

	return a, errs
}

// FillMissing はenforced指定された各prefixについて、ポリシー未宣言の
// ものに番兵ネットワーク1本のプレースホルダーポリシーを合成して返す。
// 合成ポリシーはNeedsReview=trueでマークされ、管理者の編集を要求する。
// 入力のポリシー列は変更せず、合成分を末尾に追加した新しい列を返す。
func FillMissing(enforced []string, policies []model.AccessPolicy) []model.AccessPolicy {
	declared := make(map[string]struct{}, len(policies))
	for _, p := range policies {
		declared[p.Prefix] = struct{}{}
	}

	out := make([]model.AccessPolicy, len(policies))
	copy(out, policies)

	for _, prefix := range enforced {
		if _, ok := declared[prefix]; ok {
			continue
		}
		declared[prefix] = struct{}{}
		out = append(out, model.AccessPolicy{
			Prefix:      prefix,
			Networks:    []string{SentinelNetwork},
			NeedsReview: true,
		})
	}
	return out
}
