package policy

import (
	"fmt"
	"regexp"
	"strings"
)

// 生成ファイル先頭のバナー。タイムスタンプを含めないことで
// 再生成時のdiffを入力差分だけに保つ。
const generatedBanner = "# Generated by radius-rotate. Do not edit by hand.\n# Regenerate with: radius-rotate policy\n"

// huntgroupAttr はマッチング次元に対応するFreeRADIUS属性名を返す。
func huntgroupAttr(d Dimension) string {
	switch d {
	case DimensionSourceAddress:
		return "NAS-IP-Address"
	case DimensionNASIdentifier:
		return "NAS-Identifier"
	case DimensionCalledStationID:
		return "Called-Station-Id"
	default:
		return string(d)
	}
}

// RenderHuntgroups はメンバーシップ表をhuntgroupsファイル形式で描画する。
// 近似パターンの行には要レビューのコメントを添える。
func RenderHuntgroups(a *Assembly) string {
	var b strings.Builder
	b.WriteString(generatedBanner)

	for _, row := range a.Rows {
		if row.Approximate {
			b.WriteString("# REVIEW: approximate match, non-octet-aligned network\n")
		}
		op := "=="
		if row.Regex {
			op = "=~"
		}
		fmt.Fprintf(&b, "%s\t%s %s \"%s\"\n", row.Group, huntgroupAttr(row.Dimension), op, row.Pattern)
	}
	return b.String()
}

// RenderUnlang はガードルールをunlangスニペットとして描画する。
// 各ルールは「グループのメンバーで、usernameが所有prefixで始まらない
// リクエストを拒否する」を表す。
func RenderUnlang(a *Assembly) string {
	var b strings.Builder
	b.WriteString(generatedBanner)

	for _, g := range a.Guards {
		if g.NeedsReview {
			b.WriteString("# REVIEW: synthesized placeholder policy, edit before use\n")
		}
		fmt.Fprintf(&b, "if (Huntgroup-Name == \"%s\" && !(&User-Name =~ /^%s/)) {\n\treject\n}\n",
			g.Group, regexp.QuoteMeta(g.Prefix))
	}
	return b.String()
}
