// Package netmatch はCIDRネットワークをアンカー付き正規表現パターンに
// コンパイルする。huntgroupsのパターン文法にはレンジ構文がないため、
// オクテット境界に揃わないprefix長は近似（ネットワークアドレスの完全一致）
// に落とし、要レビューとしてフラグを立てる。
package netmatch

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/mcguer0/radius-rotate/internal/apperr"
)

// octetAny は任意の1オクテットにマッチする正規表現片。
// 入力はリテラルなドット区切り10進アドレスであることが前提。
const octetAny = `[0-9]{1,3}`

// Pattern はコンパイル済みのアドレスマッチパターンを表す。
type Pattern struct {
	Expr        string // アンカー付き正規表現（^...$）
	Network     string // 正規化されたネットワーク表記（ホストビットはゼロ）
	Approximate bool   // 近似結果（手動レビューが必要）
}

// Compile はCIDR表記("a.b.c.d/len")をパターンにコンパイルする。
// prefix長のバケット:
//   - /32: 全オクテット固定の完全一致
//   - /24, /16, /8: 固定オクテット + 任意オクテット
//   - /0: 任意のアドレスにマッチ
//   - その他: ゼロ化したネットワークアドレスの完全一致に縮退し、
//     Approximate=true を立てる
//
// 不正なアドレスや範囲外のprefix長はErrInvalidNetworkを返す。
func Compile(cidr string) (Pattern, error) {
	addr, lenStr, ok := strings.Cut(cidr, "/")
	if !ok {
		return Pattern{}, fmt.Errorf("%w: missing prefix length: %s", apperr.ErrInvalidNetwork, cidr)
	}

	prefixLen, err := strconv.Atoi(lenStr)
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: prefix length is not a number: %s", apperr.ErrInvalidNetwork, cidr)
	}
	if prefixLen < 0 || prefixLen > 32 {
		return Pattern{}, fmt.Errorf("%w: prefix length out of range 0..32: %s", apperr.ErrInvalidNetwork, cidr)
	}

	ip := net.ParseIP(strings.TrimSpace(addr))
	if ip = ip.To4(); ip == nil {
		return Pattern{}, fmt.Errorf("%w: not an IPv4 address: %s", apperr.ErrInvalidNetwork, cidr)
	}

	// ホストビットをゼロ化してからコンパイルする
	network := ip.Mask(net.CIDRMask(prefixLen, 32))
	normalized := fmt.Sprintf("%s/%d", network.String(), prefixLen)

	switch prefixLen {
	case 0:
		return Pattern{Expr: `^.*$`, Network: normalized}, nil
	case 8, 16, 24, 32:
		fixed := prefixLen / 8
		parts := make([]string, 4)
		for i := 0; i < 4; i++ {
			if i < fixed {
				parts[i] = strconv.Itoa(int(network[i]))
			} else {
				parts[i] = octetAny
			}
		}
		return Pattern{
			Expr:    `^` + strings.Join(parts, `\.`) + `$`,
			Network: normalized,
		}, nil
	default:
		// レンジ構文なしでは表現できないため、ネットワークアドレスの
		// /32完全一致として近似する
		return Pattern{
			Expr:        `^` + escapeAddr(network.String()) + `$`,
			Network:     normalized,
			Approximate: true,
		}, nil
	}
}

// escapeAddr はドット区切りアドレスを正規表現リテラルにエスケープする。
func escapeAddr(addr string) string {
	return strings.ReplaceAll(addr, ".", `\.`)
}
