// Package credential はランダムなusername/passwordの生成を提供する。
// 乱数源はcrypto/randを使用する。
package credential

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/mcguer0/radius-rotate/internal/model"
)

// TailAlphabet はusernameのランダム部に使うアルファベット。
// 大文字小文字を区別する（[a-zA-Z0-9]、62文字）。
const TailAlphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789"

// DefaultPunctuation はパスワードに使う既定の記号セット。
// 印字可能なASCII記号の全集合。設定で差し替え可能。
const DefaultPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Tail は指定長のランダムな英数字列を生成する。
func Tail(length int) (string, error) {
	return randomString(length, TailAlphabet)
}

// Username はprefixとランダムなtailからusernameを生成する。
// positionがendの場合はtailの後ろにprefixを付ける。
// prefixが空の場合はtailのみを返す。
func Username(prefix string, tailLen int, position model.Position) (string, error) {
	tail, err := Tail(tailLen)
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return tail, nil
	}
	if position == model.PositionEnd {
		return tail + prefix, nil
	}
	return prefix + tail, nil
}

// Password は英字+数字+記号からなるランダムパスワードを生成する。
// punctuationが空の場合はDefaultPunctuationを使う。
// 文字クラスごとの最低文字数要求はなく、結合アルファベット上の
// 一様ランダム選択のみ行う（意図した仕様）。
func Password(length int, punctuation string) (string, error) {
	if punctuation == "" {
		punctuation = DefaultPunctuation
	}
	return randomString(length, TailAlphabet+punctuation)
}

// randomString はalphabetからの一様ランダム選択でlength文字の文字列を生成する。
func randomString(length int, alphabet string) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("length must be >= 1, got %d", length)
	}
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
