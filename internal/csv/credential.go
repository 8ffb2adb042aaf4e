// Package csv は資格情報のCSVエクスポートを提供する。
package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mcguer0/radius-rotate/internal/rotate"
)

// CredentialCSVHeader は資格情報CSVのヘッダー行
var CredentialCSVHeader = []string{"prefix", "username", "password", "action"}

// WriteCredentialCSV は調整で発行された資格情報をCSV形式で書き込む。
// 出力順は作成分、ローテーション分の順で、入力の並びを保つ。
func WriteCredentialCSV(w io.Writer, creds []rotate.Credential) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	// ヘッダー書き込み
	if err := writer.Write(CredentialCSVHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// データ書き込み
	for _, cred := range creds {
		record := []string{cred.Prefix, cred.Username, cred.Password, string(cred.Action)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record for %s: %w", cred.Username, err)
		}
	}

	return writer.Error()
}
