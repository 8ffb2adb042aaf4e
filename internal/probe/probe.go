// Package probe は発行済み資格情報の疎通確認を提供する。
// PAPのAccess-RequestをRADIUSサーバーに送り、Accept/Rejectを判定する。
package probe

import (
	"context"
	"fmt"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"

	"github.com/mcguer0/radius-rotate/internal/apperr"
)

// Prober はRADIUSサーバーへのPAP疎通確認クライアント。
type Prober struct {
	addr   string
	secret string
	nasID  string
}

// Result は疎通確認1回の結果を表す。
type Result struct {
	Code     radius.Code // サーバーの応答コード
	Accepted bool        // Access-Acceptだったか
}

// NewProber は新しいProberを生成する。
// nasIDが空の場合、NAS-Identifier属性は付与しない。
func NewProber(addr, secret, nasID string) *Prober {
	return &Prober{
		addr:   addr,
		secret: secret,
		nasID:  nasID,
	}
}

// Check は指定された資格情報でAccess-Requestを送信し、応答を判定する。
// タイムアウトはctxで制御する。応答が得られない場合はエラーを返す。
func (p *Prober) Check(ctx context.Context, username, password string) (Result, error) {
	packet := radius.New(radius.CodeAccessRequest, []byte(p.secret))
	if err := rfc2865.UserName_SetString(packet, username); err != nil {
		return Result{}, fmt.Errorf("failed to set User-Name: %w", err)
	}
	if err := rfc2865.UserPassword_SetString(packet, password); err != nil {
		return Result{}, fmt.Errorf("failed to set User-Password: %w", err)
	}
	if p.nasID != "" {
		if err := rfc2865.NASIdentifier_SetString(packet, p.nasID); err != nil {
			return Result{}, fmt.Errorf("failed to set NAS-Identifier: %w", err)
		}
	}

	response, err := radius.Exchange(ctx, packet, p.addr)
	if err != nil {
		return Result{}, fmt.Errorf("%w: exchange with %s failed: %v", apperr.ErrProbeFailed, p.addr, err)
	}

	return Result{
		Code:     response.Code,
		Accepted: response.Code == radius.CodeAccessAccept,
	}, nil
}
