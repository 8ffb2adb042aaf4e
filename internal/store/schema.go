package store

import (
	"context"
	"fmt"
)

// SchemaReport はストアのテーブル存在確認の結果を表す。
type SchemaReport struct {
	RadCheck     bool // 必須
	RadReply     bool // 削除操作で使用（不在は許容）
	RadUserGroup bool // グループ有効時に必須
	UserInfo     bool // オプション
}

// CheckSchema は接続確認と各テーブルの存在確認を行う。
func (s *Store) CheckSchema(ctx context.Context) (*SchemaReport, error) {
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	m := s.db.WithContext(ctx).Migrator()
	return &SchemaReport{
		RadCheck:     m.HasTable(&RadCheck{}),
		RadReply:     m.HasTable(&RadReply{}),
		RadUserGroup: m.HasTable(&RadUserGroup{}),
		UserInfo:     m.HasTable(&UserInfo{}),
	}, nil
}

// Missing は必須テーブルのうち不在のものを返す。
// radusergroupはグループ割り当て有効時のみ必須になる。
func (r *SchemaReport) Missing(groupEnabled bool) []string {
	var missing []string
	if !r.RadCheck {
		missing = append(missing, "radcheck")
	}
	if groupEnabled && !r.RadUserGroup {
		missing = append(missing, "radusergroup")
	}
	return missing
}

// String は人間向けの要約を返す。
func (r *SchemaReport) String() string {
	present := func(ok bool) string {
		if ok {
			return "present"
		}
		return "missing"
	}
	return fmt.Sprintf("radcheck=%s radreply=%s radusergroup=%s userinfo=%s",
		present(r.RadCheck), present(r.RadReply), present(r.RadUserGroup), present(r.UserInfo))
}
