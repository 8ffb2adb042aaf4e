package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mcguer0/radius-rotate/internal/apperr"
	"github.com/mcguer0/radius-rotate/internal/model"
)

// session はrotate.Storeインターフェースの実装。
// Store.Runが張ったトランザクションの中でのみ使われる。
type session struct {
	tx *gorm.DB
}

// ListUsernames は指定prefixに一致するアカウントのusername一覧を返す。
// prefix中の '%' や '_' がLIKEワイルドカードとして効かないよう、
// 取得後にGo側で照合する（方言ごとのESCAPE差異も避けられる）。
func (s *session) ListUsernames(ctx context.Context, prefix string, position model.Position) ([]string, error) {
	var usernames []string
	err := s.tx.WithContext(ctx).
		Model(&RadCheck{}).
		Where("attribute = ?", AttrPassword).
		Order("username").
		Pluck("username", &usernames).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list usernames: %w", err)
	}

	if prefix == "" {
		return usernames, nil
	}
	matched := usernames[:0]
	for _, u := range usernames {
		if position.Matches(u, prefix) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// UsernameExists はusernameのradcheck行が存在するかを返す。
func (s *session) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.tx.WithContext(ctx).
		Model(&RadCheck{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// InsertAccount は新規アカウントを挿入する。
// パスワード行と、グループ指定があればメンバーシップ行を書く。
func (s *session) InsertAccount(ctx context.Context, account model.Account) error {
	row := RadCheck{
		Username:  account.Username,
		Attribute: AttrPassword,
		Op:        OpAssign,
		Value:     account.Password,
	}
	if err := s.tx.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert radcheck row: %w", err)
	}

	if account.Group != "" {
		membership := RadUserGroup{
			Username:  account.Username,
			GroupName: account.Group,
			Priority:  groupPriority,
		}
		if err := s.tx.WithContext(ctx).Create(&membership).Error; err != nil {
			return fmt.Errorf("failed to insert radusergroup row: %w", err)
		}
	}
	return nil
}

// UpdatePassword は既存アカウントのパスワードを更新する。
// パスワード行がない場合は挿入する（過去に手で作られた行への耐性）。
func (s *session) UpdatePassword(ctx context.Context, username, password string) error {
	res := s.tx.WithContext(ctx).
		Model(&RadCheck{}).
		Where("username = ? AND attribute = ?", username, AttrPassword).
		Update("value", password)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		row := RadCheck{
			Username:  username,
			Attribute: AttrPassword,
			Op:        OpAssign,
			Value:     password,
		}
		if err := s.tx.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert password row: %w", err)
		}
	}
	return nil
}

// EnsureGroup はグループメンバーシップ行の存在を保証する。
func (s *session) EnsureGroup(ctx context.Context, username, group string) error {
	var count int64
	err := s.tx.WithContext(ctx).
		Model(&RadUserGroup{}).
		Where("username = ? AND groupname = ?", username, group).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check group membership: %w", err)
	}
	if count > 0 {
		return nil
	}
	membership := RadUserGroup{Username: username, GroupName: group, Priority: groupPriority}
	if err := s.tx.WithContext(ctx).Create(&membership).Error; err != nil {
		return fmt.Errorf("failed to insert group membership: %w", err)
	}
	return nil
}

// InsertProfile はuserinfo行をベストエフォートで挿入する。
// テーブルが存在しない場合はErrOptionalSchemaMissingを返す。
func (s *session) InsertProfile(ctx context.Context, username string) error {
	if !s.tx.WithContext(ctx).Migrator().HasTable(&UserInfo{}) {
		return fmt.Errorf("%w: userinfo", apperr.ErrOptionalSchemaMissing)
	}
	profile := UserInfo{
		Username:     username,
		CreationDate: time.Now().UTC(),
		CreationBy:   "radius-rotate",
	}
	if err := s.tx.WithContext(ctx).Create(&profile).Error; err != nil {
		return fmt.Errorf("failed to insert userinfo row: %w", err)
	}
	return nil
}
