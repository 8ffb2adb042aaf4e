package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mcguer0/radius-rotate/internal/apperr"
	"github.com/mcguer0/radius-rotate/internal/expiry"
	"github.com/mcguer0/radius-rotate/internal/model"
)

// AccountInfo は管理操作向けのアカウント要約を表す。
type AccountInfo struct {
	Username   string
	Expiration string // Expiration属性値（未設定なら空）
}

// ListAccounts は指定prefixのアカウント一覧を失効日時付きで返す。
func (s *Store) ListAccounts(ctx context.Context, prefix string, position model.Position) ([]AccountInfo, error) {
	var rows []RadCheck
	err := s.db.WithContext(ctx).
		Where("attribute IN ?", []string{AttrPassword, AttrExpiration}).
		Order("username").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	expirations := make(map[string]string)
	var usernames []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		if prefix != "" && !position.Matches(row.Username, prefix) {
			continue
		}
		switch row.Attribute {
		case AttrExpiration:
			expirations[row.Username] = row.Value
		case AttrPassword:
			if _, ok := seen[row.Username]; !ok {
				seen[row.Username] = struct{}{}
				usernames = append(usernames, row.Username)
			}
		}
	}

	accounts := make([]AccountInfo, 0, len(usernames))
	for _, u := range usernames {
		accounts = append(accounts, AccountInfo{Username: u, Expiration: expirations[u]})
	}
	return accounts, nil
}

// DeleteAccount はアカウントを全テーブルから削除する。
// 存在しないオプションテーブル（userinfo等）は黙ってスキップする。
func (s *Store) DeleteAccount(ctx context.Context, username string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteEverywhere(tx, username)
	})
}

// deleteEverywhere はトランザクション内でusernameの全行を消す。
func deleteEverywhere(tx *gorm.DB, username string) error {
	targets := []interface{}{&RadCheck{}, &RadReply{}, &RadUserGroup{}, &UserInfo{}}
	for _, target := range targets {
		if !tx.Migrator().HasTable(target) {
			continue
		}
		if err := tx.Where("username = ?", username).Delete(target).Error; err != nil {
			return fmt.Errorf("failed to delete rows: %w", err)
		}
	}
	return nil
}

// SetExpiration はアカウントの失効日時をmonthsヶ月後に設定する。
// months <= 0 は即時失効（前日の日時）を意味する。
// アカウントが存在しない場合はErrAccountNotFoundを返す。
func (s *Store) SetExpiration(ctx context.Context, username string, months int) (string, error) {
	value := expiry.InMonths(months)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&RadCheck{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", apperr.ErrAccountNotFound, username)
		}

		res := tx.Model(&RadCheck{}).
			Where("username = ? AND attribute = ?", username, AttrExpiration).
			Update("value", value)
		if res.Error != nil {
			return fmt.Errorf("failed to update expiration: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			row := RadCheck{Username: username, Attribute: AttrExpiration, Op: OpAssign, Value: value}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert expiration row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// DeleteExpired は指定prefixの失効済みアカウントを削除し、
// 削除したusername一覧を返す。全削除は単一トランザクションで行う。
func (s *Store) DeleteExpired(ctx context.Context, prefix string, position model.Position) ([]string, error) {
	var rows []RadCheck
	err := s.db.WithContext(ctx).
		Where("attribute = ?", AttrExpiration).
		Order("username").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expirations: %w", err)
	}

	now := time.Now()
	var expired []string
	for _, row := range rows {
		if prefix != "" && !position.Matches(row.Username, prefix) {
			continue
		}
		if expiry.Expired(row.Value, now) {
			expired = append(expired, row.Username)
		}
	}
	if len(expired) == 0 {
		return nil, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, username := range expired {
			if err := deleteEverywhere(tx, username); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}
