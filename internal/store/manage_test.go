package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcguer0/radius-rotate/internal/apperr"
	"github.com/mcguer0/radius-rotate/internal/expiry"
	"github.com/mcguer0/radius-rotate/internal/model"
)

func TestListAccounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertAccount(t, s, model.Account{Username: "wifi-abc", Password: "p1"})
	insertAccount(t, s, model.Account{Username: "wifi-def", Password: "p2"})
	insertAccount(t, s, model.Account{Username: "corp_xyz", Password: "p3"})

	if _, err := s.SetExpiration(ctx, "wifi-abc", 1); err != nil {
		t.Fatalf("SetExpiration failed: %v", err)
	}

	accounts, err := s.ListAccounts(ctx, "wifi-", model.PositionStart)
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(accounts))
	}
	if accounts[0].Username != "wifi-abc" || accounts[0].Expiration == "" {
		t.Errorf("accounts[0] = %+v, want wifi-abc with expiration", accounts[0])
	}
	if accounts[1].Username != "wifi-def" || accounts[1].Expiration != "" {
		t.Errorf("accounts[1] = %+v, want wifi-def without expiration", accounts[1])
	}
}

func TestSetExpiration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertAccount(t, s, model.Account{Username: "wifi-abc", Password: "p"})

	value, err := s.SetExpiration(ctx, "wifi-abc", 2)
	if err != nil {
		t.Fatalf("SetExpiration failed: %v", err)
	}
	parsed, ok := expiry.Parse(value)
	if !ok {
		t.Fatalf("expiration %q should be parseable", value)
	}
	if !parsed.After(time.Now()) {
		t.Errorf("expiration %q should be in the future", value)
	}

	// 2回目は更新（行が増えない）
	if _, err := s.SetExpiration(ctx, "wifi-abc", 3); err != nil {
		t.Fatalf("second SetExpiration failed: %v", err)
	}
	var count int64
	s.db.Model(&RadCheck{}).Where("username = ? AND attribute = ?", "wifi-abc", AttrExpiration).Count(&count)
	if count != 1 {
		t.Errorf("expiration rows = %d, want 1", count)
	}
}

func TestSetExpirationImmediate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertAccount(t, s, model.Account{Username: "wifi-abc", Password: "p"})

	// months=0 は即時失効
	value, err := s.SetExpiration(ctx, "wifi-abc", 0)
	if err != nil {
		t.Fatalf("SetExpiration failed: %v", err)
	}
	if !expiry.Expired(value, time.Now()) {
		t.Errorf("expiration %q should already be expired", value)
	}
}

func TestSetExpirationNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SetExpiration(context.Background(), "nobody", 1)
	if !errors.Is(err, apperr.ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.MigrateUserInfo(); err != nil {
		t.Fatalf("MigrateUserInfo failed: %v", err)
	}

	insertAccount(t, s, model.Account{Username: "wifi-abc", Password: "p", Group: "default"})
	s.db.Create(&UserInfo{Username: "wifi-abc", CreationDate: time.Now(), CreationBy: "test"})

	if err := s.DeleteAccount(ctx, "wifi-abc"); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	var count int64
	s.db.Model(&RadCheck{}).Where("username = ?", "wifi-abc").Count(&count)
	if count != 0 {
		t.Error("radcheck rows should be gone")
	}
	s.db.Model(&RadUserGroup{}).Where("username = ?", "wifi-abc").Count(&count)
	if count != 0 {
		t.Error("radusergroup rows should be gone")
	}
	s.db.Model(&UserInfo{}).Where("username = ?", "wifi-abc").Count(&count)
	if count != 0 {
		t.Error("userinfo rows should be gone")
	}
}

func TestDeleteAccountMissingOptionalTable(t *testing.T) {
	// userinfoが無くても削除は成功する
	s := newTestStore(t)
	insertAccount(t, s, model.Account{Username: "wifi-abc", Password: "p"})

	if err := s.DeleteAccount(context.Background(), "wifi-abc"); err != nil {
		t.Fatalf("DeleteAccount should tolerate missing userinfo: %v", err)
	}
}

func TestDeleteExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertAccount(t, s, model.Account{Username: "wifi-old", Password: "p1"})
	insertAccount(t, s, model.Account{Username: "wifi-live", Password: "p2"})
	insertAccount(t, s, model.Account{Username: "corp_old", Password: "p3"})

	// wifi-oldとcorp_oldを失効させる
	if _, err := s.SetExpiration(ctx, "wifi-old", 0); err != nil {
		t.Fatalf("SetExpiration failed: %v", err)
	}
	if _, err := s.SetExpiration(ctx, "corp_old", 0); err != nil {
		t.Fatalf("SetExpiration failed: %v", err)
	}
	if _, err := s.SetExpiration(ctx, "wifi-live", 12); err != nil {
		t.Fatalf("SetExpiration failed: %v", err)
	}

	// wifi-のみ対象
	deleted, err := s.DeleteExpired(ctx, "wifi-", model.PositionStart)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "wifi-old" {
		t.Errorf("deleted = %v, want [wifi-old]", deleted)
	}

	accounts, err := s.ListAccounts(ctx, "", model.PositionStart)
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("remaining accounts = %d, want 2", len(accounts))
	}
}

func TestDeleteExpiredNone(t *testing.T) {
	s := newTestStore(t)
	deleted, err := s.DeleteExpired(context.Background(), "wifi-", model.PositionStart)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if len(deleted) != 0 {
		t.Errorf("deleted = %v, want none", deleted)
	}
}
