package rotate

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_store.go -package=mocks

import (
	"context"

	"github.com/mcguer0/radius-rotate/internal/model"
)

// Store は1回の調整実行の中で使うアカウントストアの操作集合を定義する。
// 実装はUnitOfWorkが張ったトランザクションの中で呼ばれる。
type Store interface {
	// ListUsernames は指定prefixに一致するアカウントのusername一覧を返す
	ListUsernames(ctx context.Context, prefix string, position model.Position) ([]string, error)
	// UsernameExists はusernameが既に存在するかを返す
	UsernameExists(ctx context.Context, username string) (bool, error)
	// InsertAccount は新規アカウント（パスワード・グループ含む）を挿入する
	InsertAccount(ctx context.Context, account model.Account) error
	// UpdatePassword は既存アカウントのパスワードを更新する
	UpdatePassword(ctx context.Context, username, password string) error
	// EnsureGroup はグループメンバーシップ行の存在を保証する
	EnsureGroup(ctx context.Context, username, group string) error
	// InsertProfile はuserinfo行をベストエフォートで挿入する。
	// テーブルが存在しない場合はErrOptionalSchemaMissingを返す
	InsertProfile(ctx context.Context, username string) error
}

// UnitOfWork は1回の実行の全書き込みを単一のトランザクション境界で
// 実行する。dryRun=trueの場合も同一の読み書きを実行した上で、境界で
// 全て破棄する（エラー検出のため書き込み自体は試行される）。
// 実装はストア単位で調整処理を直列化する（アドバイザリロック等）。
type UnitOfWork interface {
	Run(ctx context.Context, dryRun bool, fn func(Store) error) error
}
