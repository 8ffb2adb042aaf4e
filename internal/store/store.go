// Package store はRADIUSユーザーストア（daloRADIUSスキーマ）への
// アクセスを提供する。MySQL/MariaDB・PostgreSQL・SQLiteを同一の
// コードで扱い、方言差はロック取得にのみ現れる。
package store

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mcguer0/radius-rotate/internal/apperr"
	"github.com/mcguer0/radius-rotate/internal/rotate"
)

// Driver はサポートするDBエンジンを表す。
type Driver string

const (
	// DriverMySQL はMySQL/MariaDB（daloRADIUSの標準エンジン）
	DriverMySQL Driver = "mysql"
	// DriverPostgres はPostgreSQL
	DriverPostgres Driver = "postgres"
	// DriverSQLite はSQLite（テスト・単一ノード用、pure Go実装）
	DriverSQLite Driver = "sqlite"
)

// 調整処理の直列化に使うロック識別子。
// PostgreSQLはアドバイザリロックのキー、MySQLはGET_LOCKの名前。
const (
	advisoryLockKey  = 0x72726f74 // "rrot"
	mysqlLockName    = "radius-rotate.reconcile"
	mysqlLockTimeout = 30 // 秒
)

// Config はストア接続設定を保持する。
type Config struct {
	Driver Driver
	DSN    string
}

// Store はGORMベースのアカウントストア。
// rotate.UnitOfWorkインターフェースを実装する。
type Store struct {
	db     *gorm.DB
	driver Driver
}

// Open はストアへの接続を開く。
func Open(cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", apperr.ErrStoreUnavailable, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}

	return &Store{db: db, driver: cfg.Driver}, nil
}

// Ping は接続の疎通を確認する。
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
	return nil
}

// Close は接続を閉じる。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate は必須テーブル（radcheck/radreply/radusergroup）を作成する。
// 本番のdaloRADIUSはスキーマを持っているため、テストと新規構築用。
// オプションのuserinfoは意図的に含めない。
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&RadCheck{}, &RadReply{}, &RadUserGroup{}); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
	return nil
}

// MigrateUserInfo はオプションのuserinfoテーブルを作成する。
func (s *Store) MigrateUserInfo() error {
	if err := s.db.AutoMigrate(&UserInfo{}); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
	return nil
}

// Run は調整処理の単位作業を単一トランザクションで実行する。
// ストア単位で実行を直列化するため、方言に応じたロックを取る:
//   - PostgreSQL: pg_advisory_xact_lock（トランザクション終了で自動解放）
//   - MySQL: 専用コネクション上のGET_LOCK（トランザクションを外側から括る）
//   - SQLite: 単一ライターのファイルロックに委ねる（フォールバック）
//
// dryRun=trueの場合、fnの読み書きは全て実行した上でロールバックする。
// fnが踏んだ制約違反やスキーマエラーは実行と同様に表面化する。
func (s *Store) Run(ctx context.Context, dryRun bool, fn func(rotate.Store) error) error {
	if s.driver == DriverMySQL {
		return s.runWithMySQLLock(ctx, dryRun, fn)
	}
	return s.runTx(ctx, dryRun, fn)
}

// runWithMySQLLock はGET_LOCKでトランザクション全体を括る。
// ロックはコミット/ロールバック後に同一コネクション上で解放される。
func (s *Store) runWithMySQLLock(ctx context.Context, dryRun bool, fn func(rotate.Store) error) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
	defer conn.Close()

	var acquired int
	row := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", mysqlLockName, mysqlLockTimeout)
	if err := row.Scan(&acquired); err != nil {
		return fmt.Errorf("%w: failed to acquire lock: %v", apperr.ErrTransactionFailed, err)
	}
	if acquired != 1 {
		return fmt.Errorf("%w: reconcile lock held by another invocation", apperr.ErrTransactionFailed)
	}
	defer conn.ExecContext(ctx, "SELECT RELEASE_LOCK(?)", mysqlLockName)

	return s.runTx(ctx, dryRun, fn)
}

// runTx はトランザクションを張ってfnを実行する。
func (s *Store) runTx(ctx context.Context, dryRun bool, fn func(rotate.Store) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if s.driver == DriverPostgres {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryLockKey).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: failed to acquire advisory lock: %v", apperr.ErrTransactionFailed, err)
		}
	}

	if err := fn(&session{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if dryRun {
		// 書き込みは実行済み、ここで破棄する
		if err := tx.Rollback().Error; err != nil {
			return fmt.Errorf("%w: dry-run rollback failed: %v", apperr.ErrTransactionFailed, err)
		}
		return nil
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrTransactionFailed, err)
	}
	return nil
}
