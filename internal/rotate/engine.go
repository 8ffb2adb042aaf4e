// Package rotate はアカウントプールの調整エンジンを提供する。
// prefixごとに「不足分の新規作成 + 全アカウントの無条件パスワード
// ローテーション」を単一のトランザクションで実行する。
package rotate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcguer0/radius-rotate/internal/apperr"
	"github.com/mcguer0/radius-rotate/internal/credential"
	"github.com/mcguer0/radius-rotate/internal/logging"
	"github.com/mcguer0/radius-rotate/internal/model"
)

// maxUsernameAttempts はユニークusername生成のリトライ上限。
// 上限超過はErrGenerationExhaustedとしてそのprefixの充足を打ち切る。
const maxUsernameAttempts = 5

// Action は調整で行われたアカウント操作の種別を表す。
type Action string

const (
	// ActionCreated は新規作成
	ActionCreated Action = "created"
	// ActionRotated はパスワードローテーション
	ActionRotated Action = "rotated"
)

// Credential は調整で発行された資格情報1件を表す。
type Credential struct {
	Prefix   string // 所属prefix
	Username string
	Password string // 実行後の最終パスワード
	Action   Action
}

// Result は1回の調整実行の結果を表す。
type Result struct {
	RunID    string       // 実行ID（監査ログと突き合わせる）
	DryRun   bool         // dry-run実行だったか
	Created  []Credential // 新規作成されたアカウント
	Rotated  []Credential // ローテーションされた既存アカウント
	Failures []error      // prefix単位の失敗（他prefixの処理は継続済み）
}

// Settings は調整エンジンの動作設定を表す。
type Settings struct {
	Desired      []model.DesiredState // prefixごとの目標アカウント数
	Position     model.Position       // usernameでのprefix位置
	TailLen      int                  // usernameランダム部の長さ
	PasswordLen  int                  // パスワード長
	Punctuation  string               // パスワード記号セット（空なら既定）
	EnableGroup  bool                 // グループ割り当てを行うか
	GroupName    string               // 割り当てるグループ名
	FillUserInfo bool                 // userinfo行をベストエフォートで埋めるか
}

// Engine はアカウントプールの調整エンジン。
type Engine struct {
	uow      UnitOfWork
	settings Settings
}

// NewEngine は新しいEngineを生成する。
func NewEngine(uow UnitOfWork, settings Settings) *Engine {
	return &Engine{
		uow:      uow,
		settings: settings,
	}
}

// Reconcile は全prefixの調整を単一のトランザクションで実行する。
// dryRun=trueの場合も同一の読み書きを行い、コミットだけを行わない。
// トランザクション失敗時は全書き込みがロールバックされ、エラーを返す。
func (e *Engine) Reconcile(ctx context.Context, dryRun bool) (*Result, error) {
	result := &Result{
		RunID:  uuid.NewString(),
		DryRun: dryRun,
	}

	slog.Info("調整実行開始",
		logging.WithRunID(result.RunID),
		logging.WithEventID("RECONCILE_START"),
		logging.WithDryRun(dryRun),
		logging.WithCount(len(e.settings.Desired)),
	)

	err := e.uow.Run(ctx, dryRun, func(s Store) error {
		for _, desired := range e.settings.Desired {
			if err := e.reconcilePrefix(ctx, s, desired, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("調整実行失敗、全書き込みをロールバック",
			logging.WithRunID(result.RunID),
			logging.WithEventID("RECONCILE_ABORT"),
			logging.WithError(err),
		)
		return nil, err
	}

	slog.Info("調整実行完了",
		logging.WithRunID(result.RunID),
		logging.WithEventID("RECONCILE_DONE"),
		logging.WithDryRun(dryRun),
		slog.Int("created", len(result.Created)),
		slog.Int("rotated", len(result.Rotated)),
		slog.Int("failures", len(result.Failures)),
	)
	return result, nil
}

// reconcilePrefix は単一prefixの調整を行う。
// 手順: 現在数の把握 → 不足分の挿入 → 全件ローテーション →
// グループ/メタデータ補完。ErrGenerationExhaustedはそのprefixの
// 充足だけを打ち切り、ストアの失敗はトランザクション全体を落とす。
func (e *Engine) reconcilePrefix(ctx context.Context, s Store, desired model.DesiredState, result *Result) error {
	existing, err := s.ListUsernames(ctx, desired.Prefix, e.settings.Position)
	if err != nil {
		return fmt.Errorf("failed to list accounts for prefix %q: %w", desired.Prefix, err)
	}

	shortfall := desired.Shortfall(len(existing))
	slog.Info("prefix調整",
		logging.WithRunID(result.RunID),
		logging.WithEventID("PREFIX_PLAN"),
		logging.WithPrefix(desired.Prefix),
		slog.Int("current", len(existing)),
		slog.Int("target", desired.TargetCount),
		slog.Int("shortfall", shortfall),
	)

	// 不足分の新規作成。usernameの衝突リトライが尽きた場合は
	// このprefixだけ打ち切って報告し、他prefixは継続する。
	createdIdx := make(map[string]int)
	for i := 0; i < shortfall; i++ {
		account, err := e.newAccount(ctx, s, desired.Prefix)
		if err != nil {
			if errors.Is(err, apperr.ErrGenerationExhausted) {
				result.Failures = append(result.Failures, apperr.NewPrefixError(desired.Prefix, err))
				slog.Warn("prefix充足を打ち切り",
					logging.WithRunID(result.RunID),
					logging.WithEventID("PREFIX_FILL_ABORT"),
					logging.WithPrefix(desired.Prefix),
					logging.WithError(err),
				)
				break
			}
			return err
		}
		if err := s.InsertAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to insert account %q: %w", account.Username, err)
		}
		createdIdx[account.Username] = len(result.Created)
		result.Created = append(result.Created, Credential{
			Prefix:   desired.Prefix,
			Username: account.Username,
			Password: account.Password,
			Action:   ActionCreated,
		})
		slog.Info("アカウント作成",
			logging.WithRunID(result.RunID),
			logging.WithEventID("ACCOUNT_CREATED"),
			logging.WithPrefix(desired.Prefix),
			logging.WithUsername(account.Username),
		)
	}

	// 全件ローテーション（直前に挿入した分も含む、毎回無条件）。
	all, err := s.ListUsernames(ctx, desired.Prefix, e.settings.Position)
	if err != nil {
		return fmt.Errorf("failed to re-list accounts for prefix %q: %w", desired.Prefix, err)
	}
	for _, username := range all {
		password, err := credential.Password(e.settings.PasswordLen, e.settings.Punctuation)
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
		if err := s.UpdatePassword(ctx, username, password); err != nil {
			return fmt.Errorf("failed to rotate password for %q: %w", username, err)
		}
		if idx, ok := createdIdx[username]; ok {
			// 作成直後のローテーション分は作成エントリの最終パスワードに反映
			result.Created[idx].Password = password
		} else {
			result.Rotated = append(result.Rotated, Credential{
				Prefix:   desired.Prefix,
				Username: username,
				Password: password,
				Action:   ActionRotated,
			})
		}

		if e.settings.EnableGroup {
			if err := s.EnsureGroup(ctx, username, e.settings.GroupName); err != nil {
				return fmt.Errorf("failed to ensure group for %q: %w", username, err)
			}
		}
	}
	slog.Info("パスワードローテーション完了",
		logging.WithRunID(result.RunID),
		logging.WithEventID("PASSWORDS_ROTATED"),
		logging.WithPrefix(desired.Prefix),
		logging.WithCount(len(all)),
	)

	// userinfo補完はベストエフォート。テーブル不在は黙って許容する。
	if e.settings.FillUserInfo {
		for username := range createdIdx {
			if err := s.InsertProfile(ctx, username); err != nil {
				if errors.Is(err, apperr.ErrOptionalSchemaMissing) {
					continue
				}
				return fmt.Errorf("failed to fill profile for %q: %w", username, err)
			}
		}
	}

	return nil
}

// newAccount はユニークなusernameを持つ新規アカウントを生成する。
// 衝突リトライがmaxUsernameAttempts回で尽きた場合は
// ErrGenerationExhaustedを返す。
func (e *Engine) newAccount(ctx context.Context, s Store, prefix string) (model.Account, error) {
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username, err := credential.Username(prefix, e.settings.TailLen, e.settings.Position)
		if err != nil {
			return model.Account{}, fmt.Errorf("failed to generate username: %w", err)
		}
		exists, err := s.UsernameExists(ctx, username)
		if err != nil {
			return model.Account{}, fmt.Errorf("failed to check username %q: %w", username, err)
		}
		if exists {
			continue
		}

		password, err := credential.Password(e.settings.PasswordLen, e.settings.Punctuation)
		if err != nil {
			return model.Account{}, fmt.Errorf("failed to generate password: %w", err)
		}
		account := model.Account{
			Username: username,
			Password: password,
			Prefix:   prefix,
		}
		if e.settings.EnableGroup {
			account.Group = e.settings.GroupName
		}
		return account, nil
	}
	return model.Account{}, fmt.Errorf("%w: %d attempts for prefix %q",
		apperr.ErrGenerationExhausted, maxUsernameAttempts, prefix)
}
