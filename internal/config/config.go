// Package config はアプリケーション設定の読み込みを提供する。
// 優先順位は「既定値 < config.json < RADIUS_*環境変数」で、環境変数が勝つ。
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/kelseyhightower/envconfig"

	"github.com/mcguer0/radius-rotate/internal/apperr"
	"github.com/mcguer0/radius-rotate/internal/model"
)

// DefaultFile は既定の設定ファイル名。
const DefaultFile = "config.json"

// PolicyConfig はprefix単位のアクセスポリシー設定を表す。
// ポリシーは構造を持つため設定ファイルからのみ読み込む（環境変数なし）。
type PolicyConfig struct {
	Prefix          string   `json:"prefix"`
	Group           string   `json:"group,omitempty"`
	Networks        []string `json:"networks,omitempty"`
	NASPatterns     []string `json:"nas_patterns,omitempty"`
	StationPatterns []string `json:"station_patterns,omitempty"`
}

// Config はアプリケーション設定を保持する。
type Config struct {
	// DB接続設定
	DBDriver  string `json:"RADIUS_DB_DRIVER" envconfig:"RADIUS_DB_DRIVER"` // mysql|postgres|sqlite
	DBHost    string `json:"RADIUS_DB_HOST" envconfig:"RADIUS_DB_HOST"`
	DBPort    int    `json:"RADIUS_DB_PORT" envconfig:"RADIUS_DB_PORT"`
	DBUser    string `json:"RADIUS_DB_USER" envconfig:"RADIUS_DB_USER"`
	DBPass    string `json:"RADIUS_DB_PASS" envconfig:"RADIUS_DB_PASS"`
	DBName    string `json:"RADIUS_DB_NAME" envconfig:"RADIUS_DB_NAME"`
	DBSSLMode string `json:"RADIUS_DB_SSLMODE" envconfig:"RADIUS_DB_SSLMODE"` // postgresのみ
	DBPath    string `json:"RADIUS_DB_PATH" envconfig:"RADIUS_DB_PATH"`       // sqliteのみ

	// prefix/アカウントプール設定
	Prefixes        []string `json:"RADIUS_PREFIXES" envconfig:"RADIUS_PREFIXES"`
	SinglePrefix    string   `json:"RADIUS_PREFIX,omitempty" envconfig:"RADIUS_PREFIX"` // 旧スクリプト互換（単一prefix）
	UsePrefix       bool     `json:"RADIUS_USE_PREFIX" envconfig:"RADIUS_USE_PREFIX"`
	PrefixPosition  string   `json:"RADIUS_PREFIX_POSITION" envconfig:"RADIUS_PREFIX_POSITION"` // start|end
	CountPerPrefix  int      `json:"RADIUS_COUNT_PER_PREFIX" envconfig:"RADIUS_COUNT_PER_PREFIX"`
	UsernameTailLen int      `json:"RADIUS_USERNAME_TAIL_LEN" envconfig:"RADIUS_USERNAME_TAIL_LEN"`
	PasswordLen     int      `json:"RADIUS_PASSWORD_LEN" envconfig:"RADIUS_PASSWORD_LEN"`
	PassPunct       string   `json:"RADIUS_PASS_PUNCT,omitempty" envconfig:"RADIUS_PASS_PUNCT"` // 空なら既定の記号セット

	// グループ/メタデータ設定
	EnableGroup  bool   `json:"RADIUS_ENABLE_GROUP" envconfig:"RADIUS_ENABLE_GROUP"`
	GroupName    string `json:"RADIUS_GROUP_NAME" envconfig:"RADIUS_GROUP_NAME"`
	FillUserInfo bool   `json:"RADIUS_FILL_USERINFO" envconfig:"RADIUS_FILL_USERINFO"`

	// ポリシー設定
	Policies         []PolicyConfig `json:"RADIUS_POLICIES,omitempty"`
	EnforcedPrefixes []string       `json:"RADIUS_ENFORCED_PREFIXES,omitempty" envconfig:"RADIUS_ENFORCED_PREFIXES"`

	// 接続確認（probe）設定
	ProbeAddr   string `json:"RADIUS_PROBE_ADDR,omitempty" envconfig:"RADIUS_PROBE_ADDR"`
	ProbeSecret string `json:"RADIUS_PROBE_SECRET,omitempty" envconfig:"RADIUS_PROBE_SECRET"`
	ProbeNASID  string `json:"RADIUS_PROBE_NAS_ID,omitempty" envconfig:"RADIUS_PROBE_NAS_ID"`

	// ログ設定
	LogMaskSecrets bool   `json:"RADIUS_LOG_MASK" envconfig:"RADIUS_LOG_MASK"`
	AuditLogPath   string `json:"RADIUS_AUDIT_LOG,omitempty" envconfig:"RADIUS_AUDIT_LOG"`
}

// Default は既定値の設定を返す。
func Default() *Config {
	return &Config{
		DBDriver:        "mysql",
		DBHost:          "127.0.0.1",
		DBPort:          3306,
		DBUser:          "username",
		DBPass:          "pass",
		DBName:          "db",
		DBSSLMode:       "disable",
		UsePrefix:       true,
		PrefixPosition:  string(model.PositionStart),
		CountPerPrefix:  1,
		UsernameTailLen: 32,
		PasswordLen:     64,
		EnableGroup:     true,
		GroupName:       "default",
		FillUserInfo:    true,
		LogMaskSecrets:  true,
	}
}

// Load は既定値→設定ファイル→環境変数の順に設定を構築する。
// ファイルが存在しない場合はスキップする（エラーにしない）。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFile
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	// 旧スクリプト互換: 単一prefix指定のフォールバック
	if len(cfg.Prefixes) == 0 && strings.TrimSpace(cfg.SinglePrefix) != "" {
		cfg.Prefixes = []string{strings.TrimSpace(cfg.SinglePrefix)}
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// Save は設定をJSONとしてファイルに書き出す。
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultFile
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Validate は設定値のバリデーションを行い、全ての問題を返す。
func (c *Config) Validate() []error {
	var errs []error
	add := func(field, message string) {
		errs = append(errs, apperr.NewValidationError(field, message))
	}

	switch c.DBDriver {
	case "mysql", "postgres":
		if strings.TrimSpace(c.DBHost) == "" {
			add("RADIUS_DB_HOST", "must not be empty")
		}
		if c.DBPort < 1 || c.DBPort > 65535 {
			add("RADIUS_DB_PORT", "must be in range 1..65535")
		}
		if strings.TrimSpace(c.DBUser) == "" {
			add("RADIUS_DB_USER", "must not be empty")
		}
		if strings.TrimSpace(c.DBName) == "" {
			add("RADIUS_DB_NAME", "must not be empty")
		}
	case "sqlite":
		if strings.TrimSpace(c.DBPath) == "" {
			add("RADIUS_DB_PATH", "must not be empty for sqlite")
		}
	default:
		add("RADIUS_DB_DRIVER", "must be one of mysql, postgres, sqlite")
	}

	if c.UsePrefix {
		if len(c.Prefixes) == 0 {
			add("RADIUS_PREFIXES", "must not be empty when prefixes are enabled")
		}
		for _, p := range c.Prefixes {
			if strings.TrimSpace(p) == "" {
				add("RADIUS_PREFIXES", "contains a blank prefix")
				continue
			}
			if strings.IndexFunc(p, unicode.IsSpace) >= 0 {
				add("RADIUS_PREFIXES", fmt.Sprintf("prefix %q contains whitespace", p))
			}
		}
	}

	if !model.Position(c.PrefixPosition).Valid() {
		add("RADIUS_PREFIX_POSITION", "must be 'start' or 'end'")
	}
	if c.CountPerPrefix < 1 {
		add("RADIUS_COUNT_PER_PREFIX", "must be >= 1")
	}
	if c.UsernameTailLen < 1 || c.UsernameTailLen > 128 {
		add("RADIUS_USERNAME_TAIL_LEN", "must be in range 1..128")
	}
	if c.PasswordLen < 8 || c.PasswordLen > 256 {
		add("RADIUS_PASSWORD_LEN", "must be in range 8..256")
	}
	if c.EnableGroup && strings.TrimSpace(c.GroupName) == "" {
		add("RADIUS_GROUP_NAME", "must not be empty when group assignment is enabled")
	}

	for _, p := range c.Policies {
		if strings.TrimSpace(p.Prefix) == "" {
			add("RADIUS_POLICIES", "policy without a prefix")
		}
	}

	return errs
}

// Position はprefix位置設定を返す。
func (c *Config) Position() model.Position {
	return model.Position(c.PrefixPosition)
}

// DSN は選択中のドライバ向けのDB接続文字列を返す。
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName, c.DBSSLMode)
	case "sqlite":
		return c.DBPath
	default:
		return ""
	}
}

// DesiredStates はprefixごとの望ましいアカウント数の列を返す。
// prefix未使用時はprefix空文字の1エントリになる。
func (c *Config) DesiredStates() []model.DesiredState {
	if !c.UsePrefix {
		return []model.DesiredState{{Prefix: "", TargetCount: c.CountPerPrefix}}
	}
	states := make([]model.DesiredState, 0, len(c.Prefixes))
	for _, p := range c.Prefixes {
		states = append(states, model.DesiredState{Prefix: p, TargetCount: c.CountPerPrefix})
	}
	return states
}

// AccessPolicies は設定からポリシーモデルの列を構築する。
func (c *Config) AccessPolicies() []model.AccessPolicy {
	policies := make([]model.AccessPolicy, 0, len(c.Policies))
	for _, p := range c.Policies {
		policies = append(policies, model.AccessPolicy{
			Prefix:          p.Prefix,
			Group:           p.Group,
			Networks:        p.Networks,
			NASPatterns:     p.NASPatterns,
			StationPatterns: p.StationPatterns,
		})
	}
	return policies
}
