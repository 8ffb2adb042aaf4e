package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcguer0/radius-rotate/internal/model"
)

// clearEnv はテストに影響するRADIUS_*環境変数を消す。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "RADIUS_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RADIUS_PREFIXES", "wifi-")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBDriver != "mysql" {
		t.Errorf("DBDriver = %q, want mysql", cfg.DBDriver)
	}
	if cfg.CountPerPrefix != 1 {
		t.Errorf("CountPerPrefix = %d, want 1", cfg.CountPerPrefix)
	}
	if cfg.UsernameTailLen != 32 || cfg.PasswordLen != 64 {
		t.Errorf("lengths = %d/%d, want 32/64", cfg.UsernameTailLen, cfg.PasswordLen)
	}
	if !cfg.EnableGroup || cfg.GroupName != "default" {
		t.Errorf("group defaults = %v/%q, want true/default", cfg.EnableGroup, cfg.GroupName)
	}
	if !cfg.LogMaskSecrets {
		t.Error("log masking should default to enabled")
	}
}

func TestLoadFileOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "RADIUS_DB_HOST": "db.internal",
  "RADIUS_DB_PORT": 3307,
  "RADIUS_PREFIXES": ["wifi-", "corp_"],
  "RADIUS_COUNT_PER_PREFIX": 3,
  "RADIUS_POLICIES": [
    {"prefix": "wifi-", "networks": ["10.0.0.0/24"], "nas_patterns": ["ap-1"]}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBHost != "db.internal" || cfg.DBPort != 3307 {
		t.Errorf("DB settings = %q:%d, want db.internal:3307", cfg.DBHost, cfg.DBPort)
	}
	if len(cfg.Prefixes) != 2 {
		t.Errorf("Prefixes = %v, want 2 entries", cfg.Prefixes)
	}
	if len(cfg.Policies) != 1 || cfg.Policies[0].Prefix != "wifi-" {
		t.Errorf("Policies = %+v, want 1 wifi- entry", cfg.Policies)
	}
	// ファイルにないキーは既定値のまま
	if cfg.DBDriver != "mysql" {
		t.Errorf("DBDriver = %q, want default mysql", cfg.DBDriver)
	}
}

func TestLoadEnvWins(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"RADIUS_DB_HOST": "from-file", "RADIUS_PREFIXES": ["wifi-"]}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("RADIUS_DB_HOST", "from-env")
	t.Setenv("RADIUS_PREFIXES", "corp_,guest-")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBHost != "from-env" {
		t.Errorf("DBHost = %q, env should win over file", cfg.DBHost)
	}
	if len(cfg.Prefixes) != 2 || cfg.Prefixes[0] != "corp_" {
		t.Errorf("Prefixes = %v, want [corp_ guest-]", cfg.Prefixes)
	}
}

func TestLoadSinglePrefixFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("RADIUS_PREFIX", "legacy-")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Prefixes) != 1 || cfg.Prefixes[0] != "legacy-" {
		t.Errorf("Prefixes = %v, want [legacy-]", cfg.Prefixes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"bad driver", func(c *Config) { c.DBDriver = "oracle" }, "RADIUS_DB_DRIVER"},
		{"port out of range", func(c *Config) { c.DBPort = 70000 }, "RADIUS_DB_PORT"},
		{"empty host", func(c *Config) { c.DBHost = " " }, "RADIUS_DB_HOST"},
		{"no prefixes", func(c *Config) { c.Prefixes = nil }, "RADIUS_PREFIXES"},
		{"prefix with whitespace", func(c *Config) { c.Prefixes = []string{"wi fi-"} }, "RADIUS_PREFIXES"},
		{"bad position", func(c *Config) { c.PrefixPosition = "middle" }, "RADIUS_PREFIX_POSITION"},
		{"count below one", func(c *Config) { c.CountPerPrefix = 0 }, "RADIUS_COUNT_PER_PREFIX"},
		{"tail too long", func(c *Config) { c.UsernameTailLen = 200 }, "RADIUS_USERNAME_TAIL_LEN"},
		{"password too short", func(c *Config) { c.PasswordLen = 4 }, "RADIUS_PASSWORD_LEN"},
		{"group enabled without name", func(c *Config) { c.GroupName = "" }, "RADIUS_GROUP_NAME"},
		{"policy without prefix", func(c *Config) { c.Policies = []PolicyConfig{{}} }, "RADIUS_POLICIES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Prefixes = []string{"wifi-"}
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate should report an error")
			}
			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.field) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error naming %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateOK(t *testing.T) {
	cfg := Default()
	cfg.Prefixes = []string{"wifi-", "corp_"}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("valid config should pass: %v", errs)
	}
}

func TestDSN(t *testing.T) {
	cfg := Default()
	cfg.DBUser, cfg.DBPass, cfg.DBName = "radius", "secret", "radiusdb"

	if got := cfg.DSN(); !strings.Contains(got, "radius:secret@tcp(127.0.0.1:3306)/radiusdb") {
		t.Errorf("mysql DSN = %q", got)
	}

	cfg.DBDriver = "postgres"
	cfg.DBPort = 5432
	if got := cfg.DSN(); !strings.Contains(got, "host=127.0.0.1 port=5432") || !strings.Contains(got, "sslmode=disable") {
		t.Errorf("postgres DSN = %q", got)
	}

	cfg.DBDriver = "sqlite"
	cfg.DBPath = "/tmp/radius.db"
	if got := cfg.DSN(); got != "/tmp/radius.db" {
		t.Errorf("sqlite DSN = %q", got)
	}
}

func TestDesiredStates(t *testing.T) {
	cfg := Default()
	cfg.Prefixes = []string{"wifi-", "corp_"}
	cfg.CountPerPrefix = 3

	states := cfg.DesiredStates()
	if len(states) != 2 {
		t.Fatalf("states = %d, want 2", len(states))
	}
	if states[0] != (model.DesiredState{Prefix: "wifi-", TargetCount: 3}) {
		t.Errorf("states[0] = %+v", states[0])
	}

	// prefix未使用時は空prefixの1エントリ
	cfg.UsePrefix = false
	states = cfg.DesiredStates()
	if len(states) != 1 || states[0].Prefix != "" {
		t.Errorf("states without prefix = %+v", states)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Prefixes = []string{"wifi-"}
	cfg.DBHost = "db.example"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DBHost != "db.example" {
		t.Errorf("round trip DBHost = %q, want db.example", loaded.DBHost)
	}
}
