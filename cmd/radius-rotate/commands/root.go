// Package commands はradius-rotateのCLIコマンド群を実装する。
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcguer0/radius-rotate/internal/audit"
	"github.com/mcguer0/radius-rotate/internal/config"
	"github.com/mcguer0/radius-rotate/internal/store"
)

var (
	// ビルド時にldflagsで注入されるバージョン情報
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// グローバルフラグ
	cfgFile string
)

// rootCmd はサブコマンドなしで呼ばれた場合のベースコマンド。
var rootCmd = &cobra.Command{
	Use:   "radius-rotate",
	Short: "FreeRADIUS SQL account provisioning and rotation",
	Long: `radius-rotate maintains pools of prefix-grouped RADIUS accounts in a
FreeRADIUS SQL backend. Each run tops up every prefix to its target count
and rotates the password of every account, in a single transaction.

It also compiles prefix access policies (CIDR networks, NAS patterns)
into FreeRADIUS huntgroups and unlang guard rules.

Use "radius-rotate [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute は全サブコマンドを組み立ててルートコマンドを実行する。
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("radius-rotate %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.json)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(manageCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(initCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig はグローバルフラグのパスから設定を読み込む。
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// openStore は設定からストアを開く。
func openStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(store.Config{
		Driver: store.Driver(cfg.DBDriver),
		DSN:    cfg.DSN(),
	})
}

// openAuditLogger は設定に応じた監査ロガーを開く。
// パス未設定の場合は標準出力に書き出す。
func openAuditLogger(cfg *config.Config) (*audit.Logger, error) {
	if cfg.AuditLogPath == "" {
		return audit.NewLogger(), nil
	}
	return audit.Open(cfg.AuditLogPath)
}
