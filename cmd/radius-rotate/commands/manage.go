package commands

import (
	"github.com/spf13/cobra"

	"github.com/mcguer0/radius-rotate/internal/tui"
)

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Interactive account management console",
	Long: `Opens a terminal UI for browsing accounts per prefix, deleting
accounts from every table, setting expirations, and purging expired
accounts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		auditLogger, err := openAuditLogger(cfg)
		if err != nil {
			return err
		}
		defer auditLogger.Close()

		prefixes := cfg.Prefixes
		if !cfg.UsePrefix {
			prefixes = []string{""}
		}

		manager := tui.NewManager(s, auditLogger, prefixes, cfg.Position())
		return manager.Run()
	},
}
