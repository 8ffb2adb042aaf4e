package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcguer0/radius-rotate/internal/logging"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and verify the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Println("config: OK")

		masker := logging.NewMasker(cfg.LogMaskSecrets)
		fmt.Printf("database: %s (%s)\n", cfg.DBDriver, masker.DSN(cfg.DSN()))

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		report, err := s.CheckSchema(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(report)

		if missing := report.Missing(cfg.EnableGroup); len(missing) > 0 {
			return fmt.Errorf("missing required tables: %s", strings.Join(missing, ", "))
		}
		fmt.Println("schema: OK")
		return nil
	},
}
