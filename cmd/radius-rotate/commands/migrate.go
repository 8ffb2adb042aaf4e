package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateUserInfo bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the FreeRADIUS SQL tables",
	Long: `Creates the radcheck, radreply and radusergroup tables if they do
not exist. The optional userinfo table is only created with --userinfo;
without it the tool tolerates its absence.`,
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

		if err := s.Migrate(); err != nil {
			return err
		}
		fmt.Println("migrated: radcheck, radreply, radusergroup")

		if migrateUserInfo {
			if err := s.MigrateUserInfo(); err != nil {
				return err
			}
			fmt.Println("migrated: userinfo")
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateUserInfo, "userinfo", false, "also create the optional userinfo table")
}
