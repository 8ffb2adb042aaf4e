package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcguer0/radius-rotate/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultFile
		}

		if !initForce {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
		}

		cfg := config.Default()
		cfg.Prefixes = []string{"wifi-"}
		cfg.Policies = []config.PolicyConfig{
			{
				Prefix:   "wifi-",
				Networks: []string{"10.0.0.0/8"},
			},
		}

		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Printf("configuration written to %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
