package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcguer0/radius-rotate/internal/probe"
)

var (
	probeAddr   string
	probeSecret string
	probeNASID  string
)

var probeCmd = &cobra.Command{
	Use:   "probe <username> <password>",
	Short: "Send a PAP Access-Request to verify a credential",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		addr := cfg.ProbeAddr
		if probeAddr != "" {
			addr = probeAddr
		}
		secret := cfg.ProbeSecret
		if probeSecret != "" {
			secret = probeSecret
		}
		nasID := cfg.ProbeNASID
		if probeNASID != "" {
			nasID = probeNASID
		}
		if addr == "" || secret == "" {
			return errors.New("probe requires a server address and shared secret (flags or RADIUS_PROBE_* settings)")
		}

		prober := probe.NewProber(addr, secret, nasID)
		result, err := prober.Check(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("%s: %v\n", args[0], result.Code)
		if !result.Accepted {
			return fmt.Errorf("credential rejected by %s", addr)
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeAddr, "addr", "", "RADIUS server address (host:port)")
	probeCmd.Flags().StringVar(&probeSecret, "secret", "", "RADIUS shared secret")
	probeCmd.Flags().StringVar(&probeNASID, "nas-id", "", "NAS-Identifier to send")
}
