package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcguer0/radius-rotate/internal/policy"
)

var policyOutDir string

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Compile access policies into FreeRADIUS huntgroups and unlang",
	Long: `Compiles the configured prefix access policies into a huntgroups
table fragment and an unlang guard block. CIDR networks are turned into
anchored source-address patterns; prefixes listed under enforcement but
missing a policy get a placeholder entry flagged for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		policies := policy.FillMissing(cfg.EnforcedPrefixes, cfg.AccessPolicies())
		assembly, errs := policy.Assemble(policies)
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		if err := os.MkdirAll(policyOutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		huntgroupsPath := filepath.Join(policyOutDir, "huntgroups")
		if err := os.WriteFile(huntgroupsPath, []byte(policy.RenderHuntgroups(assembly)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", huntgroupsPath, err)
		}

		unlangPath := filepath.Join(policyOutDir, "prefix-guard.unlang")
		if err := os.WriteFile(unlangPath, []byte(policy.RenderUnlang(assembly)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", unlangPath, err)
		}

		fmt.Printf("wrote %s (%d rows) and %s (%d guards)\n",
			huntgroupsPath, len(assembly.Rows), unlangPath, len(assembly.Guards))

		if len(errs) > 0 {
			return fmt.Errorf("%d network(s) could not be compiled", len(errs))
		}
		return nil
	},
}

func init() {
	policyCmd.Flags().StringVar(&policyOutDir, "out-dir", ".", "directory for the generated files")
}
