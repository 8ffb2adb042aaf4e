package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	csvpkg "github.com/mcguer0/radius-rotate/internal/csv"
	"github.com/mcguer0/radius-rotate/internal/logging"
	"github.com/mcguer0/radius-rotate/internal/rotate"
)

var (
	runDryRun  bool
	runCSVPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile account pools and rotate all passwords",
	Long: `Tops up every configured prefix to its target account count, then
rotates the password of every matching account. All writes happen in a
single transaction; --dry-run executes the same writes and rolls them
back at the end.`,
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

		engine := rotate.NewEngine(s, rotate.Settings{
			Desired:      cfg.DesiredStates(),
			Position:     cfg.Position(),
			TailLen:      cfg.UsernameTailLen,
			PasswordLen:  cfg.PasswordLen,
			Punctuation:  cfg.PassPunct,
			EnableGroup:  cfg.EnableGroup,
			GroupName:    cfg.GroupName,
			FillUserInfo: cfg.FillUserInfo,
		})

		result, err := engine.Reconcile(cmd.Context(), runDryRun)
		if err != nil {
			return err
		}

		for _, cred := range result.Created {
			auditLogger.LogCreate(result.RunID, cred.Prefix, cred.Username, result.DryRun)
		}
		for _, cred := range result.Rotated {
			auditLogger.LogRotate(result.RunID, cred.Prefix, cred.Username, result.DryRun)
		}
		auditLogger.LogRun(result.RunID, result.DryRun, len(result.Created), len(result.Rotated), len(result.Failures))

		printSummary(cfg.LogMaskSecrets, result)

		if runCSVPath != "" {
			creds := append(append([]rotate.Credential{}, result.Created...), result.Rotated...)
			if err := writeCredentialFile(runCSVPath, creds); err != nil {
				return err
			}
			auditLogger.LogExport(result.RunID, runCSVPath, len(creds))
			fmt.Printf("credentials written to %s\n", runCSVPath)
		}

		if len(result.Failures) > 0 {
			for _, failure := range result.Failures {
				fmt.Fprintf(os.Stderr, "warning: %v\n", failure)
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "execute all writes, then roll everything back")
	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "write issued credentials to a CSV file")
}

// printSummary は実行結果のサマリを標準出力に書き出す。
// マスク有効時はパスワードを伏せる（CSV出力には常に平文が載る）。
func printSummary(maskSecrets bool, result *rotate.Result) {
	masker := logging.NewMasker(maskSecrets)

	mode := "run"
	if result.DryRun {
		mode = "dry-run"
	}
	fmt.Printf("%s %s: created=%d rotated=%d failures=%d\n",
		mode, result.RunID, len(result.Created), len(result.Rotated), len(result.Failures))

	for _, cred := range result.Created {
		fmt.Printf("  created  %s %s\n", cred.Username, masker.Password(cred.Password))
	}
	for _, cred := range result.Rotated {
		fmt.Printf("  rotated  %s %s\n", cred.Username, masker.Password(cred.Password))
	}
}

// writeCredentialFile は資格情報CSVをパーミッション0600で書き出す。
func writeCredentialFile(path string, creds []rotate.Credential) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create csv file %s: %w", path, err)
	}
	defer f.Close()

	if err := csvpkg.WriteCredentialCSV(f, creds); err != nil {
		return err
	}
	return f.Close()
}
