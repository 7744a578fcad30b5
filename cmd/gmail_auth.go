package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmuoria/interview-organizer/internal/config"
	"github.com/fmuoria/interview-organizer/internal/notify"
)

var gmailAuthCmd = &cobra.Command{
	Use:   "gmail-auth",
	Short: "Authorize the Gmail transport and store its token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		settings, err := config.NewSettingsStore(cfg.Settings.Path).Load()
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		if settings.GmailCredentialsPath == "" {
			return fmt.Errorf("gmail_credentials_path is not set in %s", cfg.Settings.Path)
		}
		if err := notify.AuthorizeGmail(cmd.Context(), settings, os.Stdin, cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Gmail authorized.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gmailAuthCmd)
}
