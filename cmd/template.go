package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmuoria/interview-organizer/internal/models"
	"github.com/fmuoria/interview-organizer/internal/roster"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write empty candidate and panel roster workbooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := roster.WriteTemplate(models.KindCandidate, cfg.Roster.Candidates); err != nil {
			return err
		}
		if err := roster.WriteTemplate(models.KindPanelMember, cfg.Roster.Panel); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", cfg.Roster.Candidates, cfg.Roster.Panel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
}
