package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fmuoria/interview-organizer/internal/gui"
	"github.com/fmuoria/interview-organizer/internal/logger"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop window",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap("gui")
		if err != nil {
			return err
		}
		gui.NewApp(rt.roster, rt.dispatcher, rt.settings, logger.New("gui")).Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}
