package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inputscan/updater/client/internal/updatemanager"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "checks the distribution location for a newer version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SetOut(cmd.OutOrStdout())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		manager := updatemanager.NewUpdateManager(cfg)
		available, newVersion, installerPath := manager.CheckForUpdates(cmd.Context())
		if !available {
			cmd.Printf("up to date (%s)\n", manager.CurrentVersion())
			return nil
		}

		cmd.Printf("update available: %s (%s)\n", newVersion, installerPath)
		return nil
	},
}
