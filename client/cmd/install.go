package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inputscan/updater/client/internal/updatemanager"
)

var installCmd = &cobra.Command{
	Use:   "install <installer-path>",
	Short: "stages an installer and launches it detached from this process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SetOut(cmd.OutOrStdout())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		manager := updatemanager.NewUpdateManager(cfg)
		if !manager.InstallUpdate(cmd.Context(), args[0], cfg.SilentInstall) {
			return fmt.Errorf("failed to start the installation of %s", args[0])
		}

		cmd.Println("installer launched, it starts once this process has exited")
		return nil
	},
}
