package cmd

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inputscan/updater/client/internal/config"
	"github.com/inputscan/updater/client/internal/prompt"
	"github.com/inputscan/updater/client/internal/updatemanager"
)

var (
	assumeYes  bool
	notesStyle string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "runs one update cycle the way the host application does at start up",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SetOut(cmd.OutOrStdout())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if !cfg.AutoCheck {
			log.Infof("automatic update checks are disabled")
			return nil
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		SetupCloseHandler(ctx, cancel)

		session := updatemanager.NewSession(
			updatemanager.NewUpdateManager(cfg),
			newDecider(cfg, cmd),
			updatemanager.SessionConfig{
				StartupDelay: cfg.StartupDelay,
				Silent:       silentInstall(cfg),
			},
		)
		session.Start(ctx)
		session.Wait()

		state := session.State()
		if offer, ok := session.Offer(); ok {
			cmd.Printf("update %s: %s\n", offer.NewVersion, state)
		} else {
			cmd.Printf("%s\n", state)
		}
		return nil
	},
}

func newDecider(cfg config.Config, cmd *cobra.Command) updatemanager.Decider {
	if assumeYes {
		return updatemanager.AcceptDecider{}
	}

	terminal := prompt.NewTerminal(os.Stdin, cmd.OutOrStdout(), notesStyle)
	if cfg.AutoInstall {
		return updatemanager.NewCountdownDecider(terminal, cfg.Countdown)
	}
	return updatemanager.NewConfirmDecider(terminal)
}

// silentInstall keeps the installer interactive when the user is asked to
// confirm each update by hand.
func silentInstall(cfg config.Config) bool {
	if !cfg.AutoInstall && !assumeYes {
		return false
	}
	return cfg.SilentInstall
}

func init() {
	runCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "install a found update without asking")
	runCmd.Flags().StringVar(&notesStyle, "notes-style", "dark", "release notes style [dark|light|notty|plain]")
}
