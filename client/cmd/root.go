package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inputscan/updater/client/internal/config"
	"github.com/inputscan/updater/util"
)

const (
	distributionPathFlag = "distribution-path"
	productFlag          = "product"
	installerExtFlag     = "installer-ext"
	currentVersionFlag   = "current-version"
	networkUserFlag      = "network-user"
	networkPasswordFlag  = "network-password"
	silentFlag           = "silent"
	silentArgsFlag       = "silent-args"
	startupDelayFlag     = "startup-delay"
	countdownFlag        = "countdown"
	scratchDirFlag       = "scratch-dir"
)

var (
	configPath string
	logLevel   string
	logFile    string
	rootCmd    = &cobra.Command{
		Use:          "updater",
		Short:        "Self-update orchestrator for applications distributed over a shared folder",
		Long:         "",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "updater config file location (default ./updater.yaml when present)")
	flags.StringVarP(&logLevel, "log-level", "l", "info", "sets updater log level")
	flags.StringVar(&logFile, "log-file", util.LogConsole, "sets updater log path. If console is specified the log will be output to stderr")

	flags.String(distributionPathFlag, "", `distribution location, a local directory or a share such as \\server\share\app`)
	flags.String(productFlag, config.DefaultProduct, "product name used in installer file names <product>_Setup_v<version><ext>")
	flags.String(installerExtFlag, config.DefaultInstallerExt, "installer file extension")
	flags.String(currentVersionFlag, "", "version of the installed application (default from the build or version.txt)")
	flags.String(networkUserFlag, "", `user for the distribution share, DOMAIN\user is accepted`)
	flags.String(networkPasswordFlag, "", "password for the distribution share")
	flags.Bool(silentFlag, false, "run the installer unattended")
	flags.StringSlice(silentArgsFlag, nil, "installer arguments replacing the default unattended flags")
	flags.Duration(startupDelayFlag, config.DefaultStartupDelay, "delay before the update check starts")
	flags.Duration(countdownFlag, config.DefaultCountdown, "time to answer an update offer before it is installed")
	flags.String(scratchDirFlag, "", "directory for the staged installer and launch script (default the OS temp dir)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig applies UPDATER_CONFIG and the other environment variables of
// flags without a config key, loads the configuration and initializes logging
// from it. Config-backed flags get their environment values in config.Load.
func loadConfig() (config.Config, error) {
	util.SetFlagsFromEnvVars(rootCmd, config.FlagNames()...)

	cfg, err := config.Load(configPath, rootCmd.PersistentFlags())
	if err != nil {
		return config.Config{}, fmt.Errorf("failed loading config: %w", err)
	}

	if err := util.InitLog(cfg.LogLevel, cfg.LogFile); err != nil {
		return config.Config{}, fmt.Errorf("failed initializing log %v", err)
	}
	return cfg, nil
}

// SetupCloseHandler handles SIGTERM signal and cancels the update session
func SetupCloseHandler(ctx context.Context, cancel context.CancelFunc) {
	termCh := make(chan os.Signal, 1)
	signal.Notify(termCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		done := ctx.Done()
		select {
		case <-done:
		case <-termCh:
		}

		log.Info("shutdown signal received")
		cancel()
	}()
}
