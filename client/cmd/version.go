package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inputscan/updater/version"
)

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "prints the installed application version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.Println(version.Current())
		},
	}
)
