package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inputscan/updater/client/internal/updatemanager/manifest"
	"github.com/inputscan/updater/version"
)

var (
	publishVersion   string
	publishInstaller string
	publishNotes     string
	publishNotesFile string
	publishDir       string
	publishFormat    string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "writes the update manifest to the distribution location",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SetOut(cmd.OutOrStdout())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dir := publishDir
		if dir == "" {
			dir = cfg.DistributionPath
		}
		if dir == "" {
			return fmt.Errorf("no distribution location, set --dir or --%s", distributionPathFlag)
		}

		if _, err := version.Parse(publishVersion); err != nil {
			return err
		}

		format, err := manifest.ParseFormat(publishFormat)
		if err != nil {
			return err
		}

		notes := publishNotes
		if publishNotesFile != "" {
			data, err := os.ReadFile(publishNotesFile)
			if err != nil {
				return fmt.Errorf("read release notes: %w", err)
			}
			notes = string(data)
		}

		installer := filepath.Base(publishInstaller)
		if _, err := os.Stat(filepath.Join(dir, installer)); err != nil {
			log.Warnf("installer %s is not in %s yet, clients ignore the manifest until it is", installer, dir)
		}

		m := manifest.New(publishVersion, installer, notes, time.Now())
		path, err := manifest.Write(dir, m, format)
		if err != nil {
			return err
		}

		cmd.Printf("manifest written to %s\n", path)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishVersion, "version", "", "version being published")
	publishCmd.Flags().StringVar(&publishInstaller, "installer", "", "installer file name, relative to the distribution location")
	publishCmd.Flags().StringVar(&publishNotes, "notes", "", "release notes")
	publishCmd.Flags().StringVar(&publishNotesFile, "notes-file", "", "read release notes from a file")
	publishCmd.Flags().StringVar(&publishDir, "dir", "", "distribution location (default --distribution-path)")
	publishCmd.Flags().StringVar(&publishFormat, "format", string(manifest.FormatJSON), "manifest format [json|yaml]")
	_ = publishCmd.MarkFlagRequired("version")
	_ = publishCmd.MarkFlagRequired("installer")
}
