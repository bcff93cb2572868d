package util

import (
	"os"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to flag names to find their environment variables
const EnvPrefix = "UPDATER_"

// SetFlagsFromEnvVars reads and updates unset flag values from environment
// variables with prefix UPDATER_. Flags named in skip get their environment
// values from another source and are left alone.
func SetFlagsFromEnvVars(cmd *cobra.Command, skip ...string) {
	flags := cmd.PersistentFlags()
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || slices.Contains(skip, f.Name) {
			return
		}

		// E.g. log-level -> UPDATER_LOG_LEVEL
		envName := EnvPrefix + flagNameToUpper(f.Name)
		if value, present := os.LookupEnv(envName); present {
			if err := flags.Set(f.Name, value); err != nil {
				log.Infof("unable to configure flag %s using variable %s, err: %v", f.Name, envName, err)
			}
		}
	})
}

// flagNameToUpper converts a flag name to its corresponding base env name
// replacing dashes by underscores and making the result uppercase
// E.g. log-level -> LOG_LEVEL
func flagNameToUpper(cmdFlag string) string {
	return strings.ToUpper(strings.ReplaceAll(cmdFlag, "-", "_"))
}
