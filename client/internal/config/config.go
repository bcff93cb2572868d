package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/inputscan/updater/version"
)

const (
	KeyDistributionPath = "distribution.path"
	KeyProduct          = "distribution.product"
	KeyInstallerExt     = "distribution.extension"
	KeyCurrentVersion   = "version"
	KeyNetworkUser      = "network.user"
	KeyNetworkPassword  = "network.password"
	KeyAutoCheck        = "update.auto-check"
	KeyAutoInstall      = "update.auto-install"
	KeySilentInstall    = "update.silent"
	KeySilentArgs       = "update.silent-args"
	KeyStartupDelay     = "update.startup-delay"
	KeyCountdown        = "update.countdown"
	KeyScratchDir       = "update.scratch-dir"
	KeyLogLevel         = "log.level"
	KeyLogFile          = "log.file"
)

const (
	DefaultConfigName   = "updater"
	DefaultProduct      = "Input_Scan"
	DefaultInstallerExt = ".exe"
	DefaultStartupDelay = 2 * time.Second
	DefaultCountdown    = 60 * time.Second
	envPrefix           = "UPDATER"
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"distribution-path": KeyDistributionPath,
	"product":           KeyProduct,
	"installer-ext":     KeyInstallerExt,
	"current-version":   KeyCurrentVersion,
	"network-user":      KeyNetworkUser,
	"network-password":  KeyNetworkPassword,
	"silent":            KeySilentInstall,
	"silent-args":       KeySilentArgs,
	"startup-delay":     KeyStartupDelay,
	"countdown":         KeyCountdown,
	"scratch-dir":       KeyScratchDir,
	"log-level":         KeyLogLevel,
	"log-file":          KeyLogFile,
}

// FlagNames lists the flags backed by configuration keys. Their environment
// variables are read by Load under the key names, e.g. UPDATER_DISTRIBUTION_PRODUCT.
func FlagNames() []string {
	return slices.Sorted(maps.Keys(flagKeys))
}

// Config is built once at start up and passed to the update components.
type Config struct {
	DistributionPath string
	Product          string
	InstallerExt     string
	CurrentVersion   string

	NetworkUser     string
	NetworkPassword string

	AutoCheck     bool
	AutoInstall   bool
	SilentInstall bool
	// SilentArgs replace the installer type's default unattended flags
	SilentArgs []string

	StartupDelay time.Duration
	Countdown    time.Duration
	// ScratchDir receives the staged installer and launch script, empty means the OS temp dir
	ScratchDir string

	LogLevel string
	LogFile  string
}

// Load reads configFile if given, else an optional updater.yaml from the
// working directory, then applies UPDATER_* environment variables and any
// flags that were set explicitly.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := Config{
		DistributionPath: strings.TrimSpace(v.GetString(KeyDistributionPath)),
		Product:          strings.TrimSpace(v.GetString(KeyProduct)),
		InstallerExt:     strings.TrimSpace(v.GetString(KeyInstallerExt)),
		CurrentVersion:   strings.TrimSpace(v.GetString(KeyCurrentVersion)),
		NetworkUser:      v.GetString(KeyNetworkUser),
		NetworkPassword:  v.GetString(KeyNetworkPassword),
		AutoCheck:        v.GetBool(KeyAutoCheck),
		AutoInstall:      v.GetBool(KeyAutoInstall),
		SilentInstall:    v.GetBool(KeySilentInstall),
		SilentArgs:       v.GetStringSlice(KeySilentArgs),
		StartupDelay:     v.GetDuration(KeyStartupDelay),
		Countdown:        v.GetDuration(KeyCountdown),
		ScratchDir:       strings.TrimSpace(v.GetString(KeyScratchDir)),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFile:          v.GetString(KeyLogFile),
	}

	if cfg.CurrentVersion == "" {
		cfg.CurrentVersion = version.Current()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDistributionPath, "")
	v.SetDefault(KeyProduct, DefaultProduct)
	v.SetDefault(KeyInstallerExt, DefaultInstallerExt)
	v.SetDefault(KeyCurrentVersion, "")
	v.SetDefault(KeyNetworkUser, "")
	v.SetDefault(KeyNetworkPassword, "")
	v.SetDefault(KeyAutoCheck, true)
	v.SetDefault(KeyAutoInstall, true)
	v.SetDefault(KeySilentInstall, false)
	v.SetDefault(KeySilentArgs, []string{})
	v.SetDefault(KeyStartupDelay, DefaultStartupDelay)
	v.SetDefault(KeyCountdown, DefaultCountdown)
	v.SetDefault(KeyScratchDir, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "console")
}

// Validate checks the values the update cycle cannot run without.
func (c Config) Validate() error {
	if c.Product == "" {
		return fmt.Errorf("%s must not be empty", KeyProduct)
	}
	if strings.ContainsAny(c.Product, `*?[\/`) {
		return fmt.Errorf("%s %q must be a plain name", KeyProduct, c.Product)
	}
	if c.InstallerExt != "" && !strings.HasPrefix(c.InstallerExt, ".") {
		return fmt.Errorf("%s %q must start with a dot", KeyInstallerExt, c.InstallerExt)
	}
	if c.StartupDelay < 0 {
		return fmt.Errorf("%s must not be negative", KeyStartupDelay)
	}
	if c.Countdown <= 0 {
		return fmt.Errorf("%s must be positive", KeyCountdown)
	}
	if (c.NetworkUser == "") != (c.NetworkPassword == "") {
		return fmt.Errorf("%s and %s must be set together", KeyNetworkUser, KeyNetworkPassword)
	}
	if c.ScratchDir != "" {
		if info, err := os.Stat(c.ScratchDir); err == nil && !info.IsDir() {
			return fmt.Errorf("%s %s is not a directory", KeyScratchDir, c.ScratchDir)
		}
	}
	return nil
}

// HasCredentials reports whether the share needs an explicit login.
func (c Config) HasCredentials() bool {
	return c.NetworkUser != "" && c.NetworkPassword != ""
}
