package updatemanager

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/inputscan/updater/client/internal/config"
	"github.com/inputscan/updater/client/internal/updatemanager/installer"
	"github.com/inputscan/updater/client/internal/updatemanager/manifest"
	"github.com/inputscan/updater/client/internal/updatemanager/shareauth"
)

// Authenticator prepares access to the distribution location.
type Authenticator interface {
	Authenticate(ctx context.Context, location string) bool
}

// InstallRunner stages an installer and launches it detached from the process.
type InstallRunner interface {
	Stage(installerPath string, silent bool) (*installer.StagedInstaller, error)
	Launch(ctx context.Context, staged *installer.StagedInstaller) error
}

// UpdateManager answers whether a newer build is published on the
// distribution location and starts its installer.
type UpdateManager struct {
	location       string
	currentVersion string

	auth      Authenticator
	resolver  manifest.Resolver
	installer InstallRunner
}

func NewUpdateManager(cfg config.Config) *UpdateManager {
	creds := shareauth.Credentials{User: cfg.NetworkUser, Password: cfg.NetworkPassword}
	pattern := manifest.InstallerPattern{Product: cfg.Product, Extension: cfg.InstallerExt}

	return newManager(
		cfg.DistributionPath,
		cfg.CurrentVersion,
		shareauth.New(creds),
		manifest.NewShareResolver(pattern),
		installer.New(cfg.ScratchDir, cfg.SilentArgs),
	)
}

func newManager(location, currentVersion string, auth Authenticator, resolver manifest.Resolver, runner InstallRunner) *UpdateManager {
	return &UpdateManager{
		location:       location,
		currentVersion: currentVersion,
		auth:           auth,
		resolver:       resolver,
		installer:      runner,
	}
}

func (u *UpdateManager) CurrentVersion() string {
	return u.currentVersion
}

// CheckForUpdates reports whether a newer version is available, its version
// and the installer path. It never fails: every problem means "no update".
func (u *UpdateManager) CheckForUpdates(ctx context.Context) (bool, string, string) {
	offer, ok := u.Check(ctx)
	if !ok {
		return false, "", ""
	}
	return true, offer.NewVersion, offer.InstallerPath
}

// Check is CheckForUpdates returning the full offer including release notes.
func (u *UpdateManager) Check(ctx context.Context) (Offer, bool) {
	log.Infof("checking for updates in %s (current version %s)", u.location, u.currentVersion)

	if !u.auth.Authenticate(ctx, u.location) {
		log.Warnf("network authentication failed, skipping update check")
		return Offer{}, false
	}

	res := u.resolver.Resolve(ctx, u.location, u.currentVersion)
	if !res.Available || res.InstallerPath == "" {
		return Offer{}, false
	}

	return Offer{
		CurrentVersion: u.currentVersion,
		NewVersion:     res.Version,
		InstallerPath:  res.InstallerPath,
		ReleaseNotes:   res.ReleaseNotes,
	}, true
}

// InstallUpdate stages installerPath and launches it detached. A true result
// means the installer is on its way and the caller should exit.
func (u *UpdateManager) InstallUpdate(ctx context.Context, installerPath string, silent bool) bool {
	staged, err := u.stage(installerPath, silent)
	if err != nil {
		return false
	}
	return u.launch(ctx, staged) == nil
}

func (u *UpdateManager) stage(installerPath string, silent bool) (*installer.StagedInstaller, error) {
	staged, err := u.installer.Stage(installerPath, silent)
	if err != nil {
		log.Errorf("error installing update: %v", err)
		return nil, err
	}
	return staged, nil
}

func (u *UpdateManager) launch(ctx context.Context, staged *installer.StagedInstaller) error {
	if err := u.installer.Launch(ctx, staged); err != nil {
		log.Errorf("error installing update: %v", err)
		return err
	}
	log.Infof("update process started, the application should exit now")
	return nil
}
