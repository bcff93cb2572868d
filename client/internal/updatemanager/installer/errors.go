package installer

import "errors"

var (
	// ErrStage wraps failures while copying the installer or writing the launch script
	ErrStage = errors.New("staging failed")
	// ErrLaunch wraps failures to spawn the detached launch script
	ErrLaunch = errors.New("launch failed")
)
