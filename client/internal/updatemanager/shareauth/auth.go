package shareauth

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Credentials for the distribution share. Both fields empty means the share
// is expected to be accessible with the session's existing rights.
type Credentials struct {
	User     string
	Password string
}

func (c Credentials) Empty() bool {
	return c.User == "" || c.Password == ""
}

// Result of a finished mount command.
type Result struct {
	Output   []byte
	ExitCode int
}

// CommandRunner runs the platform mount command. It returns an error only
// when the command could not be run at all; a non-zero exit is reported in Result.
type CommandRunner interface {
	Run(ctx context.Context, stdin string, name string, args ...string) (Result, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{Output: out.Bytes(), ExitCode: exitErr.ExitCode()}, nil
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Output: out.Bytes()}, nil
}

// Authenticator performs a best-effort credential handshake with the share
// root before the distribution location is read.
//
// The mount it creates is session wide and is not serialized against other
// users of the same share.
type Authenticator struct {
	creds  Credentials
	runner CommandRunner
}

func New(creds Credentials) *Authenticator {
	return NewWithRunner(creds, execRunner{})
}

func NewWithRunner(creds Credentials, runner CommandRunner) *Authenticator {
	return &Authenticator{
		creds:  creds,
		runner: runner,
	}
}

// Authenticate returns false only when the mount command could not be
// invoked. A failing mount is logged and tolerated since an earlier manual
// mount may already grant access.
func (a *Authenticator) Authenticate(ctx context.Context, location string) bool {
	if a.creds.Empty() {
		log.Infof("no network credentials configured, trying direct access")
		return true
	}

	root, ok := ShareRoot(location)
	if !ok {
		log.Debugf("%s is not a network share, skipping authentication", location)
		return true
	}

	log.Infof("authenticating access to %s", root)
	name, args, stdin := mountCommand(root, a.creds)
	res, err := a.runner.Run(ctx, stdin, name, args...)
	if err != nil {
		log.Errorf("network authentication error: %v", err)
		return false
	}

	output := strings.TrimSpace(string(res.Output))
	if res.ExitCode != 0 {
		log.Warnf("network authentication warning (exit code %d): %s", res.ExitCode, output)
		return true
	}

	log.Infof("network authentication successful")
	return true
}

// ShareRoot returns \\host\share (or //host/share) for a UNC location.
func ShareRoot(location string) (string, bool) {
	for _, sep := range []string{`\`, "/"} {
		prefix := sep + sep
		if !strings.HasPrefix(location, prefix) {
			continue
		}

		parts := strings.Split(strings.TrimPrefix(location, prefix), sep)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", false
		}
		return prefix + parts[0] + sep + parts[1], true
	}
	return "", false
}

// hostAndShare splits a root produced by ShareRoot
func hostAndShare(root string) (string, string) {
	trimmed := strings.TrimLeft(root, `\/`)
	parts := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '\\' || r == '/' })
	if len(parts) < 2 {
		return trimmed, ""
	}
	return parts[0], parts[1]
}
