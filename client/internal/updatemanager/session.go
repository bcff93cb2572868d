package updatemanager

import (
	"context"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type State int

const (
	StateIdle State = iota
	StateChecking
	StateNoUpdate
	StateUpdateFound
	StateDeclined
	StateAccepted
	StateStaging
	StateLaunching
	StateTerminating
	// StateFailed ends a cycle whose staging or launch failed. The host keeps running.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateNoUpdate:
		return "no update"
	case StateUpdateFound:
		return "update found"
	case StateDeclined:
		return "declined"
	case StateAccepted:
		return "accepted"
	case StateStaging:
		return "staging"
	case StateLaunching:
		return "launching"
	case StateTerminating:
		return "terminating"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Final reports whether the cycle has ended in s.
func (s State) Final() bool {
	switch s {
	case StateNoUpdate, StateDeclined, StateTerminating, StateFailed:
		return true
	default:
		return false
	}
}

type SessionConfig struct {
	// StartupDelay postpones the check after Start
	StartupDelay time.Duration
	Silent       bool
	// Terminate ends the host process after the installer was launched, os.Exit(0) when nil
	Terminate func()
}

// Session runs the update cycle at most once for the lifetime of the host
// process: check, decide, stage, launch, terminate.
type Session struct {
	manager *UpdateManager
	decider Decider
	cfg     SessionConfig

	mu      sync.Mutex
	state   State
	ran     bool
	started bool
	offer   *Offer

	done chan struct{}
}

func NewSession(manager *UpdateManager, decider Decider, cfg SessionConfig) *Session {
	if cfg.StartupDelay < 0 {
		cfg.StartupDelay = 0
	}
	if cfg.Terminate == nil {
		cfg.Terminate = func() { os.Exit(0) }
	}
	return &Session{
		manager: manager,
		decider: decider,
		cfg:     cfg,
		done:    make(chan struct{}),
	}
}

// Start runs the cycle in the background after the startup delay so the
// caller is never blocked by the check.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		log.Errorf("update session already started")
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)

		if err := sleepWithContext(ctx, s.cfg.StartupDelay); err != nil {
			log.Debugf("update check cancelled before it started: %v", err)
			return
		}
		s.Run(ctx)
	}()
}

// Wait blocks until a cycle started with Start has ended. It returns at once
// when Start was never called.
func (s *Session) Wait() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}
	<-s.done
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Offer returns the update found by the cycle, if any.
func (s *Session) Offer() (Offer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offer == nil {
		return Offer{}, false
	}
	return *s.offer, true
}

// Run executes the cycle synchronously and returns the state it ended in.
// Later calls on the same session do nothing: a declined update is offered
// again only by a new session.
func (s *Session) Run(ctx context.Context) State {
	s.mu.Lock()
	if s.ran {
		state := s.state
		s.mu.Unlock()
		log.Debugf("update cycle already ran in this session (%s)", state)
		return state
	}
	s.ran = true
	s.mu.Unlock()

	s.setState(StateChecking)
	offer, ok := s.manager.Check(ctx)
	if !ok {
		return s.setState(StateNoUpdate)
	}

	s.mu.Lock()
	s.offer = &offer
	s.mu.Unlock()
	s.setState(StateUpdateFound)

	decision := s.decider.Decide(ctx, offer)
	log.Infof("update %s %s", offer.NewVersion, decision)
	if !decision.Proceed() {
		return s.setState(StateDeclined)
	}
	s.setState(StateAccepted)

	// from here on the cycle ignores cancellation
	ctx = context.WithoutCancel(ctx)

	s.setState(StateStaging)
	staged, err := s.manager.stage(offer.InstallerPath, s.cfg.Silent)
	if err != nil {
		return s.setState(StateFailed)
	}

	s.setState(StateLaunching)
	if err := s.manager.launch(ctx, staged); err != nil {
		return s.setState(StateFailed)
	}

	s.setState(StateTerminating)
	log.Infof("exiting to let the installer update the application")
	s.cfg.Terminate()
	return StateTerminating
}

func (s *Session) setState(state State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.Debugf("update session: %s -> %s", s.state, state)
	s.state = state
	return state
}

func sleepWithContext(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
