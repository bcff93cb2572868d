package updatemanager

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultCountdown is how long an offer waits for an answer before the update
// goes ahead anyway.
const DefaultCountdown = 60 * time.Second

type Decision int

const (
	DecisionAccepted Decision = iota
	DecisionDeclined
	DecisionTimedOut
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionDeclined:
		return "declined"
	case DecisionTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Proceed reports whether the update goes ahead. A timed out offer is
// installed: once found, an update is not optional.
func (d Decision) Proceed() bool {
	return d == DecisionAccepted || d == DecisionTimedOut
}

// Offer is what the decision step is shown about a found update.
type Offer struct {
	CurrentVersion string
	NewVersion     string
	InstallerPath  string
	ReleaseNotes   string
}

// Decider answers an update offer.
type Decider interface {
	Decide(ctx context.Context, offer Offer) Decision
}

// Prompt asks the user about an offer. remaining receives the time left on
// each countdown tick and is nil when there is no countdown. Ask returns once
// the user answered or ctx is done.
type Prompt interface {
	Ask(ctx context.Context, offer Offer, remaining <-chan time.Duration) (bool, error)
}

// CountdownDecider bounds a Prompt with a countdown ticking once per second.
// Expiry yields DecisionTimedOut.
type CountdownDecider struct {
	prompt    Prompt
	countdown time.Duration
	tick      time.Duration
}

func NewCountdownDecider(prompt Prompt, countdown time.Duration) *CountdownDecider {
	if countdown <= 0 {
		countdown = DefaultCountdown
	}
	return &CountdownDecider{
		prompt:    prompt,
		countdown: countdown,
		tick:      time.Second,
	}
}

func (d *CountdownDecider) Decide(ctx context.Context, offer Offer) Decision {
	promptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	remaining := make(chan time.Duration, 1)
	type answer struct {
		accepted bool
		err      error
	}
	answers := make(chan answer, 1)
	go func() {
		accepted, err := d.prompt.Ask(promptCtx, offer, remaining)
		answers <- answer{accepted: accepted, err: err}
	}()

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()
	deadline := time.Now().Add(d.countdown)
	sendRemaining(remaining, d.countdown)

	for {
		select {
		case a := <-answers:
			if a.err != nil {
				// the offer stays open until the countdown runs out
				log.Warnf("update prompt failed: %v", a.err)
				answers = nil
				continue
			}
			if a.accepted {
				return DecisionAccepted
			}
			return DecisionDeclined
		case <-ticker.C:
			left := time.Until(deadline)
			if left <= 0 {
				log.Infof("no answer within %s, installing update %s", d.countdown, offer.NewVersion)
				return DecisionTimedOut
			}
			sendRemaining(remaining, left.Round(time.Second))
		case <-ctx.Done():
			log.Debugf("update decision aborted: %v", ctx.Err())
			return DecisionDeclined
		}
	}
}

// sendRemaining drops stale values so a slow prompt always sees the latest one
func sendRemaining(ch chan time.Duration, left time.Duration) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- left:
	default:
	}
}

// ConfirmDecider asks a plain yes/no question without a countdown. Any
// prompt failure counts as a decline.
type ConfirmDecider struct {
	prompt Prompt
}

func NewConfirmDecider(prompt Prompt) *ConfirmDecider {
	return &ConfirmDecider{prompt: prompt}
}

func (d *ConfirmDecider) Decide(ctx context.Context, offer Offer) Decision {
	accepted, err := d.prompt.Ask(ctx, offer, nil)
	if err != nil {
		log.Warnf("update prompt failed: %v", err)
		return DecisionDeclined
	}
	if accepted {
		return DecisionAccepted
	}
	return DecisionDeclined
}

// AcceptDecider accepts every offer without asking.
type AcceptDecider struct{}

func (AcceptDecider) Decide(_ context.Context, offer Offer) Decision {
	log.Infof("installing update %s without confirmation", offer.NewVersion)
	return DecisionAccepted
}
