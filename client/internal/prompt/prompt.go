package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/inputscan/updater/client/internal/updatemanager"
)

var (
	errNoAnswer    = errors.New("prompt closed without an answer")
	errNotTerminal = errors.New("input is not a terminal")
)

type remainingMsg time.Duration

type model struct {
	ctx       context.Context
	offer     updatemanager.Offer
	notes     string
	remaining <-chan time.Duration
	left      time.Duration

	answered bool
	accepted bool
}

func newModel(ctx context.Context, offer updatemanager.Offer, remaining <-chan time.Duration, render func(string) string) *model {
	m := &model{
		ctx:       ctx,
		offer:     offer,
		remaining: remaining,
	}
	if strings.TrimSpace(offer.ReleaseNotes) != "" {
		m.notes = render(offer.ReleaseNotes)
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return m.waitForRemaining()
}

// waitForRemaining delivers the next countdown value, nil without a countdown
func (m *model) waitForRemaining() tea.Cmd {
	if m.remaining == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case left := <-m.remaining:
			return remainingMsg(left)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case remainingMsg:
		m.left = time.Duration(msg)
		return m, m.waitForRemaining()

	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y", "enter":
			m.answered, m.accepted = true, true
			return m, tea.Quit
		case "n", "N", "esc", "ctrl+c":
			m.answered, m.accepted = true, false
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) View() string {
	if m.answered {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Update available"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Current version:"), m.offer.CurrentVersion)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("New version:    "), versionStyle.Render(m.offer.NewVersion))

	if m.notes != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("What's new:"))
		b.WriteString("\n")
		b.WriteString(m.notes)
		b.WriteString("\n")
	}

	if m.remaining != nil {
		b.WriteString("\n")
		b.WriteString(countdownStyle.Render(fmt.Sprintf("Updating automatically in %d seconds...", int(m.left.Round(time.Second).Seconds()))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s update now   %s later", keyStyle.Render("[y]"), keyStyle.Render("[n]"))
	return containerStyle.Render(b.String())
}

// Terminal asks about an update in an inline terminal UI.
type Terminal struct {
	in     io.Reader
	out    io.Writer
	render func(string) string
}

// NewTerminal builds a prompt reading keys from in and drawing to out.
// style selects the glamour style for release notes, "plain" disables it.
func NewTerminal(in io.Reader, out io.Writer, style string) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		render: notesRenderer(style, defaultWrapWidth),
	}
}

func (t *Terminal) Ask(ctx context.Context, offer updatemanager.Offer, remaining <-chan time.Duration) (bool, error) {
	if f, ok := t.in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errNotTerminal
	}

	m := newModel(ctx, offer, remaining, t.render)
	program := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("run update prompt: %w", err)
	}

	fm, ok := final.(*model)
	if !ok || !fm.answered {
		return false, errNoAnswer
	}
	return fm.accepted, nil
}
