package ui

import (
	"fmt"
	"math/rand"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// StopwatchTickMsg is sent to update the animated waiting display
type StopwatchTickMsg time.Time

// CompletionFlashTickMsg is sent to animate the completion checkmark flash
type CompletionFlashTickMsg time.Time

// thinkingVerbs cycle while a reply is pending.
var thinkingVerbs = []string{
	"Thinking",
	"Reviewing",
	"Consulting references",
	"Checking dosing tables",
	"Cross-referencing",
	"Weighing differentials",
	"Reading the literature",
	"Considering",
	"Analyzing",
	"Synthesizing",
	"Formulating",
	"Charting",
}

// randomThinkingVerb returns a random verb from the list
func randomThinkingVerb() string {
	return thinkingVerbs[rand.Intn(len(thinkingVerbs))]
}

// spinnerFrames are the characters used for the shimmering spinner animation
var spinnerFrames = []string{"·", "✺", "✹", "✸", "✷", "✶", "✵", "✴", "✳", "✲", "✱", "✧", "✦", "·"}

// spinnerState is the animation state of the waiting indicator.
type spinnerState struct {
	Verb       string
	Idx        int
	FlashFrame int // -1 = inactive
}

func newSpinnerState() spinnerState {
	return spinnerState{FlashFrame: -1}
}

// StopwatchTick returns a command that sends a tick message after a delay
func StopwatchTick() tea.Cmd {
	return tea.Tick(SpinnerInterval, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

// CompletionFlashTick returns a command that sends a completion flash tick
func CompletionFlashTick() tea.Cmd {
	return tea.Tick(160*time.Millisecond, func(t time.Time) tea.Msg {
		return CompletionFlashTickMsg(t)
	})
}

// renderWaitingStatus renders the spinner line shown while a reply is pending.
// Format: ✺ Reviewing... (esc to stop • 12s)
func renderWaitingStatus(verb string, frameIdx int, elapsed time.Duration) string {
	frame := spinnerFrames[frameIdx%len(spinnerFrames)]

	spinnerStyle := lipgloss.NewStyle().
		Foreground(ColorUser).
		Bold(true)
	verbStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Italic(true)
	metaStyle := lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	meta := metaStyle.Render("(esc to stop • " + formatElapsed(elapsed) + ")")
	return spinnerStyle.Render(frame) + " " + verbStyle.Render(verb+"...") + " " + meta
}

// formatElapsed formats a duration for display (e.g., "12s", "1m30s")
func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%ds", secs/60, secs%60)
}

// renderCompletionFlash renders the checkmark shown briefly after a reply
// arrives. Frame 0 is bright, frame 1 dim, later frames empty.
func renderCompletionFlash(frame int, took time.Duration) string {
	meta := lipgloss.NewStyle().Foreground(ColorTextMuted).Render("(" + formatElapsed(took) + ")")
	switch frame {
	case 0:
		check := lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Render("✓")
		done := lipgloss.NewStyle().Foreground(ColorSecondary).Italic(true).Render("Done")
		return check + " " + done + " " + meta
	case 1:
		return lipgloss.NewStyle().Foreground(ColorSecondary).Render("✓") + " " + meta
	default:
		return ""
	}
}

// SetWaiting sets the waiting state while a reply is pending.
func (c *Chat) SetWaiting(waiting bool) {
	if waiting && !c.waiting {
		c.spinner.Verb = randomThinkingVerb()
		c.spinner.Idx = 0
		c.spinner.FlashFrame = -1
		c.waitStart = c.now()
	}
	if !waiting && c.waiting {
		c.lastWait = c.now().Sub(c.waitStart)
	}
	c.waiting = waiting
	c.updateContent()
}

// IsWaiting returns whether we're waiting for a response
func (c *Chat) IsWaiting() bool {
	return c.waiting
}

// StartCompletionFlash starts the completion checkmark flash animation
func (c *Chat) StartCompletionFlash() tea.Cmd {
	c.spinner.FlashFrame = 0
	c.updateContent()
	return CompletionFlashTick()
}

// IsCompletionFlashing returns whether the completion flash animation is active
func (c *Chat) IsCompletionFlashing() bool {
	return c.spinner.FlashFrame >= 0
}

// handleStopwatchTick advances the spinner. Ticking stops once the reply
// arrives.
func (c *Chat) handleStopwatchTick() tea.Cmd {
	if !c.waiting {
		return nil
	}
	c.spinner.Idx = (c.spinner.Idx + 1) % len(spinnerFrames)
	c.updateContent()
	return StopwatchTick()
}

// handleCompletionFlashTick handles the completion flash animation tick
func (c *Chat) handleCompletionFlashTick() tea.Cmd {
	if c.spinner.FlashFrame < 0 {
		return nil
	}
	c.spinner.FlashFrame++
	if c.spinner.FlashFrame >= 3 {
		c.spinner.FlashFrame = -1
	}
	c.updateContent()
	if c.spinner.FlashFrame >= 0 {
		return CompletionFlashTick()
	}
	return nil
}
