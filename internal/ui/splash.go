package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// SplashTickMsg advances the splash and loading animations.
type SplashTickMsg time.Time

// SplashDoneMsg fires once the splash duration has elapsed.
type SplashDoneMsg struct{}

// SplashTick schedules the next animation frame.
func SplashTick() tea.Cmd {
	return tea.Tick(SplashFrameInterval, func(t time.Time) tea.Msg {
		return SplashTickMsg(t)
	})
}

// SplashTimer ends the splash after d.
func SplashTimer(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return SplashDoneMsg{}
	})
}

var splashLogo = []string{
	"╔╗╔╔═╗╦  ╔═╗╔═╗╔╗╔",
	"║║║║╣ ║  ╚═╗║ ║║║║",
	"╝╚╝╚═╝╩═╝╚═╝╚═╝╝╚╝",
}

const (
	splashTagline = "Pediatric medical reference, in your terminal"
	loadingText   = "Checking your session"
)

// Splash renders the start-up screen and the session-loading screen that
// follows it.
type Splash struct {
	width  int
	height int
	frame  int
}

// NewSplash creates the splash screen.
func NewSplash() *Splash {
	return &Splash{}
}

// SetSize sets the screen dimensions.
func (s *Splash) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Advance moves to the next animation frame.
func (s *Splash) Advance() {
	s.frame++
}

// Frame returns the current animation frame.
func (s *Splash) Frame() int {
	return s.frame
}

// View renders the logo with a spinner under it.
func (s *Splash) View() string {
	var sb strings.Builder
	sb.WriteString(SplashTitleStyle.Render(strings.Join(splashLogo, "\n")))
	sb.WriteString("\n")
	sb.WriteString(HeadingStyle.Render("GPT"))
	sb.WriteString("\n\n")
	sb.WriteString(SplashTaglineStyle.Render(splashTagline))
	sb.WriteString("\n\n")
	sb.WriteString(s.spinner())
	return s.place(sb.String())
}

// LoadingView renders the screen shown while the saved session resolves.
func (s *Splash) LoadingView() string {
	dots := strings.Repeat(".", s.frame%4)
	line := s.spinner() + " " + StatusLoadingStyle.Render(loadingText+dots)
	return s.place(SplashTitleStyle.Render("NelsonGPT") + "\n\n" + line)
}

func (s *Splash) spinner() string {
	frame := spinnerFrames[s.frame%len(spinnerFrames)]
	return lipgloss.NewStyle().Foreground(ColorUser).Bold(true).Render(frame)
}

func (s *Splash) place(content string) string {
	block := lipgloss.NewStyle().Align(lipgloss.Center).Render(content)
	if s.width <= 0 || s.height <= 0 {
		return block
	}
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, block)
}
