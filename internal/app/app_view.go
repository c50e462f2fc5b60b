package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current screen as a string.
// This is useful for testing.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.phase {
	case PhaseSplash:
		return m.splash.View()
	case PhaseLoading:
		return m.splash.LoadingView()
	case PhaseAuth:
		// The last line is kept for flash messages.
		var flash string
		if m.footer.HasFlash() {
			flash = m.footer.View()
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.authForm.View(), flash)
	}

	m.updateFooterContext()

	panels := m.chat.View()
	if m.sidebar.Controller().IsOpen() {
		panels = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), panels)
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)

	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}
	return view
}
