package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/ui"
	"github.com/zhubert/nelson/internal/ui/modals"
)

// handleModalKey routes modal key events to the appropriate handler based on modal state type.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *modals.ConfirmClearAllState:
		return m.handleConfirmClearAllModal(key, msg, s)
	case *modals.RenameChatState:
		return m.handleRenameChatModal(key, msg, s)
	case *modals.ThemeState:
		return m.handleThemeModal(key, msg, s)
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	}

	if key == keys.Escape {
		m.modal.Hide()
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleConfirmClearAllModal handles key events for the Clear All confirmation.
func (m *Model) handleConfirmClearAllModal(key string, msg tea.KeyPressMsg, state *modals.ConfirmClearAllState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		m.modal.Hide()
		if !state.Confirmed() {
			return m, nil
		}
		return m, m.clearAllChats()
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleRenameChatModal handles key events for the Rename Chat modal.
func (m *Model) handleRenameChatModal(key string, msg tea.KeyPressMsg, state *modals.RenameChatState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		id := chat.ID(state.ChatID)
		if err := m.workspace.Rename(id, state.GetNewName()); err != nil {
			m.modal.SetError("Chat not found")
			return m, nil
		}
		m.modal.Hide()
		m.sidebar.SelectChat(id)
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleThemeModal applies and saves the chosen theme.
func (m *Model) handleThemeModal(key string, msg tea.KeyPressMsg, state *modals.ThemeState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		m.modal.Hide()
		if !state.ThemeChanged() {
			return m, nil
		}
		theme := state.GetSelectedTheme()
		ui.SetThemeByName(theme)
		m.chat.SetSettings(m.workspace.Settings())
		m.shown = shownChat{}
		m.config.SetTheme(theme)
		if m.config.Path() == "" {
			return m, nil
		}
		if err := m.config.Save(); err != nil {
			m.log().Error("failed to save theme", "theme", theme, "error", err)
			return m, m.ShowFlashError("Theme applied but not saved")
		}
		return m, m.ShowFlashSuccess("Theme: " + ui.GetTheme(ui.ThemeName(theme)).Name)
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleHelpModal handles key events for the Help modal.
func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape, "?", "q":
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		shortcut := state.GetSelectedShortcut()
		if shortcut == nil {
			return m, nil
		}
		m.modal.Hide()
		return m, func() tea.Msg {
			return modals.HelpShortcutTriggeredMsg{Key: shortcut.Key}
		}
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleHelpShortcutTrigger runs a shortcut picked from the help modal.
func (m *Model) handleHelpShortcutTrigger(displayKey string) (tea.Model, tea.Cmd) {
	key := normalizeHelpDisplayKey(displayKey)
	if key == "" {
		return m, nil
	}
	result, cmd, _ := m.ExecuteShortcut(key)
	return result, cmd
}
