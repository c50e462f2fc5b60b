package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/ui"
	"github.com/zhubert/nelson/internal/ui/modals"
)

// Update handles messages. This is the core Bubble Tea update function.
// Once signed in, the chat panel is resynced with the registry after every
// message so sidebar gestures show up immediately.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	result, cmd := m.update(msg)
	if m.phase == PhaseMain {
		if sync := m.syncChatPanel(); sync != nil {
			cmd = tea.Batch(cmd, sync)
		}
	}
	return result, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, cmd
		}
		// Key not handled by handleKeyPress, let it fall through to focused panel

	case ui.SplashTickMsg:
		return m, m.handleSplashTick()

	case ui.SplashDoneMsg:
		m.splashDone = true
		return m, m.syncPhase()

	case AuthChangedMsg:
		m.log().Debug("auth changed", "loading", msg.State.Loading, "signedIn", msg.State.User != nil)
		return m, tea.Batch(m.listenForAuthChanges(), m.syncPhase())

	case WorkspaceLoadedMsg:
		return m.handleWorkspaceLoaded(msg)

	case ui.AuthSubmitMsg:
		return m.handleAuthSubmit(msg)

	case AuthResultMsg:
		return m.handleAuthResult(msg)

	case SignOutResultMsg:
		return m.handleSignOutResult(msg)

	case StorageErrorMsg:
		return m, tea.Batch(
			m.listenForStorageErrors(),
			m.ShowFlashError("Could not save changes"),
		)

	case ReplyMsg:
		return m.handleReplyMsg(msg)

	case ClipboardResultMsg:
		return m.handleClipboardResult(msg)

	case ui.ChatOpenedMsg:
		return m.handleChatOpened(msg.ID)

	case ui.ClearAllRequestedMsg:
		return m.handleClearAllRequested(msg.Count)

	case ui.RenameRequestedMsg:
		m.modal.Show(modals.NewRenameChatState(string(msg.ID), msg.Title))
		return m, nil

	case modals.HelpShortcutTriggeredMsg:
		return m.handleHelpShortcutTrigger(msg.Key)
	}

	// Update modal
	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		cmds = append(cmds, cmd)
	}

	// Tick messages are routed regardless of focus
	if cmd, handled := m.handleTickMessages(msg); handled {
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	switch m.phase {
	case PhaseAuth:
		form, cmd := m.authForm.Update(msg)
		m.authForm = form
		cmds = append(cmds, cmd)
	case PhaseMain:
		if m.focus == FocusSidebar {
			sidebar, cmd := m.sidebar.Update(msg)
			m.sidebar = sidebar
			cmds = append(cmds, cmd)
		} else {
			chat, cmd := m.chat.Update(msg)
			m.chat = chat
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles key events. A nil model means the key was not
// consumed and belongs to the focused panel.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.log().Debug("key press", "key", key, "focus", m.focus, "modal", m.modal.IsVisible())

	// ctrl+c always quits
	if key == keys.CtrlC {
		return m, tea.Quit
	}

	switch m.phase {
	case PhaseSplash, PhaseLoading:
		if key == "q" {
			return m, tea.Quit
		}
		return m, nil
	case PhaseAuth:
		form, cmd := m.authForm.Update(msg)
		m.authForm = form
		return m, cmd
	}

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	if key == keys.Escape {
		if result, cmd, handled := m.handleEscapeKey(); handled {
			return result, cmd
		}
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	if key == keys.Enter && m.focus == FocusChat && !m.chat.IsInLogViewerMode() {
		return m.sendMessage()
	}

	return nil, nil
}

// handleEscapeKey closes the log viewer or stops a pending reply.
func (m *Model) handleEscapeKey() (tea.Model, tea.Cmd, bool) {
	if m.chat.IsInLogViewerMode() {
		m.chat.ExitLogViewerMode()
		m.shown = shownChat{}
		return m, nil, true
	}
	if m.focus == FocusChat && m.cancelReply != nil {
		if id, ok := m.workspace.Registry().Current(); ok && id == m.pendingChat {
			m.stopReply()
			return m, m.ShowFlashInfo("Stopped waiting for a reply"), true
		}
	}
	return m, nil, false
}

// handleTickMessages advances animations. The bool reports whether msg was
// a tick.
func (m *Model) handleTickMessages(msg tea.Msg) (tea.Cmd, bool) {
	switch msg.(type) {
	case ui.StopwatchTickMsg, ui.CompletionFlashTickMsg:
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		return cmd, true
	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() {
			return nil, true
		}
		if m.footer.HasFlash() {
			return ui.FlashTick(), true
		}
		return nil, true
	}
	return nil, false
}
