package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/nelson/internal/ui"
)

// setPhase switches screens.
func (m *Model) setPhase(p Phase) {
	if m.phase == p {
		return
	}
	m.log().Info("phase change", "to", p.String())
	m.phase = p
}

// enterLoading shows the loading screen, restarting its animation if it had
// stopped.
func (m *Model) enterLoading() tea.Cmd {
	m.setPhase(PhaseLoading)
	if m.splashTicking {
		return nil
	}
	m.splashTicking = true
	return ui.SplashTick()
}

// syncPhase moves to the screen that matches the auth state. The splash
// always runs to completion first.
func (m *Model) syncPhase() tea.Cmd {
	if !m.splashDone {
		return nil
	}

	state := m.auth.State()
	m.authForm.SetLoading(state.Loading)

	switch {
	case state.Loading:
		return m.enterLoading()

	case state.User == nil:
		m.leaveMain()
		m.setPhase(PhaseAuth)
		return nil

	default:
		owner := state.User.ID
		if m.workspace.Owner() == owner {
			m.setPhase(PhaseMain)
			return nil
		}
		if m.loadingOwner == owner {
			return m.enterLoading()
		}
		m.leaveMain()
		m.loadingOwner = owner
		m.log().Debug("loading workspace", "owner", owner)
		return tea.Batch(m.enterLoading(), loadWorkspace(m.ctx, m.store, owner))
	}
}

// leaveMain tears down the signed-in view.
func (m *Model) leaveMain() {
	m.stopReply()
	m.loadingOwner = ""
	m.modal.Hide()
	m.sidebar.ExitSearchMode(true)
	m.chat.ExitLogViewerMode()
	m.workspace.Unmount()
	m.chat.ClearChat()
	m.shown = shownChat{}
	m.header.SetChatTitle("")
	m.header.SetUserEmail("")
}

// handleSplashTick animates the splash and loading screens.
func (m *Model) handleSplashTick() tea.Cmd {
	if m.phase != PhaseSplash && m.phase != PhaseLoading {
		m.splashTicking = false
		return nil
	}
	m.splash.Advance()
	return ui.SplashTick()
}

// handleWorkspaceLoaded mounts the signed-in user's data and shows the main
// screen.
func (m *Model) handleWorkspaceLoaded(msg WorkspaceLoadedMsg) (tea.Model, tea.Cmd) {
	user, ok := m.auth.User()
	if msg.Owner != m.loadingOwner || !ok || user.ID != msg.Owner {
		m.log().Debug("stale workspace load ignored", "owner", msg.Owner)
		return m, nil
	}
	m.loadingOwner = ""

	if msg.Err != nil {
		m.workspace.MountReadOnly(msg.Owner, msg.Chats, msg.Settings)
	} else {
		m.workspace.Mount(msg.Owner, msg.Chats, msg.Settings)
	}
	m.header.SetUserEmail(user.Email)
	m.authForm.Reset()
	m.setPhase(PhaseMain)
	m.setFocus(FocusSidebar)

	cmds := []tea.Cmd{m.listenForStorageErrors()}
	if msg.Err != nil {
		m.log().Error("failed to load workspace", "owner", msg.Owner, "error", msg.Err)
		cmds = append(cmds, m.ShowFlashError("Could not load your saved chats; changes will not be saved"))
	}
	return m, tea.Batch(cmds...)
}

// handleAuthSubmit runs the credentials from the auth form.
func (m *Model) handleAuthSubmit(msg ui.AuthSubmitMsg) (tea.Model, tea.Cmd) {
	if m.phase != PhaseAuth {
		m.authForm.SetPending(false)
		return m, nil
	}
	m.log().Debug("auth submit", "mode", msg.Mode.String(), "email", msg.Email)
	return m, signIn(m.ctx, m.auth, msg)
}

// handleAuthResult shows a rejected sign-in inline. A successful one is
// followed by an auth change, which moves the app on.
func (m *Model) handleAuthResult(msg AuthResultMsg) (tea.Model, tea.Cmd) {
	m.authForm.SetPending(false)
	if !msg.Result.OK() {
		m.authForm.SetError(msg.Result.Error)
		return m, nil
	}
	if msg.Mode == ui.AuthSignUp && m.phase == PhaseAuth && !m.config.AutoSignIn() {
		if m.authForm.Mode() == ui.AuthSignUp {
			m.authForm.ToggleMode()
		}
		return m, m.ShowFlashSuccess("Account created. Sign in to continue.")
	}
	return m, nil
}

// handleSignOutResult reports a failed sign-out.
func (m *Model) handleSignOutResult(msg SignOutResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		return m, nil
	}
	m.log().Error("sign out failed", "error", msg.Err)
	return m, m.ShowFlashError("Sign out failed")
}
