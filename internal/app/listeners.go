package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/nelson/internal/auth"
	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/settings"
	"github.com/zhubert/nelson/internal/storage"
	"github.com/zhubert/nelson/internal/ui"
)

// listenForAuthChanges waits for the next auth state change. The controller
// coalesces signals, so the message always carries the latest state. It
// returns nil once the controller is closed.
func (m *Model) listenForAuthChanges() tea.Cmd {
	ctrl := m.auth
	return func() tea.Msg {
		if _, ok := <-ctrl.Changes(); !ok {
			return nil
		}
		return AuthChangedMsg{State: ctrl.State()}
	}
}

// listenForStorageErrors waits for the next failed write of the current
// mount.
func (m *Model) listenForStorageErrors() tea.Cmd {
	ch := m.workspace.Errors()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return StorageErrorMsg{Err: err}
	}
}

// loadWorkspace reads owner's chats and settings.
func loadWorkspace(ctx context.Context, store *storage.Store, owner string) tea.Cmd {
	return func() tea.Msg {
		msg := WorkspaceLoadedMsg{Owner: owner, Settings: settings.Defaults()}
		if store == nil {
			return msg
		}
		chats, err := store.LoadChats(ctx, owner)
		if err != nil {
			msg.Err = err
			return msg
		}
		msg.Chats = chats
		s, err := store.LoadSettings(ctx, owner)
		if err != nil {
			msg.Err = err
			return msg
		}
		msg.Settings = s
		return msg
	}
}

// signIn runs a sign-in or sign-up against the controller.
func signIn(ctx context.Context, ctrl *auth.Controller, req ui.AuthSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		var res auth.Result
		if req.Mode == ui.AuthSignUp {
			res = ctrl.SignUp(ctx, req.Email, req.Password)
		} else {
			res = ctrl.SignIn(ctx, req.Email, req.Password)
		}
		return AuthResultMsg{Mode: req.Mode, Result: res}
	}
}

// signOut ends the session. The user clears through the auth change that
// follows.
func signOut(ctx context.Context, ctrl *auth.Controller) tea.Cmd {
	return func() tea.Msg {
		return SignOutResultMsg{Err: ctrl.SignOut(ctx)}
	}
}

// requestReply asks the responder to answer history.
func (m *Model) requestReply(ctx context.Context, id chat.ID, history []chat.Message) tea.Cmd {
	responder := m.responder
	return func() tea.Msg {
		content, err := responder.Respond(ctx, history)
		return ReplyMsg{ChatID: id, Content: content, Err: err}
	}
}
