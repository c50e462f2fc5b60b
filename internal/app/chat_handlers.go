package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize/english"

	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/clipboard"
	nerrors "github.com/zhubert/nelson/internal/errors"
	"github.com/zhubert/nelson/internal/notification"
	"github.com/zhubert/nelson/internal/ui"
	"github.com/zhubert/nelson/internal/ui/modals"
)

// ClipboardResultMsg reports the outcome of a copy.
type ClipboardResultMsg struct {
	Err error
}

// sendMessage appends the composer text to the current chat and asks the
// responder for a reply.
func (m *Model) sendMessage() (tea.Model, tea.Cmd) {
	id, ok := m.workspace.Registry().Current()
	if !ok {
		return m, nil
	}
	text := m.chat.GetInput()
	if text == "" {
		return m, nil
	}
	if m.cancelReply != nil {
		return m, m.ShowFlashWarning("Wait for the current reply, or press esc to stop it")
	}

	if _, err := m.workspace.Append(id, chat.RoleUser, text); err != nil {
		m.log().Error("append failed", "chat", id, "error", err)
		return m, m.ShowFlashError("Could not send message")
	}
	m.chat.ClearInput()
	m.workspace.Classify(id)

	current, _ := m.workspace.Registry().Get(id)
	ctx, cancel := m.replyContext()
	m.pendingChat = id
	m.cancelReply = cancel
	m.log().Debug("requesting reply", "chat", id, "messages", len(current.Messages))
	return m, m.requestReply(ctx, id, current.Messages)
}

func (m *Model) replyContext() (context.Context, context.CancelFunc) {
	if d := m.config.Assistant.Timeout; d > 0 {
		return context.WithTimeout(m.ctx, d)
	}
	return context.WithCancel(m.ctx)
}

// stopReply abandons the in-flight request, if any.
func (m *Model) stopReply() {
	if m.cancelReply == nil {
		return
	}
	m.log().Debug("reply cancelled", "chat", m.pendingChat)
	m.cancelReply()
	m.cancelReply = nil
	m.pendingChat = ""
}

// handleReplyMsg stores the assistant's answer, reclassifies the chat and
// lets the user know.
func (m *Model) handleReplyMsg(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if m.cancelReply == nil || msg.ChatID != m.pendingChat {
		m.log().Debug("stale reply dropped", "chat", msg.ChatID)
		return m, nil
	}
	m.cancelReply()
	m.cancelReply = nil
	m.pendingChat = ""

	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		err := nerrors.ResponderFailed(string(msg.ChatID), msg.Err)
		m.log().Error("reply failed", "error", err)
		if errors.Is(msg.Err, context.DeadlineExceeded) {
			return m, m.ShowFlashError("NelsonGPT took too long to answer")
		}
		return m, m.ShowFlashError("NelsonGPT could not answer: " + nerrors.Message(msg.Err))
	}

	if _, err := m.workspace.Append(msg.ChatID, chat.RoleAssistant, msg.Content); err != nil {
		// The chat was deleted while waiting.
		m.log().Debug("reply for missing chat", "chat", msg.ChatID)
		return m, nil
	}
	md := m.workspace.Classify(msg.ChatID)
	m.log().Debug("reply stored", "chat", msg.ChatID, "urgency", md.Urgency.String(), "domain", md.MedicalDomain)

	c, _ := m.workspace.Registry().Get(msg.ChatID)
	cmds := []tea.Cmd{m.notifyReply(c.Title)}
	if id, ok := m.workspace.Registry().Current(); ok && id == msg.ChatID {
		cmds = append(cmds, m.syncChatPanel(), m.chat.StartCompletionFlash())
	} else {
		cmds = append(cmds, m.ShowFlashInfo(fmt.Sprintf("Reply ready in %q", c.Title)))
	}
	return m, tea.Batch(cmds...)
}

// notifyReply plays the reply sound and posts a desktop notification,
// whichever are enabled.
func (m *Model) notifyReply(title string) tea.Cmd {
	sound := m.workspace.Settings().SoundEnabled
	desktop := m.config.NotificationsEnabled()
	if !sound && !desktop {
		return nil
	}
	log := m.log()
	return func() tea.Msg {
		if desktop {
			if err := notification.ReplyReady(title); err != nil {
				log.Debug("notification failed", "error", err)
			}
		}
		if sound {
			if err := notification.Beep(); err != nil {
				log.Debug("beep failed", "error", err)
			}
		}
		return nil
	}
}

// handleChatOpened focuses the composer on a chat the sidebar opened.
func (m *Model) handleChatOpened(id chat.ID) (tea.Model, tea.Cmd) {
	if _, ok := m.workspace.Registry().Get(id); !ok {
		return m, nil
	}
	m.sidebar.SelectChat(id)
	m.chat.ExitLogViewerMode()
	m.setFocus(FocusChat)
	return m, nil
}

// handleClearAllRequested asks for confirmation when configured, otherwise
// clears straight away.
func (m *Model) handleClearAllRequested(count int) (tea.Model, tea.Cmd) {
	if count == 0 {
		return m, nil
	}
	if m.config.ConfirmClearAll() {
		m.modal.Show(modals.NewConfirmClearAllState(count))
		return m, nil
	}
	return m, m.clearAllChats()
}

func (m *Model) clearAllChats() tea.Cmd {
	n := m.workspace.Registry().Len()
	if m.pendingChat != "" {
		m.stopReply()
	}
	m.sidebar.Controller().ClearAll()
	m.log().Info("cleared chats", "count", n)
	return m.ShowFlashSuccess("Cleared " + english.Plural(n, "chat", ""))
}

// copyLastReply puts the current chat's latest answer on the clipboard.
func (m *Model) copyLastReply() (tea.Model, tea.Cmd) {
	current, ok := m.workspace.Registry().CurrentChat()
	if !ok {
		return m, nil
	}
	reply, ok := current.LastAssistantMessage()
	if !ok {
		return m, m.ShowFlashInfo("No reply to copy yet")
	}
	text := reply.Content
	return m, func() tea.Msg {
		return ClipboardResultMsg{Err: clipboard.WriteText(text)}
	}
}

func (m *Model) handleClipboardResult(msg ClipboardResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log().Error("clipboard write failed", "error", msg.Err)
		return m, m.ShowFlashError("Failed to copy to clipboard")
	}
	return m, m.ShowFlash("Copied reply to clipboard", ui.FlashSuccess)
}
