package ui

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/settings"
	"github.com/zhubert/nelson/internal/sidebar"
)

// fakeWorkspace satisfies sidebar.Source and sidebar.Commands with a real
// registry and settings store.
type fakeWorkspace struct {
	reg   *chat.Registry
	store *settings.Store
	calls []string
}

func newFakeWorkspace() *fakeWorkspace {
	n := 0
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &fakeWorkspace{
		reg: chat.NewRegistry(
			chat.WithClock(func() time.Time {
				n++
				return base.Add(time.Duration(n) * time.Minute)
			}),
		),
		store: settings.NewStore(settings.Defaults()),
	}
}

func (w *fakeWorkspace) NewChat(initial string) chat.ID {
	w.calls = append(w.calls, "new:"+initial)
	return w.reg.Create(initial)
}

func (w *fakeWorkspace) SelectChat(id chat.ID) {
	w.calls = append(w.calls, "select:"+string(id))
	_ = w.reg.Select(id)
}

func (w *fakeWorkspace) DeleteChat(id chat.ID) {
	w.calls = append(w.calls, "delete:"+string(id))
	w.reg.Delete(id)
}

func (w *fakeWorkspace) ClearChats() {
	w.calls = append(w.calls, "clear")
	w.reg.ClearAll()
}

func (w *fakeWorkspace) UpdateSettings(p settings.Patch) {
	w.calls = append(w.calls, "settings")
	w.store.Patch(p)
}

func (w *fakeWorkspace) Chats() []chat.Chat { return w.reg.List() }
func (w *fakeWorkspace) CurrentChatID() (chat.ID, bool) { return w.reg.Current() }
func (w *fakeWorkspace) Settings() settings.UserSettings { return w.store.Get() }

// addChat creates a chat with one user message.
func (w *fakeWorkspace) addChat(text string) chat.ID {
	id := w.reg.Create("")
	if _, err := w.reg.Append(id, chat.RoleUser, text); err != nil {
		panic(fmt.Sprintf("append: %v", err))
	}
	return id
}

func newTestSidebar() (*Sidebar, *fakeWorkspace) {
	ws := newFakeWorkspace()
	ctrl := sidebar.New(ws, ws)
	ctrl.SetClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) })
	s := NewSidebar(ctrl)
	s.SetSize(40, 60)
	s.SetFocused(true)
	return s, ws
}

// keyPress builds the key message for a key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Space:
		return tea.KeyPressMsg{Code: tea.KeySpace}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	}
	r := []rune(key)[0]
	return tea.KeyPressMsg{Code: r, Text: key}
}

// runCmd executes cmd and returns its message, or nil.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
