package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType selects the icon and color of a flash message.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// FlashMessage is a transient status line that replaces the key bindings.
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has outlived its duration.
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg drives flash expiry.
type FlashTickMsg time.Time

// FlashTick schedules the next expiry check.
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width          int
	bindings       []KeyBinding
	hasChat        bool // Whether a chat is selected
	sidebarFocused bool // Whether sidebar has focus
	waiting        bool // Whether a reply is pending for the current chat
	searching      bool // Whether the sidebar search box has focus
	flashMessage   *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "tab", Desc: "switch pane"},
			{Key: "n", Desc: "new chat"},
			{Key: "[/]", Desc: "tabs"},
			{Key: "/", Desc: "search"},
			{Key: "d", Desc: "delete"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(hasChat, sidebarFocused, waiting, searching bool) {
	f.hasChat = hasChat
	f.sidebarFocused = sidebarFocused
	f.waiting = waiting
	f.searching = searching
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetBindings allows custom keybindings
func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

// SetFlash shows a message for DefaultFlashDuration.
func (f *Footer) SetFlash(text string, t FlashType) {
	f.SetFlashWithDuration(text, t, DefaultFlashDuration)
}

// SetFlashWithDuration shows a message for d.
func (f *Footer) SetFlashWithDuration(text string, t FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      t,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// ClearFlash removes any flash message.
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is showing.
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired drops an expired flash and reports whether it did.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

func (f *Footer) renderFlash() string {
	var icon string
	fg := ColorInfo
	switch f.flashMessage.Type {
	case FlashError:
		icon, fg = "✕", ColorError
	case FlashWarning:
		icon, fg = "⚠", ColorWarning
	case FlashSuccess:
		icon, fg = "✓", ColorSuccess
	default:
		icon = "ℹ"
	}
	content := lipgloss.NewStyle().Foreground(fg).Bold(true).Render(icon + " " + f.flashMessage.Text)
	return FooterStyle.Width(f.width).Render(content)
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		return f.renderFlash()
	}

	var bindings []KeyBinding
	switch {
	case f.searching:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "done"},
			{Key: "esc", Desc: "clear search"},
		}
	case f.waiting && !f.sidebarFocused:
		bindings = []KeyBinding{
			{Key: "esc", Desc: "stop"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "pgup/dn", Desc: "scroll"},
		}
	case !f.sidebarFocused && f.hasChat:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "alt+enter", Desc: "newline"},
			{Key: "ctrl+y", Desc: "copy reply"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "pgup/dn", Desc: "scroll"},
		}
	default:
		for _, b := range f.bindings {
			if b.Key == "d" && !f.hasChat {
				continue
			}
			if b.Key != "tab" && !f.sidebarFocused {
				continue
			}
			bindings = append(bindings, b)
		}
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")
	return FooterStyle.Width(f.width).Render(content)
}
