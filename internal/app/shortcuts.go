package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/sidebar"
	"github.com/zhubert/nelson/internal/ui"
	"github.com/zhubert/nelson/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key             string                              // The key binding (e.g., "t", "ctrl+n")
	DisplayKey      string                              // Display name in help (e.g., "Ctrl+N"); defaults to Key
	Description     string                              // Human-readable description
	Category        string                              // Section for help modal grouping
	RequiresChat    bool                                // A chat must be open
	RequiresSidebar bool                                // Must not be in chat focus
	Handler         func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition       func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation = "Navigation"
	CategoryChats      = "Chats"
	CategoryChat       = "Chat (when focused)"
	CategoryAccount    = "Account"
	CategoryGeneral    = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategoryChats,
	CategoryChat,
	CategoryAccount,
	CategoryGeneral,
}

// ShortcutRegistry holds every executable shortcut. Entries here show up in
// the help modal and can be run from it.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		DisplayKey:  "Tab",
		Description: "Switch between sidebar and chat",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:         keys.CtrlB,
		DisplayKey:  "Ctrl+B",
		Description: "Show or hide the sidebar",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleSidebar,
	},

	// Chats
	{
		Key:         keys.CtrlN,
		DisplayKey:  "Ctrl+N",
		Description: "New chat",
		Category:    CategoryChats,
		Handler:     shortcutNewChat,
	},
	{
		Key:          keys.CtrlY,
		DisplayKey:   "Ctrl+Y",
		Description:  "Copy the last reply",
		Category:     CategoryChats,
		RequiresChat: true,
		Handler:      shortcutCopyReply,
	},

	// Account
	{
		Key:         keys.CtrlO,
		DisplayKey:  "Ctrl+O",
		Description: "Sign out",
		Category:    CategoryAccount,
		Handler:     shortcutSignOut,
	},

	// General
	{
		Key:             "t",
		Description:     "Change theme",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutTheme,
	},
	{
		Key:         keys.CtrlL,
		DisplayKey:  "Ctrl+L",
		Description: "View debug logs",
		Category:    CategoryGeneral,
		Handler:     shortcutViewLogs,
		Condition:   func(m *Model) bool { return !m.chat.IsInLogViewerMode() },
	},
	{
		Key:             "q",
		Description:     "Quit",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutQuit,
	},
}

// DisplayOnlyShortcuts are handled by the sidebar or chat panel themselves
// and are listed in help for reference.
var DisplayOnlyShortcuts = []Shortcut{
	{Key: "↑/↓ or j/k", Description: "Move selection", Category: CategoryNavigation},
	{Key: "[ / ]", Description: "Previous / next sidebar tab", Category: CategoryNavigation},
	{Key: "Enter", Description: "Open chat, template or setting", Category: CategoryNavigation},
	{Key: "n", Description: "New chat", Category: CategoryChats},
	{Key: "/", Description: "Search chats", Category: CategoryChats},
	{Key: "f", Description: "Cycle recency filter", Category: CategoryChats},
	{Key: "r", Description: "Rename chat", Category: CategoryChats},
	{Key: "d", Description: "Delete chat", Category: CategoryChats},
	{Key: "X", Description: "Clear all chats", Category: CategoryChats},
	{Key: "Enter", Description: "Send message", Category: CategoryChat},
	{Key: "Alt+Enter", Description: "Insert newline", Category: CategoryChat},
	{Key: "PgUp/PgDn", Description: "Scroll conversation", Category: CategoryChat},
	{Key: "Esc", Description: "Stop waiting for a reply", Category: CategoryChat},
	{Key: "?", Description: "Show this help", Category: CategoryGeneral},
}

// isShortcutApplicable checks whether a shortcut's guards pass.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.focus == FocusChat {
		return false
	}
	if s.RequiresChat && !m.chat.HasChat() {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut runs the shortcut bound to key. The bool reports whether a
// shortcut handled it; when false the key belongs to the focused panel.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	// Keys typed into the sidebar search box are not shortcuts.
	if m.sidebar.IsSearchMode() && m.focus == FocusSidebar {
		return m, nil, false
	}

	// Help is handled outside the registry; its handler reads the registry.
	if key == "?" {
		if m.focus == FocusChat {
			return m, nil, false
		}
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			m.log().Debug("shortcut guard failed", "key", key, "focus", m.focus)
			return m, nil, false
		}
		m.log().Debug("shortcut", "key", key)
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections groups the shortcuts that apply right now by
// category.
func (m *Model) getApplicableHelpSections(registry []Shortcut, displayOnly []Shortcut) []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	add := func(s Shortcut) {
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	for _, s := range registry {
		if m.isShortcutApplicable(s) {
			add(s)
		}
	}
	for _, s := range displayOnly {
		add(s)
	}

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts, ok := categories[cat]; ok && len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{
				Title:     cat,
				Shortcuts: shortcuts,
			})
		}
	}
	return sections
}

// normalizeHelpDisplayKey maps a key shown in help back to the key string
// ExecuteShortcut expects. Display-only entries map to "".
func normalizeHelpDisplayKey(displayKey string) string {
	for _, s := range DisplayOnlyShortcuts {
		if s.Key == displayKey {
			return ""
		}
	}
	for _, s := range ShortcutRegistry {
		if s.DisplayKey == displayKey {
			return s.Key
		}
	}
	return strings.ToLower(displayKey)
}

// =============================================================================
// Shortcut handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	if m.focus == FocusSidebar {
		m.setFocus(FocusChat)
	} else {
		m.setFocus(FocusSidebar)
	}
	return m, nil
}

func shortcutToggleSidebar(m *Model) (tea.Model, tea.Cmd) {
	ctrl := m.sidebar.Controller()
	ctrl.Toggle()
	m.sidebar.ExitSearchMode(false)
	m.updateSizes()
	if ctrl.IsOpen() {
		m.setFocus(FocusSidebar)
	} else {
		m.setFocus(FocusChat)
	}
	return m, nil
}

func shortcutNewChat(m *Model) (tea.Model, tea.Cmd) {
	ctrl := m.sidebar.Controller()
	ctrl.SwitchTab(sidebar.TabChats)
	return m.handleChatOpened(ctrl.NewChat())
}

func shortcutCopyReply(m *Model) (tea.Model, tea.Cmd) {
	return m.copyLastReply()
}

func shortcutSignOut(m *Model) (tea.Model, tea.Cmd) {
	m.stopReply()
	return m, tea.Batch(
		signOut(m.ctx, m.auth),
		m.ShowFlashInfo("Signing out..."),
	)
}

func shortcutTheme(m *Model) (tea.Model, tea.Cmd) {
	var options []modals.ThemeOption
	for _, name := range ui.ThemeNames() {
		options = append(options, modals.ThemeOption{
			Key:     string(name),
			Display: ui.GetTheme(name).Name,
		})
	}
	m.modal.Show(modals.NewThemeState(options, string(ui.CurrentThemeName())))
	return m, nil
}

func shortcutViewLogs(m *Model) (tea.Model, tea.Cmd) {
	m.chat.EnterLogViewerMode(ui.GetLogFiles())
	m.setFocus(FocusChat)
	return m, nil
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	sections := m.getApplicableHelpSections(ShortcutRegistry, DisplayOnlyShortcuts)
	m.modal.Show(modals.NewHelpStateFromSections(sections))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}
