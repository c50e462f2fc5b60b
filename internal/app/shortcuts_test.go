package app

import (
	"testing"

	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/ui"
	"github.com/zhubert/nelson/internal/ui/modals"
)

func TestShortcutRegistry_KeysUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range ShortcutRegistry {
		if seen[s.Key] {
			t.Errorf("duplicate shortcut key %q", s.Key)
		}
		seen[s.Key] = true
		if s.Handler == nil {
			t.Errorf("shortcut %q has no handler", s.Key)
		}
		if s.Description == "" {
			t.Errorf("shortcut %q has no description", s.Key)
		}
	}
}

func TestShortcutRegistry_CategoriesKnown(t *testing.T) {
	known := make(map[string]bool)
	for _, c := range categoryOrder {
		known[c] = true
	}
	for _, s := range append(append([]Shortcut{}, ShortcutRegistry...), DisplayOnlyShortcuts...) {
		if !known[s.Category] {
			t.Errorf("shortcut %q has unknown category %q", s.Key, s.Category)
		}
	}
}

func TestNormalizeHelpDisplayKey(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"Ctrl+N", keys.CtrlN},
		{"Ctrl+O", keys.CtrlO},
		{"Tab", keys.Tab},
		{"q", "q"},
		{"T", "t"},
		{"Enter", ""},
		{"Alt+Enter", ""},
		{"?", ""},
	}
	for _, tt := range tests {
		if got := normalizeHelpDisplayKey(tt.display); got != tt.want {
			t.Errorf("normalizeHelpDisplayKey(%q) = %q, want %q", tt.display, got, tt.want)
		}
	}
}

func TestQuit_OnlyFromSidebar(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")

	if !hasQuit(press(t, m, "q")) {
		t.Error("q did not quit from the sidebar")
	}

	openNewChat(t, m)
	if hasQuit(press(t, m, "q")) {
		t.Error("q quit while typing in the composer")
	}
	if m.chat.GetInput() != "q" {
		t.Errorf("composer = %q, want %q", m.chat.GetInput(), "q")
	}
}

func TestQuit_DuringSplash(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)

	if hasQuit(press(t, m, "x")) {
		t.Error("x quit during the splash")
	}
	if !hasQuit(press(t, m, "q")) {
		t.Error("q did not quit during the splash")
	}
	if !hasQuit(press(t, m, keys.CtrlC)) {
		t.Error("ctrl+c did not quit during the splash")
	}
}

func TestCtrlC_AlwaysQuits(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")
	openNewChat(t, m)
	if !hasQuit(press(t, m, keys.CtrlC)) {
		t.Error("ctrl+c did not quit from the composer")
	}
}

func TestTab_TogglesFocus(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")

	press(t, m, keys.Tab)
	if m.focus != FocusChat {
		t.Fatalf("focus = %v after tab, want chat", m.focus)
	}
	if m.sidebar.IsFocused() || !m.chat.IsFocused() {
		t.Error("panel focus flags not updated")
	}
	press(t, m, keys.Tab)
	if m.focus != FocusSidebar {
		t.Errorf("focus = %v after second tab, want sidebar", m.focus)
	}
}

func TestCtrlB_ReopensSidebar(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")

	press(t, m, keys.CtrlB)
	press(t, m, keys.Tab)
	if m.focus != FocusChat {
		t.Errorf("focus = %v with the sidebar closed, want chat", m.focus)
	}

	press(t, m, keys.CtrlB)
	if !m.sidebar.Controller().IsOpen() {
		t.Fatal("sidebar not reopened")
	}
	if m.focus != FocusSidebar {
		t.Errorf("focus = %v, want sidebar", m.focus)
	}
}

func TestHelp_OpensAndCloses(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")

	press(t, m, "?")
	if _, ok := m.modal.State.(*modals.HelpState); !ok {
		t.Fatalf("modal state = %T, want *modals.HelpState", m.modal.State)
	}
	press(t, m, "?")
	if m.modal.IsVisible() {
		t.Error("help still visible after second ?")
	}
}

func TestHelp_SectionsRespectGuards(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")

	sections := m.getApplicableHelpSections(ShortcutRegistry, DisplayOnlyShortcuts)
	if len(sections) == 0 {
		t.Fatal("no help sections")
	}
	if sections[0].Title != CategoryNavigation {
		t.Errorf("first section = %q, want %q", sections[0].Title, CategoryNavigation)
	}
	for _, sec := range sections {
		for _, sc := range sec.Shortcuts {
			if sc.Key == "Ctrl+Y" {
				t.Error("copy reply listed without an open chat")
			}
		}
	}
}

func TestHelp_TriggerRunsShortcut(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")

	send(t, m, modals.HelpShortcutTriggeredMsg{Key: "Ctrl+N"})
	if m.Workspace().Registry().Len() != 1 {
		t.Errorf("Len() = %d after triggering new chat, want 1", m.Workspace().Registry().Len())
	}

	send(t, m, modals.HelpShortcutTriggeredMsg{Key: "Enter"})
	if m.Workspace().Registry().Len() != 1 {
		t.Error("display-only entry ran an action")
	}
}

func TestLogViewer_OpenAndClose(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")

	press(t, m, keys.CtrlL)
	if !m.chat.IsInLogViewerMode() {
		t.Fatal("log viewer not shown after ctrl+l")
	}
	if m.focus != FocusChat {
		t.Errorf("focus = %v, want chat", m.focus)
	}

	press(t, m, keys.Escape)
	if m.chat.IsInLogViewerMode() {
		t.Error("log viewer still shown after esc")
	}
}

func TestTheme_ModalCancel(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")
	before := ui.CurrentThemeName()

	press(t, m, "t")
	if _, ok := m.modal.State.(*modals.ThemeState); !ok {
		t.Fatalf("modal state = %T, want *modals.ThemeState", m.modal.State)
	}
	press(t, m, keys.Escape)
	if m.modal.IsVisible() {
		t.Error("theme modal still visible after esc")
	}
	if ui.CurrentThemeName() != before {
		t.Error("theme changed on cancel")
	}
}

func TestShortcuts_IgnoredInSearchMode(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")
	m.sidebar.EnterSearchMode()

	if hasQuit(press(t, m, "q")) {
		t.Error("q quit while typing a search")
	}
	if m.Workspace().Registry().Len() != 0 {
		t.Error("search typing created a chat")
	}
}
