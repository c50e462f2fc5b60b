package modals

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize/english"
)

// =============================================================================
// ConfirmClearAllState - State for the Clear All Chats confirmation
// =============================================================================

type ConfirmClearAllState struct {
	ChatCount int

	confirmed bool
	form      *huh.Form
}

func (*ConfirmClearAllState) modalState() {}

func (s *ConfirmClearAllState) Title() string { return "Clear All Chats?" }

func (s *ConfirmClearAllState) Help() string {
	return "left/right or y/n to choose, Enter to confirm, Esc to cancel"
}

func (s *ConfirmClearAllState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	message := lipgloss.NewStyle().
		Foreground(ColorText).
		MarginBottom(1).
		Render(fmt.Sprintf("This permanently removes %s from your history.",
			english.Plural(s.ChatCount, "chat", "")))

	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, message, s.form.View(), help)
}

func (s *ConfirmClearAllState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Confirmed reports whether the affirmative button is selected.
func (s *ConfirmClearAllState) Confirmed() bool {
	return s.confirmed
}

// NewConfirmClearAllState creates a confirmation defaulting to Cancel.
func NewConfirmClearAllState(chatCount int) *ConfirmClearAllState {
	s := &ConfirmClearAllState{ChatCount: chatCount}
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Affirmative("Clear All").
				Negative("Cancel").
				Value(&s.confirmed),
		),
	).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalWidth - 10)

	initHuhForm(s.form)
	return s
}

// =============================================================================
// RenameChatState - State for the Rename Chat modal
// =============================================================================

type RenameChatState struct {
	ChatID  string
	Current string

	form  *huh.Form
	title string
}

func (*RenameChatState) modalState() {}

func (s *RenameChatState) Title() string { return "Rename Chat" }

func (s *RenameChatState) Help() string {
	return "Enter to save, Esc to cancel"
}

func (s *RenameChatState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *RenameChatState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// GetNewName returns the entered title.
func (s *RenameChatState) GetNewName() string {
	return s.title
}

// NewRenameChatState creates a rename modal prefilled with the current title.
func NewRenameChatState(chatID, current string) *RenameChatState {
	s := &RenameChatState{ChatID: chatID, Current: current, title: current}
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				CharLimit(ModalInputCharLimit).
				Value(&s.title),
		),
	).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalInputWidth)

	initHuhForm(s.form)
	return s
}

// =============================================================================
// ThemeState - State for the theme picker
// =============================================================================

// ThemeOption is a selectable theme.
type ThemeOption struct {
	Key     string
	Display string
}

type ThemeState struct {
	Original string

	selected string
	form     *huh.Form
}

func (*ThemeState) modalState() {}

func (s *ThemeState) Title() string { return "Theme" }

func (s *ThemeState) Help() string {
	return "up/down to choose, Enter to apply, Esc to cancel"
}

func (s *ThemeState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *ThemeState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// GetSelectedTheme returns the highlighted theme key.
func (s *ThemeState) GetSelectedTheme() string {
	return s.selected
}

// ThemeChanged reports whether the selection differs from the active theme.
func (s *ThemeState) ThemeChanged() bool {
	return s.selected != s.Original
}

// NewThemeState creates a picker over options with current preselected.
func NewThemeState(options []ThemeOption, current string) *ThemeState {
	s := &ThemeState{Original: current, selected: current}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Display, opt.Key)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(huhOptions...).
				Value(&s.selected),
		),
	).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalWidth - 10)

	initHuhForm(s.form)
	return s
}
