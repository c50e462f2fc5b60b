package modals

import (
	"image/color"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/nelson/internal/keys"
)

// initHuhForm runs the form's Init so the first render is complete.
func initHuhForm(form *huh.Form) {
	form.Init()
}

// huhFormUpdate forwards msg to form. Enter and Esc belong to the app's
// modal handlers and never reach huh.
func huhFormUpdate(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && (k.String() == keys.Enter || k.String() == keys.Escape) {
		return form, nil
	}
	m, cmd := form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		form = f
	}
	return form, cmd
}

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// ModalTheme is the huh theme shared by the auth form and the dialogs. It
// reads the current palette, so build it per form.
func ModalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		button := lipgloss.NewStyle().Padding(0, 2).MarginRight(1)

		f := &t.Focused
		f.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		f.Card = f.Base
		f.Title = fg(ColorText).Bold(true)
		f.Description = fg(ColorTextMuted).Italic(true)
		f.ErrorIndicator = fg(ColorError).SetString(" *")
		f.ErrorMessage = fg(ColorError)
		f.SelectSelector = fg(ColorPrimary).SetString("> ")
		f.Option = fg(ColorText)
		f.SelectedOption = fg(ColorSecondary)
		f.NextIndicator = fg(ColorPrimary).MarginLeft(1).SetString("→")
		f.PrevIndicator = fg(ColorPrimary).MarginRight(1).SetString("←")
		f.FocusedButton = button.Foreground(ColorTextInverse).Background(ColorPrimary)
		f.BlurredButton = button.Foreground(ColorTextMuted)
		f.TextInput.Cursor = fg(ColorPrimary)
		f.TextInput.Prompt = fg(ColorPrimary)
		f.TextInput.Text = fg(ColorText)
		f.TextInput.Placeholder = fg(ColorTextMuted)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base
		t.Blurred.NextIndicator = lipgloss.NewStyle()
		t.Blurred.PrevIndicator = lipgloss.NewStyle()

		t.Group.Title = fg(ColorSecondary).Bold(true)
		t.Group.Description = fg(ColorTextMuted)
		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles
		return t
	})
}
