package modals

import (
	"image/color"

	"charm.land/bubbles/v2/textarea"
	"charm.land/lipgloss/v2"
)

// Palette carries the theme colors the modals draw with.
type Palette struct {
	Primary     color.Color
	Secondary   color.Color
	Text        color.Color
	TextMuted   color.Color
	TextInverse color.Color
	Warning     color.Color
	Error       color.Color
}

// Style variables - these will be set by the parent ui package via SetStyles
var (
	ModalTitleStyle      lipgloss.Style
	ModalHelpStyle       lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	StatusErrorStyle     lipgloss.Style

	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorWarning     color.Color
	ColorError       color.Color

	ModalInputWidth     int
	ModalInputCharLimit = 256
	ModalWidth          int
)

// HelpModalMaxVisible is the number of list rows shown by the help modal.
const HelpModalMaxVisible = 18

// SetStyles sets the style variables from the parent ui package.
// This must be called before rendering any modals.
func SetStyles(
	modalTitle, modalHelp, sidebarItem, sidebarSelected, statusError lipgloss.Style,
	p Palette,
	inputWidth, modalWidth int,
) {
	ModalTitleStyle = modalTitle
	ModalHelpStyle = modalHelp
	SidebarItemStyle = sidebarItem
	SidebarSelectedStyle = sidebarSelected
	StatusErrorStyle = statusError

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorText = p.Text
	ColorTextMuted = p.TextMuted
	ColorTextInverse = p.TextInverse
	ColorWarning = p.Warning
	ColorError = p.Error

	ModalInputWidth = inputWidth
	ModalWidth = modalWidth
}

// ApplyTextareaStyles configures a textarea with transparent background styles
// so it matches the terminal background instead of the default black.
func ApplyTextareaStyles(ta *textarea.Model) {
	styles := ta.Styles()

	baseStyle := lipgloss.NewStyle()
	textStyle := lipgloss.NewStyle().
		Foreground(ColorText)
	placeholderStyle := lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	styles.Focused.Base = baseStyle
	styles.Focused.Text = textStyle
	styles.Focused.Placeholder = placeholderStyle
	styles.Focused.CursorLine = textStyle
	styles.Focused.Prompt = textStyle

	styles.Blurred.Base = baseStyle
	styles.Blurred.Text = textStyle
	styles.Blurred.Placeholder = placeholderStyle
	styles.Blurred.CursorLine = textStyle
	styles.Blurred.Prompt = textStyle

	ta.SetStyles(styles)
}
