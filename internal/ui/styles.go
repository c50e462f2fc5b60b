package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette. Reassigned by regenerateStyles whenever the theme changes.
var (
	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorBorder      color.Color
	ColorBorderFocus color.Color
	ColorBg          color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorUser        color.Color
	ColorAssistant   color.Color
	ColorWarning     color.Color
	ColorInfo        color.Color
	ColorError       color.Color
	ColorSuccess     color.Color
	ColorEmergency   color.Color
	ColorHigh        color.Color
	ColorMedium      color.Color
)

// Header and footer
var (
	HeaderStyle      lipgloss.Style
	HeaderTitleStyle lipgloss.Style
	FooterStyle      lipgloss.Style
	FooterKeyStyle   lipgloss.Style
	FooterDescStyle  lipgloss.Style
)

// Panels
var (
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style
)

// Sidebar
var (
	SidebarTabStyle       lipgloss.Style
	SidebarTabActiveStyle lipgloss.Style
	SidebarSectionStyle   lipgloss.Style
	SidebarItemStyle      lipgloss.Style
	SidebarSelectedStyle  lipgloss.Style
	SidebarCurrentStyle   lipgloss.Style
	SidebarMetaStyle      lipgloss.Style
	SidebarBadgeStyle     lipgloss.Style
	SidebarDangerStyle    lipgloss.Style
	DisclaimerStyle       lipgloss.Style
)

// Chat
var (
	ChatUserStyle         lipgloss.Style
	ChatAssistantStyle    lipgloss.Style
	ChatMessageStyle      lipgloss.Style
	ChatTimestampStyle    lipgloss.Style
	ChatNumberStyle       lipgloss.Style
	ChatCitationStyle     lipgloss.Style
	ChatInputStyle        lipgloss.Style
	ChatInputFocusedStyle lipgloss.Style
	CodeBlockStyle        lipgloss.Style
	InlineCodeStyle       lipgloss.Style
	BoldStyle             lipgloss.Style
	HeadingStyle          lipgloss.Style
	ListBulletStyle       lipgloss.Style
)

// Modals, status and auth
var (
	ModalStyle         lipgloss.Style
	ModalTitleStyle    lipgloss.Style
	ModalHelpStyle     lipgloss.Style
	StatusLoadingStyle lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	AuthBoxStyle       lipgloss.Style
	AuthButtonStyle    lipgloss.Style
	AuthLinkStyle      lipgloss.Style
	SplashTitleStyle   lipgloss.Style
	SplashTaglineStyle lipgloss.Style
)

func buildStyles(t Theme) {
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText).
		Background(ColorPrimary).
		Padding(0, 1)
	HeaderTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)
	FooterKeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)
	FooterDescStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)
	PanelFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus)
	PanelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(0, 1)

	SidebarTabStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)
	SidebarTabActiveStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Underline(true).
		Padding(0, 1)
	SidebarSectionStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Bold(true)
	SidebarItemStyle = lipgloss.NewStyle().
		Padding(0, 1)
	SidebarSelectedStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(t.GetBgSelected())).
		Foreground(lipgloss.Color(t.Text)).
		Bold(true).
		Padding(0, 1)
	SidebarCurrentStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	SidebarMetaStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)
	SidebarBadgeStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Border(lipgloss.NormalBorder(), false, true).
		BorderForeground(ColorBorder)
	SidebarDangerStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	DisclaimerStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1)

	ChatUserStyle = lipgloss.NewStyle().
		Foreground(ColorUser).
		Bold(true)
	ChatAssistantStyle = lipgloss.NewStyle().
		Foreground(ColorAssistant).
		Bold(true)
	ChatMessageStyle = lipgloss.NewStyle().
		Foreground(ColorText)
	ChatTimestampStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)
	ChatNumberStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)
	ChatCitationStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.CitationText)).
		Italic(true)
	ChatInputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	ChatInputFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus).
		Padding(0, 1)
	CodeBlockStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(t.CodeBg)).
		Padding(0, 1)
	InlineCodeStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Background(lipgloss.Color(t.CodeBg))
	BoldStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText)
	HeadingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	ListBulletStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Width(ModalWidth)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		MarginTop(1)

	StatusLoadingStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Italic(true)
	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	AuthBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Width(AuthFormWidth)
	AuthButtonStyle = lipgloss.NewStyle().
		Foreground(ColorTextInverse).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 2)
	AuthLinkStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Underline(true)

	SplashTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	SplashTaglineStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)
}
