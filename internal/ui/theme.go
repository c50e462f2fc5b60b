// Themes define the color palette used throughout the UI.
package ui

import (
	"charm.land/lipgloss/v2"

	"github.com/zhubert/nelson/internal/ui/modals"
)

// Theme defines a complete color palette for the application.
type Theme struct {
	Name string

	Primary   string
	Secondary string

	Bg         string
	BgSelected string // defaults to Primary if empty

	Text        string
	TextMuted   string
	TextInverse string

	User      string
	Assistant string
	Warning   string
	Error     string
	Info      string
	Success   string

	Border      string
	BorderFocus string // defaults to Primary if empty

	// Urgency glyph colors
	Emergency string
	High      string
	Medium    string

	CodeBg       string
	CodeStyle    string // chroma style name
	CitationText string
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// ThemeName identifies a built-in theme.
type ThemeName string

const (
	ThemeClinical ThemeName = "clinical"
	ThemeNord     ThemeName = "nord"
	ThemeDracula  ThemeName = "dracula"
	ThemeGruvbox  ThemeName = "gruvbox"
	ThemeLight    ThemeName = "light"
)

// DefaultTheme is used when the configured theme is unknown.
const DefaultTheme = ThemeClinical

// BuiltinThemes contains all available themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeClinical: {
		Name:         "Clinical",
		Primary:      "#2563EB",
		Secondary:    "#14B8A6",
		Bg:           "#0F172A",
		BgSelected:   "#1E3A8A",
		Text:         "#F8FAFC",
		TextMuted:    "#94A3B8",
		TextInverse:  "#0F172A",
		User:         "#93C5FD",
		Assistant:    "#5EEAD4",
		Warning:      "#F59E0B",
		Error:        "#EF4444",
		Info:         "#38BDF8",
		Success:      "#22C55E",
		Border:       "#334155",
		Emergency:    "#EF4444",
		High:         "#F97316",
		Medium:       "#EAB308",
		CodeBg:       "#1E293B",
		CodeStyle:    "monokai",
		CitationText: "#A5B4FC",
	},
	ThemeNord: {
		Name:         "Nord",
		Primary:      "#88C0D0",
		Secondary:    "#81A1C1",
		Bg:           "#2E3440",
		Text:         "#ECEFF4",
		TextMuted:    "#D8DEE9",
		TextInverse:  "#2E3440",
		User:         "#A3BE8C",
		Assistant:    "#88C0D0",
		Warning:      "#EBCB8B",
		Error:        "#BF616A",
		Info:         "#81A1C1",
		Success:      "#A3BE8C",
		Border:       "#4C566A",
		Emergency:    "#BF616A",
		High:         "#D08770",
		Medium:       "#EBCB8B",
		CodeBg:       "#242933",
		CodeStyle:    "nord",
		CitationText: "#B48EAD",
	},
	ThemeDracula: {
		Name:         "Dracula",
		Primary:      "#BD93F9",
		Secondary:    "#8BE9FD",
		Bg:           "#282A36",
		Text:         "#F8F8F2",
		TextMuted:    "#6272A4",
		TextInverse:  "#282A36",
		User:         "#FF79C6",
		Assistant:    "#8BE9FD",
		Warning:      "#FFB86C",
		Error:        "#FF5555",
		Info:         "#8BE9FD",
		Success:      "#50FA7B",
		Border:       "#44475A",
		Emergency:    "#FF5555",
		High:         "#FFB86C",
		Medium:       "#F1FA8C",
		CodeBg:       "#21222C",
		CodeStyle:    "dracula",
		CitationText: "#BD93F9",
	},
	ThemeGruvbox: {
		Name:         "Gruvbox Dark",
		Primary:      "#FE8019",
		Secondary:    "#83A598",
		Bg:           "#282828",
		Text:         "#EBDBB2",
		TextMuted:    "#A89984",
		TextInverse:  "#282828",
		User:         "#FABD2F",
		Assistant:    "#83A598",
		Warning:      "#FE8019",
		Error:        "#FB4934",
		Info:         "#83A598",
		Success:      "#B8BB26",
		Border:       "#504945",
		Emergency:    "#FB4934",
		High:         "#FE8019",
		Medium:       "#FABD2F",
		CodeBg:       "#1D2021",
		CodeStyle:    "gruvbox",
		CitationText: "#D3869B",
	},
	ThemeLight: {
		Name:         "Light",
		Primary:      "#2563EB",
		Secondary:    "#0D9488",
		Bg:           "#FFFFFF",
		BgSelected:   "#DBEAFE",
		Text:         "#1F2937",
		TextMuted:    "#6B7280",
		TextInverse:  "#FFFFFF",
		User:         "#1D4ED8",
		Assistant:    "#0F766E",
		Warning:      "#D97706",
		Error:        "#DC2626",
		Info:         "#0284C7",
		Success:      "#16A34A",
		Border:       "#D1D5DB",
		Emergency:    "#DC2626",
		High:         "#EA580C",
		Medium:       "#CA8A04",
		CodeBg:       "#F3F4F6",
		CodeStyle:    "github",
		CitationText: "#4338CA",
	},
}

// ThemeNames returns theme names in display order
func ThemeNames() []ThemeName {
	return []ThemeName{ThemeClinical, ThemeNord, ThemeDracula, ThemeGruvbox, ThemeLight}
}

// GetTheme returns the named theme, falling back to DefaultTheme.
func GetTheme(name ThemeName) Theme {
	if t, ok := BuiltinThemes[name]; ok {
		return t
	}
	return BuiltinThemes[DefaultTheme]
}

var (
	currentTheme     = BuiltinThemes[DefaultTheme]
	currentThemeName = DefaultTheme
)

func init() {
	regenerateStyles()
}

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// CurrentThemeName returns the name of the current theme
func CurrentThemeName() ThemeName {
	return currentThemeName
}

// SetTheme sets the active theme and regenerates all styles
func SetTheme(name ThemeName) {
	if _, ok := BuiltinThemes[name]; !ok {
		name = DefaultTheme
	}
	currentThemeName = name
	currentTheme = BuiltinThemes[name]
	regenerateStyles()
}

// SetThemeByName sets the active theme by string name
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}

// NextTheme returns the theme after the current one, wrapping around.
func NextTheme() ThemeName {
	names := ThemeNames()
	for i, n := range names {
		if n == currentThemeName {
			return names[(i+1)%len(names)]
		}
	}
	return DefaultTheme
}

// regenerateStyles updates all style variables based on the current theme
func regenerateStyles() {
	t := currentTheme

	ColorPrimary = lipgloss.Color(t.Primary)
	ColorSecondary = lipgloss.Color(t.Secondary)
	ColorBorder = lipgloss.Color(t.Border)
	ColorBorderFocus = lipgloss.Color(t.GetBorderFocus())
	ColorBg = lipgloss.Color(t.Bg)
	ColorText = lipgloss.Color(t.Text)
	ColorTextMuted = lipgloss.Color(t.TextMuted)
	ColorTextInverse = lipgloss.Color(t.TextInverse)
	ColorUser = lipgloss.Color(t.User)
	ColorAssistant = lipgloss.Color(t.Assistant)
	ColorWarning = lipgloss.Color(t.Warning)
	ColorInfo = lipgloss.Color(t.Info)
	ColorError = lipgloss.Color(t.Error)
	ColorSuccess = lipgloss.Color(t.Success)
	ColorEmergency = lipgloss.Color(t.Emergency)
	ColorHigh = lipgloss.Color(t.High)
	ColorMedium = lipgloss.Color(t.Medium)

	buildStyles(t)
	refreshModalStyles()
}

// refreshModalStyles pushes the current palette into the modals package.
func refreshModalStyles() {
	modals.SetStyles(
		ModalTitleStyle, ModalHelpStyle, SidebarItemStyle, SidebarSelectedStyle, StatusErrorStyle,
		modals.Palette{
			Primary:     ColorPrimary,
			Secondary:   ColorSecondary,
			Text:        ColorText,
			TextMuted:   ColorTextMuted,
			TextInverse: ColorTextInverse,
			Warning:     ColorWarning,
			Error:       ColorError,
		},
		ModalInputWidth, ModalWidth,
	)
}
