package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

const headerTitle = " NelsonGPT"

// Header represents the top header bar
type Header struct {
	width     int
	chatTitle string
	userEmail string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetChatTitle sets the current chat title to display
func (h *Header) SetChatTitle(title string) {
	h.chatTitle = title
}

// SetUserEmail sets the signed-in user shown muted on the right
func (h *Header) SetUserEmail(email string) {
	h.userEmail = email
}

// View renders the header
func (h *Header) View() string {
	var rightText, mutedText string
	if h.userEmail != "" {
		mutedText = h.userEmail + " "
	}

	room := h.width - runewidth.StringWidth(headerTitle) - runewidth.StringWidth(mutedText) - 2
	if h.chatTitle != "" && room > 0 {
		rightText = runewidth.Truncate(h.chatTitle, room, "…") + "  "
	}

	paddingLen := h.width - runewidth.StringWidth(headerTitle) - runewidth.StringWidth(rightText) - runewidth.StringWidth(mutedText)
	if paddingLen < 0 {
		paddingLen = 0
	}

	fullContent := headerTitle + strings.Repeat(" ", paddingLen) + rightText + mutedText
	return h.renderGradient(fullContent, len([]rune(fullContent))-len([]rune(mutedText)))
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content over a Primary-to-Bg gradient. Runes at or
// after mutedFrom use the muted text color.
func (h *Header) renderGradient(content string, mutedFrom int) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)

	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	runes := []rune(content)
	width := len(runes)
	titleLen := len([]rune(headerTitle))
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		bgColor := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))

		style := lipgloss.NewStyle().
			Background(bgColor).
			Bold(i < titleLen)

		if i >= mutedFrom {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
