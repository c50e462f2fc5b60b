package modals

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// RenderSelectableList renders a simple list with selection highlighting.
func RenderSelectableList(items []string, selectedIndex int) string {
	var result strings.Builder
	for i, item := range items {
		style := SidebarItemStyle
		prefix := "  "
		if i == selectedIndex {
			style = SidebarSelectedStyle
			prefix = "> "
		}
		result.WriteString(style.Render(prefix+item) + "\n")
	}
	return result.String()
}

// TruncateString truncates a string to maxLen display cells, ending with
// an ellipsis when it had to cut.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxLen, "...")
}
