package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/viewport"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/nelson/internal/logger"
)

// LogFile is one log shown in the viewer.
type LogFile struct {
	Name    string
	Path    string
	Content string
}

// LogViewerState is the debug log overlay on top of the chat panel.
type LogViewerState struct {
	Files      []LogFile
	FileIndex  int
	Viewport   viewport.Model
	FollowTail bool
}

// GetLogFiles returns the log files available for viewing, the active debug
// log first. Always returns a non-nil slice.
func GetLogFiles() []LogFile {
	files := []LogFile{}
	paths, err := logger.Files()
	if err != nil {
		return files
	}
	for i, p := range paths {
		name := filepath.Base(p)
		if i == 0 && p == activeLogPath() {
			name = "Debug Log"
		}
		files = append(files, LogFile{Name: name, Path: p})
	}
	return files
}

func activeLogPath() string {
	if p := logger.Path(); p != "" {
		return p
	}
	return logger.DefaultLogPath
}

// EnterLogViewerMode enters the log viewer overlay with available log files.
func (c *Chat) EnterLogViewerMode(files []LogFile) {
	c.logViewer = &LogViewerState{
		Files:      files,
		Viewport:   viewport.New(),
		FollowTail: true,
	}
	c.logViewer.Viewport.MouseWheelEnabled = true
	c.logViewer.Viewport.MouseWheelDelta = 3
	c.logViewer.Viewport.SetWidth(c.viewport.Width())
	c.logViewer.Viewport.SetHeight(c.viewport.Height())
	c.updateLogViewerContent()
}

// ExitLogViewerMode closes the overlay.
func (c *Chat) ExitLogViewerMode() {
	c.logViewer = nil
}

// IsInLogViewerMode returns whether the log viewer overlay is shown.
func (c *Chat) IsInLogViewerMode() bool {
	return c.logViewer != nil
}

// NextLogFile moves to the next log file, if any.
func (c *Chat) NextLogFile() {
	if c.logViewer == nil || c.logViewer.FileIndex >= len(c.logViewer.Files)-1 {
		return
	}
	c.logViewer.FileIndex++
	c.updateLogViewerContent()
}

// PrevLogFile moves to the previous log file, if any.
func (c *Chat) PrevLogFile() {
	if c.logViewer == nil || c.logViewer.FileIndex == 0 {
		return
	}
	c.logViewer.FileIndex--
	c.updateLogViewerContent()
}

// RefreshLogViewer reloads the current log file content.
func (c *Chat) RefreshLogViewer() {
	if c.logViewer != nil {
		c.updateLogViewerContent()
	}
}

// ToggleLogViewerFollowTail toggles the follow tail mode.
func (c *Chat) ToggleLogViewerFollowTail() {
	if c.logViewer == nil {
		return
	}
	c.logViewer.FollowTail = !c.logViewer.FollowTail
	if c.logViewer.FollowTail {
		c.logViewer.Viewport.GotoBottom()
	}
}

// updateLogViewerContent loads the selected file into the log viewport.
func (c *Chat) updateLogViewerContent() {
	lv := c.logViewer
	if lv == nil {
		return
	}
	if len(lv.Files) == 0 {
		lv.Viewport.SetContent("No log files found")
		return
	}
	lv.FileIndex = min(lv.FileIndex, len(lv.Files)-1)

	file := &lv.Files[lv.FileIndex]
	content, err := os.ReadFile(file.Path)
	if err != nil {
		lv.Viewport.SetContent(fmt.Sprintf("Error reading log file: %v", err))
		return
	}
	file.Content = string(content)

	lv.Viewport.SetContent(highlightLogContent(file.Content, lv.Viewport.Width()))
	if lv.FollowTail {
		lv.Viewport.GotoBottom()
	} else {
		lv.Viewport.GotoTop()
	}
}

// highlightLogContent colors slog text-handler lines by level.
func highlightLogContent(content string, width int) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(strings.TrimRight(content, "\n"), "\n") {
		sb.WriteString(wrapText(highlightLogLine(line), width))
		sb.WriteString("\n")
	}
	return sb.String()
}

var logLevelStyles = []struct {
	token string
	style func() lipgloss.Style
}{
	{"level=ERROR", func() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorError).Bold(true) }},
	{"level=WARN", func() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true) }},
	{"level=INFO", func() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorInfo) }},
	{"level=DEBUG", func() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorTextMuted) }},
}

// highlightLogLine applies syntax highlighting to a single log line.
func highlightLogLine(line string) string {
	if line == "" {
		return line
	}
	for _, l := range logLevelStyles {
		if strings.Contains(line, l.token) {
			line = strings.Replace(line, l.token, l.style().Render(l.token), 1)
			break
		}
	}

	// Quoted msg= values get the text color.
	if idx := strings.Index(line, `msg="`); idx >= 0 {
		rest := line[idx+5:]
		if end := strings.Index(rest, `"`); end >= 0 {
			key := lipgloss.NewStyle().Foreground(ColorPrimary).Render("msg=")
			value := lipgloss.NewStyle().Foreground(ColorText).Render(`"` + rest[:end+1])
			line = line[:idx] + key + value + rest[end+1:]
		}
	}
	return line
}

// renderLogViewerMode renders the overlay in place of the chat history.
func (c *Chat) renderLogViewerMode(panelStyle lipgloss.Style) string {
	ctx := GetViewContext()
	innerWidth := ctx.InnerWidth(c.width)
	logHeight := max(ctx.InnerHeight(c.height)-1, 1)

	c.logViewer.Viewport.SetWidth(innerWidth)
	c.logViewer.Viewport.SetHeight(logHeight)

	logContent := lipgloss.NewStyle().MaxHeight(logHeight).Render(c.logViewer.Viewport.View())
	content := lipgloss.JoinVertical(lipgloss.Left, c.renderLogNavBar(innerWidth), logContent)
	return panelStyle.Width(c.width).Height(c.height).Render(content)
}

// renderLogNavBar renders "← Debug Log (1 of 3) → [Follow] [r: refresh]".
func (c *Chat) renderLogNavBar(width int) string {
	lv := c.logViewer
	muted := lipgloss.NewStyle().Foreground(ColorTextMuted)
	if len(lv.Files) == 0 {
		return muted.Width(width).Render("No log files found")
	}

	leftArrow, rightArrow := "  ", "  "
	if lv.FileIndex > 0 {
		leftArrow = "← "
	}
	if lv.FileIndex < len(lv.Files)-1 {
		rightArrow = " →"
	}
	arrowStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	counter := muted.Render(fmt.Sprintf("(%d of %d)", lv.FileIndex+1, len(lv.Files)))

	follow := muted.Render("[f: follow]")
	if lv.FollowTail {
		follow = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Render("[Follow]")
	}
	refresh := muted.Render("[r: refresh]")

	fixed := lipgloss.Width(leftArrow) + lipgloss.Width(counter) + lipgloss.Width(rightArrow) +
		lipgloss.Width(follow) + lipgloss.Width(refresh) + 3
	name := ansi.Truncate(lv.Files[lv.FileIndex].Name, max(width-fixed, 10), "…")
	nameStyle := lipgloss.NewStyle().Foreground(ColorText).Bold(true)

	bar := arrowStyle.Render(leftArrow) + nameStyle.Render(name) + " " + counter +
		arrowStyle.Render(rightArrow) + " " + follow + " " + refresh
	return lipgloss.NewStyle().Width(width).Render(bar)
}
