package ui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/nelson/internal/assistant"
	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/settings"
)

// Compiled regex patterns for markdown parsing
var (
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	underscoreItalic  = regexp.MustCompile(`(^|[^a-zA-Z0-9_])_([^_]+)_([^a-zA-Z0-9_]|$)`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	numberedPattern   = regexp.MustCompile(`^(\d{1,2})\. (.*)$`)
)

// highlightCode applies syntax highlighting to code using chroma and the
// active theme's code style.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CurrentTheme().CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}

// renderInlineMarkdown applies inline formatting (bold, italic, code, links) to a line
func renderInlineMarkdown(line string) string {
	// Code spans are swapped out first so nothing inside them gets formatted.
	var spans []string
	line = inlineCodePattern.ReplaceAllStringFunc(line, func(match string) string {
		code := inlineCodePattern.FindStringSubmatch(match)[1]
		spans = append(spans, InlineCodeStyle.Render(code))
		return fmt.Sprintf("\x00CODE%d\x00", len(spans)-1)
	})

	line = boldPattern.ReplaceAllStringFunc(line, func(match string) string {
		return BoldStyle.Render(boldPattern.FindStringSubmatch(match)[1])
	})

	italic := lipgloss.NewStyle().Italic(true)
	line = underscoreItalic.ReplaceAllStringFunc(line, func(match string) string {
		m := underscoreItalic.FindStringSubmatch(match)
		return m[1] + italic.Render(m[2]) + m[3]
	})

	link := lipgloss.NewStyle().Foreground(ColorInfo).Underline(true)
	line = linkPattern.ReplaceAllStringFunc(line, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		return link.Render(parts[1]) + " (" + link.Render(parts[2]) + ")"
	})

	for i, rendered := range spans {
		line = strings.Replace(line, fmt.Sprintf("\x00CODE%d\x00", i), rendered, 1)
	}
	return line
}

// wrapText wraps text to the specified width, handling ANSI escape codes
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Wrap(text, width, "")
}

// indentContinuation indents every line after the first.
func indentContinuation(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

// renderMarkdownLine renders a single line with markdown formatting
func renderMarkdownLine(line string, width int) string {
	trimmed := strings.TrimSpace(line)

	// Headers are not wrapped.
	for _, prefix := range []string{"#### ", "### ", "## ", "# "} {
		if strings.HasPrefix(trimmed, prefix) {
			return HeadingStyle.Render(strings.TrimPrefix(trimmed, prefix))
		}
	}

	if trimmed == "---" || trimmed == "***" || trimmed == "___" {
		return lipgloss.NewStyle().Foreground(ColorBorder).Render(strings.Repeat("─", min(width, 32)))
	}

	if strings.HasPrefix(trimmed, "> ") {
		quote := lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorBorder).
			PaddingLeft(1)
		return quote.Render(wrapText(renderInlineMarkdown(strings.TrimPrefix(trimmed, "> ")), width-4))
	}

	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		bullet := ListBulletStyle.Render("•")
		wrapped := wrapText(renderInlineMarkdown(trimmed[2:]), width-6)
		return "  " + bullet + " " + indentContinuation(wrapped, "    ")
	}

	if m := numberedPattern.FindStringSubmatch(trimmed); m != nil {
		number := ListBulletStyle.Render(m[1] + ".")
		wrapped := wrapText(renderInlineMarkdown(m[2]), width-6)
		return "  " + number + " " + indentContinuation(wrapped, "     ")
	}

	return wrapText(renderInlineMarkdown(line), width)
}

// renderMarkdown renders markdown content with syntax-highlighted code blocks
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var result strings.Builder
	inCodeBlock := false
	codeBlockLang := ""
	var codeBlockContent strings.Builder

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
				codeBlockContent.Reset()
			} else {
				inCodeBlock = false
				if result.Len() > 0 {
					result.WriteString("\n")
				}
				result.WriteString(highlightCode(codeBlockContent.String(), codeBlockLang))
				result.WriteString("\n")
				codeBlockLang = ""
			}
			continue
		}

		if inCodeBlock {
			if codeBlockContent.Len() > 0 {
				codeBlockContent.WriteString("\n")
			}
			codeBlockContent.WriteString(line)
			continue
		}
		result.WriteString(renderMarkdownLine(line, width))
		result.WriteString("\n")
	}

	// Unterminated block: show what we have.
	if inCodeBlock {
		result.WriteString(highlightCode(codeBlockContent.String(), codeBlockLang))
	}

	return strings.TrimRight(result.String(), "\n")
}

// wrapWidthFor maps the font-size preference to a reading column, capped by
// the space actually available.
func wrapWidthFor(size settings.FontSize, available int) int {
	w := WrapWidthMedium
	switch size {
	case settings.FontSmall:
		w = WrapWidthSmall
	case settings.FontLarge:
		w = WrapWidthLarge
	}
	if available > 0 && available < w {
		return available
	}
	return w
}

// messageGap is the blank space between two messages.
func messageGap(s settings.UserSettings) string {
	switch {
	case s.CompactMode:
		return "\n"
	case s.FontSize == settings.FontLarge:
		return "\n\n\n"
	default:
		return "\n\n"
	}
}

// roleLabel returns the display name and style for a message author.
func roleLabel(role chat.Role) (string, lipgloss.Style) {
	if role == chat.RoleUser {
		return "You", ChatUserStyle
	}
	return "NelsonGPT", ChatAssistantStyle
}

// renderMessageHeader renders the author line: optional number, role, and
// optional timestamp.
func renderMessageHeader(msg chat.Message, number int, s settings.UserSettings) string {
	name, style := roleLabel(msg.Role)
	var parts []string
	if s.ShowMessageCount {
		parts = append(parts, ChatNumberStyle.Render(fmt.Sprintf("#%d", number)))
	}
	parts = append(parts, style.Render(name))
	if s.ShowTimestamps && !msg.CreatedAt.IsZero() {
		parts = append(parts, ChatTimestampStyle.Render(formatTimestamp(msg.CreatedAt)))
	}
	return strings.Join(parts, " ")
}

// formatTimestamp prints a clock time, with the date when it is not today.
func formatTimestamp(t time.Time) string {
	local := t.Local()
	now := time.Now()
	if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
		return local.Format("15:04")
	}
	return local.Format("Jan 2 15:04")
}

// renderMessage renders one message body. Assistant replies have their
// reference lines split off and shown (or hidden) per the settings.
func renderMessage(msg chat.Message, number int, s settings.UserSettings, width int) string {
	var sb strings.Builder
	sb.WriteString(renderMessageHeader(msg, number, s))
	sb.WriteString("\n")

	body := strings.TrimSpace(msg.Content)
	var citations []string
	if msg.Role == chat.RoleAssistant {
		body, citations = assistant.SplitCitations(body)
	}
	sb.WriteString(renderMarkdown(body, width))

	if s.ShowCitations && len(citations) > 0 {
		sb.WriteString("\n")
		if !s.CompactMode {
			sb.WriteString("\n")
		}
		for i, c := range citations {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(ChatCitationStyle.Render(wrapText("↳ "+c, width)))
		}
	}
	return sb.String()
}

// renderNoChatMessage renders the placeholder shown when no chat is selected
func renderNoChatMessage() string {
	msgStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	var sb strings.Builder
	sb.WriteString(msgStyle.Italic(true).Render("No chat selected"))
	sb.WriteString("\n\n")
	sb.WriteString(msgStyle.Render("To get started:"))
	sb.WriteString("\n")
	sb.WriteString(msgStyle.Render("  • Press "))
	sb.WriteString(keyStyle.Render("n"))
	sb.WriteString(msgStyle.Render(" to start a new chat"))
	sb.WriteString("\n")
	sb.WriteString(msgStyle.Render("  • Pick a template from the "))
	sb.WriteString(keyStyle.Render("Chats"))
	sb.WriteString(msgStyle.Render(" tab"))
	return sb.String()
}
