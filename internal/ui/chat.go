package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/logger"
	"github.com/zhubert/nelson/internal/settings"
	"github.com/zhubert/nelson/internal/ui/modals"
)

// Chat represents the right panel with conversation view
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool

	conv     chat.Chat
	hasChat  bool
	settings settings.UserSettings

	waiting   bool
	waitStart time.Time
	lastWait  time.Duration
	spinner   spinnerState

	logViewer *LogViewerState

	now func() time.Time
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = "Ask a pediatric question..."
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""
	modals.ApplyTextareaStyles(&ti)

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport: vp,
		input:    ti,
		settings: settings.Defaults(),
		spinner:  newSpinnerState(),
		now:      time.Now,
	}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()
	viewportHeight := max(ctx.InnerHeight(height-InputTotalHeight), 1)

	c.viewport.SetWidth(ctx.InnerWidth(width))
	c.viewport.SetHeight(viewportHeight)
	c.input.SetWidth(ctx.InnerWidth(width) - InputPaddingWidth)
	c.updateContent()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetChat shows a conversation. Switching to a different chat replaces the
// composer text with the chat's template seed, if it has one.
func (c *Chat) SetChat(conv chat.Chat) {
	switched := !c.hasChat || c.conv.ID != conv.ID
	c.conv = conv
	c.hasChat = true
	if switched {
		logger.WithComponent("chat").Debug("showing chat", "chat", conv.ID, "messages", len(conv.Messages))
		c.input.Reset()
		if conv.Seed != "" {
			c.input.SetValue(conv.Seed)
		}
		if !c.settings.AutoScroll {
			c.updateContent()
			c.viewport.GotoTop()
			return
		}
	}
	c.updateContent()
}

// ClearChat clears the current chat
func (c *Chat) ClearChat() {
	c.conv = chat.Chat{}
	c.hasChat = false
	c.waiting = false
	c.spinner = newSpinnerState()
	c.input.Reset()
	c.updateContent()
}

// HasChat reports whether a conversation is shown.
func (c *Chat) HasChat() bool {
	return c.hasChat
}

// ChatID returns the shown conversation's ID.
func (c *Chat) ChatID() chat.ID {
	return c.conv.ID
}

// SetSettings applies display preferences and re-renders.
func (c *Chat) SetSettings(s settings.UserSettings) {
	c.settings = s
	c.updateContent()
}

// GetInput returns the current input text
func (c *Chat) GetInput() string {
	return strings.TrimSpace(c.input.Value())
}

// ClearInput clears the input field
func (c *Chat) ClearInput() {
	c.input.Reset()
}

// SetInput sets the input field value
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

func (c *Chat) updateContent() {
	if !c.hasChat {
		c.viewport.SetContent(renderNoChatMessage())
		return
	}

	width := wrapWidthFor(c.settings.FontSize, c.viewport.Width())
	gap := messageGap(c.settings)

	var sb strings.Builder
	if len(c.conv.Messages) == 0 && !c.waiting {
		sb.WriteString(lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("Start a conversation with NelsonGPT..."))
	}
	for i, msg := range c.conv.Messages {
		if i > 0 {
			sb.WriteString(gap)
		}
		sb.WriteString(renderMessage(msg, i+1, c.settings, width))
	}

	switch {
	case c.waiting:
		if len(c.conv.Messages) > 0 {
			sb.WriteString(gap)
		}
		sb.WriteString(ChatAssistantStyle.Render("NelsonGPT"))
		sb.WriteString("\n")
		sb.WriteString(renderWaitingStatus(c.spinner.Verb, c.spinner.Idx, c.now().Sub(c.waitStart)))
	case c.spinner.FlashFrame >= 0:
		if flash := renderCompletionFlash(c.spinner.FlashFrame, c.lastWait); flash != "" {
			sb.WriteString("\n")
			sb.WriteString(flash)
		}
	}

	c.viewport.SetContent(sb.String())
	if c.settings.AutoScroll {
		c.viewport.GotoBottom()
	}
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	switch msg.(type) {
	case StopwatchTickMsg:
		return c, c.handleStopwatchTick()
	case CompletionFlashTickMsg:
		return c, c.handleCompletionFlashTick()
	}

	if c.logViewer != nil {
		return c, c.updateLogViewer(msg)
	}

	var cmds []tea.Cmd
	if c.focused && c.hasChat {
		if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey {
			switch keyMsg.String() {
			case keys.PgUp, keys.PgDown, keys.CtrlUp, keys.CtrlDown, keys.CtrlU, keys.CtrlD:
				var cmd tea.Cmd
				c.viewport, cmd = c.viewport.Update(msg)
				return c, cmd
			case keys.AltEnter, keys.ShiftEnter:
				c.input.InsertString("\n")
				return c, nil
			}

			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			return c, cmd
		}
	}

	// Mouse wheel and other non-key events scroll the history.
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// updateLogViewer routes input while the log overlay is open.
func (c *Chat) updateLogViewer(msg tea.Msg) tea.Cmd {
	if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey {
		switch keyMsg.String() {
		case keys.Left, "h":
			c.PrevLogFile()
			return nil
		case keys.Right, "l":
			c.NextLogFile()
			return nil
		case "f":
			c.ToggleLogViewerFollowTail()
			return nil
		case "r":
			c.RefreshLogViewer()
			return nil
		}
	}
	var cmd tea.Cmd
	c.logViewer.Viewport, cmd = c.logViewer.Viewport.Update(msg)
	return cmd
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	if c.logViewer != nil {
		return c.renderLogViewerMode(panelStyle)
	}
	if !c.hasChat {
		return panelStyle.Width(c.width).Height(c.height).Render(renderNoChatMessage())
	}

	chatPanelHeight := c.height - InputTotalHeight
	chatPanel := panelStyle.Width(c.width).Height(chatPanelHeight).Render(c.viewport.View())

	inputStyle := ChatInputStyle
	if c.focused {
		inputStyle = ChatInputFocusedStyle
	}
	inputArea := inputStyle.Width(c.width).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, inputArea)
}
