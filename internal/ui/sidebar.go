package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/logger"
	"github.com/zhubert/nelson/internal/settings"
	"github.com/zhubert/nelson/internal/sidebar"
)

// SidebarSearchCharLimit bounds the search query.
const SidebarSearchCharLimit = 64

// ChatOpenedMsg is sent after the sidebar selected or created a chat.
type ChatOpenedMsg struct {
	ID chat.ID
}

// ClearAllRequestedMsg asks the app to clear every chat, possibly after
// confirmation.
type ClearAllRequestedMsg struct {
	Count int
}

// RenameRequestedMsg asks the app to open the rename dialog.
type RenameRequestedMsg struct {
	ID    chat.ID
	Title string
}

type sidebarItemKind int

const (
	itemTemplate sidebarItemKind = iota
	itemNewChat
	itemRecency
	itemChat
	itemClearAll
	itemToggle
	itemFontSize
	itemReset
)

// sidebarItem is one selectable line group in the current tab.
type sidebarItem struct {
	Kind     sidebarItemKind
	Index    int // template index
	Row      sidebar.Row
	Toggle   settings.Toggle
	FontSize settings.FontSize
}

// Sidebar renders the sidebar controller as the left panel.
type Sidebar struct {
	ctrl *sidebar.Controller

	width        int
	height       int
	focused      bool
	selectedIdx  map[sidebar.Tab]int
	scrollOffset int

	searchMode  bool
	searchInput textinput.Model

	version string
}

// NewSidebar creates a sidebar view over ctrl.
func NewSidebar(ctrl *sidebar.Controller) *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "search chats..."
	ti.CharLimit = SidebarSearchCharLimit

	return &Sidebar{
		ctrl:        ctrl,
		selectedIdx: make(map[sidebar.Tab]int),
		searchInput: ti,
	}
}

// SetVersion sets the release shown on the About tab.
func (s *Sidebar) SetVersion(v string) {
	s.version = v
}

// Controller returns the underlying state machine.
func (s *Sidebar) Controller() *sidebar.Controller {
	return s.ctrl
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// IsSearchMode returns whether the search box has focus
func (s *Sidebar) IsSearchMode() bool {
	return s.searchMode
}

// EnterSearchMode focuses the search box on the chats tab.
func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.ctrl.SwitchTab(sidebar.TabChats)
	s.searchMode = true
	s.searchInput.SetValue(s.ctrl.Query())
	s.searchInput.Focus()
	return nil
}

// ExitSearchMode leaves the search box. When clear is set the filter is
// dropped as well.
func (s *Sidebar) ExitSearchMode(clear bool) {
	s.searchMode = false
	s.searchInput.Blur()
	if clear {
		s.searchInput.SetValue("")
		s.ctrl.SetQuery("")
	}
	s.clampSelection()
}

func (s *Sidebar) selected() int {
	return s.selectedIdx[s.ctrl.Tab()]
}

func (s *Sidebar) setSelected(i int) {
	s.selectedIdx[s.ctrl.Tab()] = i
}

func (s *Sidebar) clampSelection() {
	n := len(s.items())
	i := s.selected()
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	s.setSelected(i)
}

// items lists the selectable entries of the current tab. It is rebuilt on
// every call so it always reflects the registry.
func (s *Sidebar) items() []sidebarItem {
	var items []sidebarItem
	switch s.ctrl.Tab() {
	case sidebar.TabChats:
		for i := range s.ctrl.Templates() {
			items = append(items, sidebarItem{Kind: itemTemplate, Index: i})
		}
		items = append(items, sidebarItem{Kind: itemNewChat}, sidebarItem{Kind: itemRecency})
		for _, row := range s.ctrl.Rows() {
			items = append(items, sidebarItem{Kind: itemChat, Row: row})
		}
		if s.ctrl.ShowClearAll() {
			items = append(items, sidebarItem{Kind: itemClearAll})
		}
	case sidebar.TabSettings:
		for _, t := range settings.Toggles() {
			items = append(items, sidebarItem{Kind: itemToggle, Toggle: t})
		}
		for _, f := range settings.FontSizes {
			items = append(items, sidebarItem{Kind: itemFontSize, FontSize: f})
		}
		items = append(items, sidebarItem{Kind: itemReset})
	}
	return items
}

// SelectedItem returns the item under the cursor, if any.
func (s *Sidebar) SelectedItem() (sidebarItem, bool) {
	items := s.items()
	i := s.selected()
	if i < 0 || i >= len(items) {
		return sidebarItem{}, false
	}
	return items[i], true
}

// SelectChat moves the cursor onto the row for id when it is listed.
func (s *Sidebar) SelectChat(id chat.ID) {
	for i, item := range s.items() {
		if item.Kind == itemChat && item.Row.ID == id {
			s.setSelected(i)
			return
		}
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// activate performs the action of the item under the cursor.
func (s *Sidebar) activate() tea.Cmd {
	item, ok := s.SelectedItem()
	if !ok {
		return nil
	}
	log := logger.WithComponent("sidebar")

	switch item.Kind {
	case itemTemplate:
		if id, ok := s.ctrl.ChooseTemplate(item.Index); ok {
			log.Debug("template chosen", "index", item.Index, "chatID", id)
			return emit(ChatOpenedMsg{ID: id})
		}
	case itemNewChat:
		return emit(ChatOpenedMsg{ID: s.ctrl.NewChat()})
	case itemRecency:
		s.ctrl.CycleRecency()
		s.clampSelection()
	case itemChat:
		s.ctrl.ClickRow(item.Row.ID)
		return emit(ChatOpenedMsg{ID: item.Row.ID})
	case itemClearAll:
		return emit(ClearAllRequestedMsg{Count: s.ctrl.ChatCount()})
	case itemToggle:
		s.ctrl.ToggleSetting(item.Toggle.Key)
	case itemFontSize:
		s.ctrl.SetFontSize(item.FontSize)
	case itemReset:
		s.ctrl.ResetSettings()
	}
	return nil
}

// Update handles messages
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.focused {
		return s, nil
	}

	if s.searchMode {
		switch keyMsg.String() {
		case keys.Escape:
			s.ExitSearchMode(true)
			return s, nil
		case keys.Enter:
			s.ExitSearchMode(false)
			return s, nil
		default:
			var cmd tea.Cmd
			s.searchInput, cmd = s.searchInput.Update(msg)
			s.ctrl.SetQuery(s.searchInput.Value())
			s.clampSelection()
			return s, cmd
		}
	}

	items := s.items()
	switch keyMsg.String() {
	case keys.Up, "k":
		if s.ctrl.Tab() == sidebar.TabAbout {
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		} else if s.selected() > 0 {
			s.setSelected(s.selected() - 1)
		}
	case keys.Down, "j":
		if s.ctrl.Tab() == sidebar.TabAbout {
			s.scrollOffset++
		} else if s.selected() < len(items)-1 {
			s.setSelected(s.selected() + 1)
		}
	case keys.Home, "g":
		s.setSelected(0)
		s.scrollOffset = 0
	case keys.End, "G":
		s.setSelected(max(len(items)-1, 0))
	case "]":
		s.ctrl.NextTab()
		s.scrollOffset = 0
	case "[":
		s.ctrl.PrevTab()
		s.scrollOffset = 0
	case keys.Enter, keys.Space:
		return s, s.activate()
	case "n":
		return s, emit(ChatOpenedMsg{ID: s.ctrl.NewChat()})
	case "/":
		return s, s.EnterSearchMode()
	case "f":
		if s.ctrl.Tab() == sidebar.TabChats {
			s.ctrl.CycleRecency()
			s.clampSelection()
		}
	case "d", keys.Delete:
		if item, ok := s.SelectedItem(); ok && item.Kind == itemChat {
			s.ctrl.ClickDelete(item.Row.ID)
			s.clampSelection()
		}
	case "r":
		if item, ok := s.SelectedItem(); ok && item.Kind == itemChat {
			return s, emit(RenameRequestedMsg{ID: item.Row.ID, Title: item.Row.Title})
		}
	case "X":
		if s.ctrl.ShowClearAll() {
			return s, emit(ClearAllRequestedMsg{Count: s.ctrl.ChatCount()})
		}
	}
	return s, nil
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := ctx.InnerWidth(s.width)
	innerHeight := ctx.InnerHeight(s.height)

	header := []string{s.renderTabs(innerWidth), ""}
	if s.searchMode || s.ctrl.Query() != "" {
		searchStyle := lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
		s.searchInput.SetWidth(innerWidth - 3)
		header = append(header, searchStyle.Render("/")+" "+s.searchInput.View())
	}

	var allLines []string
	selectedStartLine := 0
	switch s.ctrl.Tab() {
	case sidebar.TabChats:
		allLines, selectedStartLine = s.renderChatsTab(innerWidth)
	case sidebar.TabSettings:
		allLines, selectedStartLine = s.renderSettingsTab(innerWidth)
	default:
		allLines = s.renderAboutTab(innerWidth)
		selectedStartLine = -1
	}

	visibleHeight := innerHeight - len(header)
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	if selectedStartLine >= 0 {
		if selectedStartLine < s.scrollOffset {
			s.scrollOffset = selectedStartLine
		} else if selectedStartLine >= s.scrollOffset+visibleHeight {
			s.scrollOffset = selectedStartLine - visibleHeight + 1
		}
	}
	maxScroll := len(allLines) - visibleHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scrollOffset > maxScroll {
		s.scrollOffset = maxScroll
	}
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}

	if s.scrollOffset > 0 && s.scrollOffset < len(allLines) {
		allLines = allLines[s.scrollOffset:]
	}
	if len(allLines) > visibleHeight {
		allLines = allLines[:visibleHeight]
	}

	content := strings.Join(append(header, allLines...), "\n")

	// In lipgloss v2, Width/Height include borders, so pass full panel size
	return style.Width(s.width).Height(s.height).Render(content)
}

func (s *Sidebar) renderTabs(width int) string {
	parts := make([]string, 0, len(sidebar.Tabs))
	for _, tab := range sidebar.Tabs {
		if tab == s.ctrl.Tab() {
			parts = append(parts, SidebarTabActiveStyle.Render(tab.String()))
		} else {
			parts = append(parts, SidebarTabStyle.Render(tab.String()))
		}
	}
	return ansi.Truncate(strings.Join(parts, ""), width, "")
}

// appendItem renders one item, recording where the selection starts.
func appendItem(lines []string, rendered string, isSelected bool, selectedStart *int) []string {
	if isSelected {
		*selectedStart = len(lines)
	}
	return append(lines, strings.Split(rendered, "\n")...)
}

func (s *Sidebar) itemStyle(isSelected bool, width int) lipgloss.Style {
	if isSelected && s.focused {
		return SidebarSelectedStyle.Width(width)
	}
	return SidebarItemStyle.Width(width)
}

func (s *Sidebar) renderChatsTab(width int) ([]string, int) {
	var lines []string
	selectedStart := 0
	sel := s.selected()
	items := s.items()
	muted := lipgloss.NewStyle().Foreground(ColorTextMuted)

	lines = append(lines, SidebarSectionStyle.Render("Quick Start"))
	idx := 0
	templates := s.ctrl.Templates()
	for ; idx < len(items) && items[idx].Kind == itemTemplate; idx++ {
		tmpl := templates[items[idx].Index]
		text := ansi.Truncate(tmpl.Label, width-4, "…") + "\n" +
			muted.Render(ansi.Truncate(tmpl.Prompt, width-4, "…"))
		lines = appendItem(lines, s.itemStyle(idx == sel, width).Render(text), idx == sel, &selectedStart)
	}

	// + New Chat
	lines = appendItem(lines, s.itemStyle(idx == sel, width).Render("+ New Chat"), idx == sel, &selectedStart)
	idx++

	lines = append(lines, "")
	header := SidebarSectionStyle.Render("Recent Chats")
	filter := muted.Render("Show: " + s.ctrl.Recency().String())
	lines = append(lines, header)
	lines = appendItem(lines, s.itemStyle(idx == sel, width).Render(filter), idx == sel, &selectedStart)
	idx++

	if idx >= len(items) || items[idx].Kind != itemChat {
		empty := sidebar.EmptyStateText
		if s.ctrl.Query() != "" {
			empty = "No matches."
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Width(width).
			Render(empty))
	}

	for ; idx < len(items) && items[idx].Kind == itemChat; idx++ {
		rendered := s.renderRow(items[idx].Row, idx == sel, width)
		lines = appendItem(lines, rendered, idx == sel, &selectedStart)
	}

	if idx < len(items) && items[idx].Kind == itemClearAll {
		lines = append(lines, "")
		label := SidebarDangerStyle.Render("Clear All")
		if idx == sel && s.focused {
			label = SidebarSelectedStyle.Width(width).Render("Clear All")
		} else {
			label = SidebarItemStyle.Width(width).Render(label)
		}
		lines = appendItem(lines, label, idx == sel, &selectedStart)
	}

	return lines, selectedStart
}

// urgencyGlyph returns the row icon for u and its color.
func urgencyGlyph(u chat.Urgency) string {
	switch u {
	case chat.UrgencyEmergency:
		return lipgloss.NewStyle().Foreground(ColorEmergency).Render("⚠")
	case chat.UrgencyHigh:
		return lipgloss.NewStyle().Foreground(ColorHigh).Render("⚠")
	case chat.UrgencyMedium:
		return lipgloss.NewStyle().Foreground(ColorMedium).Render("◷")
	default:
		return lipgloss.NewStyle().Foreground(ColorTextMuted).Render("◇")
	}
}

// relativeTime formats t the way chat rows show it.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func (s *Sidebar) renderRow(row sidebar.Row, isSelected bool, width int) string {
	title := ansi.Truncate(row.Title, width-5, "…")
	if row.Current {
		title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(title)
	}
	first := urgencyGlyph(row.Urgency) + " " + title

	meta := SidebarMetaStyle.Render(relativeTime(row.UpdatedAt))
	if row.MedicalDomain != "" {
		meta += " " + SidebarBadgeStyle.Render(row.MedicalDomain)
	}
	if s.ctrl.Settings().ShowMessageCount && row.Messages > 0 {
		meta += SidebarMetaStyle.Render(fmt.Sprintf(" · %d msgs", row.Messages))
	}
	second := "  " + ansi.Truncate(meta, width-4, "…")

	return s.itemStyle(isSelected, width).Render(first + "\n" + second)
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func radio(on bool) string {
	if on {
		return "(•)"
	}
	return "( )"
}

func (s *Sidebar) renderSettingsTab(width int) ([]string, int) {
	var lines []string
	selectedStart := 0
	sel := s.selected()
	current := s.ctrl.Settings()
	muted := lipgloss.NewStyle().Foreground(ColorTextMuted)

	group := ""
	for idx, item := range s.items() {
		switch item.Kind {
		case itemToggle:
			if item.Toggle.Group != group {
				if group != "" {
					lines = append(lines, "")
				}
				group = item.Toggle.Group
				lines = append(lines, SidebarSectionStyle.Render(group))
			}
			text := checkbox(item.Toggle.Value(current)) + " " + item.Toggle.Label + "\n" +
				muted.Render("    "+ansi.Truncate(item.Toggle.Description, width-6, "…"))
			lines = appendItem(lines, s.itemStyle(idx == sel, width).Render(text), idx == sel, &selectedStart)
		case itemFontSize:
			if item.FontSize == settings.FontSizes[0] {
				lines = append(lines, "", SidebarSectionStyle.Render("Font Size"))
			}
			text := radio(current.FontSize == item.FontSize) + " " + item.FontSize.Label()
			lines = appendItem(lines, s.itemStyle(idx == sel, width).Render(text), idx == sel, &selectedStart)
		case itemReset:
			lines = append(lines, "")
			lines = appendItem(lines, s.itemStyle(idx == sel, width).Render("↺ Reset to Defaults"), idx == sel, &selectedStart)
		}
	}
	return lines, selectedStart
}

// About tab copy
var (
	aboutFeatures = []string{
		"Symptom analysis and differential diagnosis",
		"Pediatric drug dosing calculations",
		"Emergency protocols and procedures",
		"Growth and development assessments",
		"Medical reference and guidelines",
	}
	aboutStack = []string{
		"Nelson Textbook of Pediatrics knowledge base",
		"Retrieval-augmented answers with citations",
		"Terminal interface built on Bubble Tea",
	}
	aboutTips = []string{
		"Use templates for common queries",
		"Be specific with symptoms and context",
		"Check settings for customization",
		"Clear chat history when needed",
	}
)

const (
	aboutTagline    = "Your trusted pediatric assistant powered by evidence-based medicine"
	aboutDisclaimer = "This tool is for educational and reference purposes only. Always consult qualified healthcare professionals for medical decisions."
	aboutVersion    = "Version %s • Built with ❤️ for pediatric care"
)

func (s *Sidebar) renderAboutTab(width int) []string {
	wrap := lipgloss.NewStyle().Width(width)
	muted := wrap.Foreground(ColorTextMuted)
	bullet := ListBulletStyle.Render("•")

	var b strings.Builder
	b.WriteString(SplashTitleStyle.Render("NelsonGPT") + "\n")
	b.WriteString(muted.Render(aboutTagline) + "\n\n")

	section := func(title string, items []string) {
		b.WriteString(SidebarSectionStyle.Render(title) + "\n")
		for _, item := range items {
			b.WriteString(wrap.Render(bullet+" "+item) + "\n")
		}
		b.WriteString("\n")
	}
	section("Core Features", aboutFeatures)
	section("Technology Stack", aboutStack)
	section("Quick Tips", aboutTips)

	b.WriteString(DisclaimerStyle.Width(width).Render("Medical Disclaimer\n"+aboutDisclaimer) + "\n\n")
	version := s.version
	if version == "" || version == "dev" {
		version = "1.0"
	}
	b.WriteString(muted.Render(fmt.Sprintf(aboutVersion, version)))

	return strings.Split(b.String(), "\n")
}
