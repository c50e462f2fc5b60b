package modals

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/nelson/internal/keys"
)

// helpRow is one line of the shortcut list: a section heading or a
// shortcut the user can run with Enter.
type helpRow struct {
	heading  string
	shortcut HelpShortcut
}

func (r helpRow) isHeading() bool     { return r.heading != "" }
func (r helpRow) FilterValue() string { return "" }

// helpRowDelegate draws rows with the key column sized to the widest key.
type helpRowDelegate struct {
	keyWidth int
}

func (helpRowDelegate) Height() int                         { return 1 }
func (helpRowDelegate) Spacing() int                        { return 0 }
func (helpRowDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d helpRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(helpRow)
	if !ok {
		return
	}
	if row.isHeading() {
		fmt.Fprint(w, lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).Render(row.heading))
		return
	}

	keyStyle := lipgloss.NewStyle().Bold(true).Width(d.keyWidth).Foreground(ColorPrimary)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)
	marker := "  "
	if index == m.Index() {
		keyStyle = keyStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
		descStyle = descStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
		marker = "> "
	}
	fmt.Fprint(w, marker+keyStyle.Render(row.shortcut.Key)+descStyle.Render(row.shortcut.Desc))
}

// HelpState lists the shortcuts that apply right now, grouped by section.
type HelpState struct {
	list  list.Model
	total int
}

func (*HelpState) modalState() {}

func (s *HelpState) Title() string { return "Keyboard Shortcuts" }

func (s *HelpState) Help() string {
	return "up/down: move  Enter: run  Esc: close"
}

func (s *HelpState) Render() string {
	parts := []string{ModalTitleStyle.Render(s.Title()), s.list.View()}
	if s.total > 0 {
		parts = append(parts, ModalHelpStyle.Render(fmt.Sprintf("%d of %d", s.position(), s.total)))
	}
	parts = append(parts, ModalHelpStyle.Render(s.Help()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Update moves the cursor, stepping over section headings.
func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch key.String() {
	case keys.Up, "k":
		s.step(-1)
	case keys.Down, "j":
		s.step(1)
	case keys.Home:
		s.list.Select(0)
		s.step(1)
	case keys.End:
		if n := len(s.list.Items()); n > 0 {
			s.list.Select(n - 1)
		}
	}
	return s, nil
}

// step moves the cursor dir rows until it lands on a shortcut. It stays put
// when there is none in that direction.
func (s *HelpState) step(dir int) {
	items := s.list.Items()
	for i := s.list.Index() + dir; i >= 0 && i < len(items); i += dir {
		if !items[i].(helpRow).isHeading() {
			s.list.Select(i)
			return
		}
	}
}

// position is the 1-based index of the selected shortcut among shortcuts.
func (s *HelpState) position() int {
	n := 0
	for i, item := range s.list.Items() {
		if !item.(helpRow).isHeading() {
			n++
		}
		if i == s.list.Index() {
			break
		}
	}
	return n
}

// SetSize implements ModalWithSize. Title, position and help lines take
// four rows.
func (s *HelpState) SetSize(width, height int) {
	s.list.SetSize(width, max(height-4, 1))
}

// GetSelectedShortcut returns the highlighted shortcut, or nil when there
// is none.
func (s *HelpState) GetSelectedShortcut() *HelpShortcut {
	row, ok := s.list.SelectedItem().(helpRow)
	if !ok || row.isHeading() {
		return nil
	}
	return &row.shortcut
}

// NewHelpStateFromSections builds the modal from the sections the shortcut
// registry considers applicable.
func NewHelpStateFromSections(sections []HelpSection) *HelpState {
	var (
		items    []list.Item
		keyWidth int
		total    int
	)
	for _, section := range sections {
		if len(section.Shortcuts) == 0 {
			continue
		}
		items = append(items, helpRow{heading: section.Title})
		for _, sc := range section.Shortcuts {
			items = append(items, helpRow{shortcut: sc})
			keyWidth = max(keyWidth, ansi.StringWidth(sc.Key))
			total++
		}
	}

	l := list.New(items, helpRowDelegate{keyWidth: keyWidth + 2}, ModalWidth, HelpModalMaxVisible)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	s := &HelpState{list: l, total: total}
	if len(items) > 0 {
		s.step(1)
	}
	return s
}
