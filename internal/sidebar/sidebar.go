// Package sidebar implements the navigation panel's state: which tab is
// showing, whether the panel is open, and how user gestures turn into
// commands against the chat registry and settings store.
//
// The controller owns no chats. It reads through a Source and writes
// through Commands, so every row it returns is recomputed from the
// registry's current contents.
package sidebar

import (
	"sort"
	"strings"
	"time"

	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/logger"
	"github.com/zhubert/nelson/internal/settings"
	"github.com/zhubert/nelson/internal/templates"
)

// EmptyStateText is shown in the chats tab when there is nothing to list.
const EmptyStateText = "No chats yet. Start a new conversation!"

// Tab is one of the sidebar's three panes.
type Tab int

const (
	TabChats Tab = iota
	TabSettings
	TabAbout
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabChats, TabSettings, TabAbout}

func (t Tab) String() string {
	switch t {
	case TabSettings:
		return "Settings"
	case TabAbout:
		return "About"
	default:
		return "Chats"
	}
}

// Commands is how the sidebar changes the world.
type Commands interface {
	// NewChat creates a chat seeded with initialMessage and makes it current.
	NewChat(initialMessage string) chat.ID
	SelectChat(id chat.ID)
	DeleteChat(id chat.ID)
	ClearChats()
	UpdateSettings(p settings.Patch)
}

// Source is how the sidebar reads the world.
type Source interface {
	Chats() []chat.Chat
	CurrentChatID() (chat.ID, bool)
	Settings() settings.UserSettings
}

// Recency limits the chats tab to recently updated conversations.
type Recency int

const (
	RecencyAll Recency = iota
	RecencyToday
	RecencyWeek
	RecencyMonth
)

func (r Recency) String() string {
	switch r {
	case RecencyToday:
		return "Today"
	case RecencyWeek:
		return "7 days"
	case RecencyMonth:
		return "30 days"
	default:
		return "All"
	}
}

// Cutoff returns the earliest UpdatedAt still shown, or the zero time for
// RecencyAll.
func (r Recency) Cutoff(now time.Time) time.Time {
	switch r {
	case RecencyToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case RecencyWeek:
		return now.AddDate(0, 0, -7)
	case RecencyMonth:
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// Row is one entry of the chats tab.
type Row struct {
	ID            chat.ID
	Title         string
	Urgency       chat.Urgency
	MedicalDomain string
	UpdatedAt     time.Time
	Messages      int
	Current       bool
}

// Controller is the sidebar state machine.
type Controller struct {
	src  Source
	cmds Commands

	tab     Tab
	open    bool
	recency Recency
	query   string

	now func() time.Time
}

// New returns an open controller showing the chats tab.
func New(src Source, cmds Commands) *Controller {
	return &Controller{
		src:  src,
		cmds: cmds,
		tab:  TabChats,
		open: true,
		now:  time.Now,
	}
}

// SetClock replaces time.Now for recency filtering.
func (c *Controller) SetClock(now func() time.Time) { c.now = now }

// Tab returns the active tab.
func (c *Controller) Tab() Tab { return c.tab }

// IsOpen reports whether the panel is visible.
func (c *Controller) IsOpen() bool { return c.open }

// Open shows the panel on whatever tab was last active.
func (c *Controller) Open() { c.open = true }

// Close hides the panel. The active tab is remembered.
func (c *Controller) Close() { c.open = false }

// Toggle flips visibility.
func (c *Controller) Toggle() { c.open = !c.open }

// SwitchTab activates t. Any tab may be reached from any other.
func (c *Controller) SwitchTab(t Tab) {
	if t < TabChats || t > TabAbout {
		return
	}
	c.tab = t
}

// NextTab cycles forward through the tabs.
func (c *Controller) NextTab() { c.tab = Tabs[(int(c.tab)+1)%len(Tabs)] }

// PrevTab cycles backward through the tabs.
func (c *Controller) PrevTab() { c.tab = Tabs[(int(c.tab)+len(Tabs)-1)%len(Tabs)] }

// Templates returns the quick-start catalog.
func (c *Controller) Templates() []templates.Template { return templates.All() }

// ChooseTemplate starts a new chat seeded with template i.
func (c *Controller) ChooseTemplate(i int) (chat.ID, bool) {
	tpl, ok := templates.Get(i)
	if !ok {
		return "", false
	}
	id := c.cmds.NewChat(tpl.Prompt)
	logger.WithComponent("sidebar").Debug("template chosen", "template", tpl.Label, "chatID", id)
	return id, true
}

// NewChat starts an empty chat.
func (c *Controller) NewChat() chat.ID {
	return c.cmds.NewChat("")
}

// ClickRow selects the chat behind a row.
func (c *Controller) ClickRow(id chat.ID) {
	c.cmds.SelectChat(id)
}

// ClickDelete deletes the chat behind a row. The delete control sits inside
// the row, but activating it never also selects the row.
func (c *Controller) ClickDelete(id chat.ID) {
	c.cmds.DeleteChat(id)
}

// ClearAll deletes every chat.
func (c *Controller) ClearAll() {
	logger.WithComponent("sidebar").Info("clearing all chats", "count", c.ChatCount())
	c.cmds.ClearChats()
}

// ChatCount returns the number of chats Clear All would remove, ignoring
// the recency filter and search query.
func (c *Controller) ChatCount() int { return len(c.src.Chats()) }

// ShowClearAll reports whether the Clear All control should be offered.
func (c *Controller) ShowClearAll() bool {
	return c.ChatCount() > 0
}

// Settings returns the settings the settings tab should render.
func (c *Controller) Settings() settings.UserSettings { return c.src.Settings() }

// ToggleSetting flips one boolean setting.
func (c *Controller) ToggleSetting(key settings.Key) bool {
	tg, ok := settings.LookupToggle(key)
	if !ok {
		return false
	}
	c.cmds.UpdateSettings(tg.Flip(c.src.Settings()))
	return true
}

// SetFontSize changes the chat text size.
func (c *Controller) SetFontSize(f settings.FontSize) {
	c.cmds.UpdateSettings(settings.Patch{FontSize: settings.Ptr(f)})
}

// ResetSettings restores every setting to its default through a single
// full patch.
func (c *Controller) ResetSettings() {
	c.cmds.UpdateSettings(settings.FullPatch(settings.Defaults()))
}

// Recency returns the active recency filter.
func (c *Controller) Recency() Recency { return c.recency }

// SetRecency changes the recency filter.
func (c *Controller) SetRecency(r Recency) {
	if r < RecencyAll || r > RecencyMonth {
		return
	}
	c.recency = r
}

// CycleRecency steps to the next recency filter.
func (c *Controller) CycleRecency() { c.recency = (c.recency + 1) % (RecencyMonth + 1) }

// Query returns the active search text.
func (c *Controller) Query() string { return c.query }

// SetQuery filters rows whose title or domain contains q, ignoring case.
func (c *Controller) SetQuery(q string) { c.query = strings.TrimSpace(q) }

// Rows computes the chats tab from the Source's current contents, most
// recently updated first.
func (c *Controller) Rows() []Row {
	chats := c.src.Chats()
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})

	current, hasCurrent := c.src.CurrentChatID()
	cutoff := c.recency.Cutoff(c.now())
	q := strings.ToLower(c.query)

	rows := make([]Row, 0, len(chats))
	for _, ch := range chats {
		if ch.UpdatedAt.Before(cutoff) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(ch.Title), q) &&
			!strings.Contains(strings.ToLower(ch.Metadata.MedicalDomain), q) {
			continue
		}
		rows = append(rows, Row{
			ID:            ch.ID,
			Title:         ch.Title,
			Urgency:       ch.Metadata.Urgency,
			MedicalDomain: ch.Metadata.MedicalDomain,
			UpdatedAt:     ch.UpdatedAt,
			Messages:      len(ch.Messages),
			Current:       hasCurrent && ch.ID == current,
		})
	}
	return rows
}
