package app

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/nelson/internal/assistant"
	"github.com/zhubert/nelson/internal/auth"
	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/config"
	"github.com/zhubert/nelson/internal/logger"
	"github.com/zhubert/nelson/internal/settings"
	"github.com/zhubert/nelson/internal/sidebar"
	"github.com/zhubert/nelson/internal/storage"
	"github.com/zhubert/nelson/internal/ui"
)

// Options are the collaborators the app runs against.
type Options struct {
	// Store persists chats and settings. Nil keeps everything in memory.
	Store *storage.Store
	// Provider is the identity backend. Required.
	Provider auth.Provider
	// Responder answers questions. Required.
	Responder assistant.Responder
	// ChatOptions are passed to the chat registry, mostly for tests.
	ChatOptions []chat.Option
}

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	version string

	header   *ui.Header
	footer   *ui.Footer
	sidebar  *ui.Sidebar
	chat     *ui.Chat
	modal    *ui.Modal
	splash   *ui.Splash
	authForm *ui.AuthForm

	auth      *auth.Controller
	responder assistant.Responder
	store     *storage.Store
	workspace *Workspace

	width  int
	height int
	focus  Focus
	phase  Phase

	splashDone    bool
	splashTicking bool
	loadingOwner  string // user whose workspace is being loaded

	// In-flight assistant request, one at a time.
	pendingChat chat.ID
	cancelReply context.CancelFunc
	shown       shownChat

	ctx    context.Context
	cancel context.CancelFunc

	unsubscribeSettings func()
}

// New creates a new app model
func New(cfg *config.Config, version string, opts Options) *Model {
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ws := NewWorkspace(opts.Store, opts.ChatOptions...)

	m := &Model{
		config:    cfg,
		version:   version,
		header:    ui.NewHeader(),
		footer:    ui.NewFooter(),
		sidebar:   ui.NewSidebar(sidebar.New(ws, ws)),
		chat:      ui.NewChat(),
		modal:     ui.NewModal(),
		splash:    ui.NewSplash(),
		authForm:  ui.NewAuthForm(),
		auth:      auth.NewController(opts.Provider),
		responder: opts.Responder,
		store:     opts.Store,
		workspace: ws,
		focus:     FocusSidebar,
		phase:     PhaseSplash,
		ctx:       ctx,
		cancel:    cancel,
	}

	m.chat.SetSettings(ws.Settings())
	m.unsubscribeSettings = ws.SettingsStore().Subscribe(func(s settings.UserSettings) {
		m.chat.SetSettings(s)
	})
	m.sidebar.SetFocused(true)
	m.sidebar.SetVersion(version)
	m.authForm.SetLoading(true)
	m.splashTicking = true // Init schedules the first frame

	return m
}

// Init starts the splash timers and begins resolving the saved session.
func (m *Model) Init() tea.Cmd {
	m.auth.Start(m.ctx)
	return tea.Batch(
		ui.SplashTick(),
		ui.SplashTimer(m.config.UI.SplashDuration),
		m.listenForAuthChanges(),
	)
}

// Close cancels in-flight work, flushes storage writes and releases the
// auth subscription. Call it once the program has exited.
func (m *Model) Close() {
	m.stopReply()
	m.cancel()
	m.auth.Close()
	if m.unsubscribeSettings != nil {
		m.unsubscribeSettings()
	}
	m.workspace.Close()
}

// Phase returns the screen currently shown.
func (m *Model) Phase() Phase {
	return m.phase
}

// Workspace returns the signed-in user's data.
func (m *Model) Workspace() *Workspace {
	return m.workspace
}

// setFocus moves keyboard focus between the sidebar and the chat panel.
func (m *Model) setFocus(f Focus) {
	if f == FocusSidebar && !m.sidebar.Controller().IsOpen() {
		f = FocusChat
	}
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	m.chat.SetFocused(f == FocusChat)
}

func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.SetSidebarHidden(!m.sidebar.Controller().IsOpen())
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.sidebar.SetSize(ctx.SidebarWidth, ctx.ContentHeight)
	m.chat.SetSize(ctx.ChatWidth, ctx.ContentHeight)
	m.splash.SetSize(m.width, m.height)
	m.authForm.SetSize(m.width, m.height-1)
}

func (m *Model) updateFooterContext() {
	m.footer.SetContext(
		m.chat.HasChat(),
		m.focus == FocusSidebar,
		m.chat.IsWaiting(),
		m.sidebar.IsSearchMode(),
	)
}

// shownChat identifies the version of a chat the panel last rendered.
type shownChat struct {
	id        chat.ID
	updatedAt time.Time
	messages  int
	title     string
}

// syncChatPanel shows the registry's current chat in the chat panel. The
// spinner follows the chat that is waiting on a reply.
func (m *Model) syncChatPanel() tea.Cmd {
	current, ok := m.workspace.Registry().CurrentChat()
	if !ok {
		if m.chat.HasChat() {
			m.chat.ClearChat()
			m.shown = shownChat{}
		}
		m.header.SetChatTitle("")
		return nil
	}

	sig := shownChat{id: current.ID, updatedAt: current.UpdatedAt, messages: len(current.Messages), title: current.Title}
	if !m.chat.HasChat() || sig != m.shown {
		m.chat.SetChat(current)
		m.shown = sig
	}
	m.header.SetChatTitle(current.Title)

	wasWaiting := m.chat.IsWaiting()
	waiting := m.cancelReply != nil && current.ID == m.pendingChat
	if waiting == wasWaiting {
		return nil
	}
	m.chat.SetWaiting(waiting)
	if waiting {
		return ui.StopwatchTick()
	}
	return nil
}

func (m *Model) log() *slog.Logger {
	return logger.WithComponent("app").With("phase", m.phase.String())
}
