package app

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/nelson/internal/assistant"
	"github.com/zhubert/nelson/internal/auth"
	"github.com/zhubert/nelson/internal/config"
	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/ui"
)

// cmdTimeout bounds how long a command may block before its message is
// considered never-arriving (listeners, long tickers).
const cmdTimeout = 300 * time.Millisecond

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.UI.SplashDuration = time.Millisecond
	off := false
	cfg.UI.Notifications = &off
	return cfg
}

func testSession(email string) *auth.Session {
	return &auth.Session{User: auth.User{ID: "mock-" + email, Email: email}, Token: "mock"}
}

// newTestModel builds a sized model over mock auth and a mock responder. No
// store is attached, so nothing is persisted.
func newTestModel(t *testing.T, cfg *config.Config, session *auth.Session) (*Model, *auth.MockProvider, *assistant.MockResponder) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	provider := auth.NewMockProvider(session)
	responder := &assistant.MockResponder{}
	m := New(cfg, "test", Options{Provider: provider, Responder: responder})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(m.Close)
	return m, provider, responder
}

// start runs Init, waits for the session lookup and finishes the splash.
func start(t *testing.T, m *Model) {
	t.Helper()
	m.Init()
	waitFor(t, "session lookup", func() bool { return !m.auth.Loading() })
	send(t, m, ui.SplashDoneMsg{})
}

// startMain brings a signed-in model to the main screen.
func startMain(t *testing.T, email string) (*Model, *auth.MockProvider, *assistant.MockResponder) {
	t.Helper()
	m, provider, responder := newTestModel(t, nil, testSession(email))
	start(t, m)
	if m.Phase() != PhaseMain {
		t.Fatalf("Phase() = %v, want %v", m.Phase(), PhaseMain)
	}
	return m, provider, responder
}

// send delivers msg and then drains the commands it produces.
func send(t *testing.T, m *Model, msg tea.Msg) []tea.Msg {
	t.Helper()
	_, cmd := m.Update(msg)
	return process(t, m, cmd)
}

// press sends a key press by its string form.
func press(t *testing.T, m *Model, key string) []tea.Msg {
	t.Helper()
	return send(t, m, keyPress(key))
}

// process feeds cmd's messages back through Update until nothing more
// arrives. Every message seen is returned.
func process(t *testing.T, m *Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	for round := 0; round < 10 && cmd != nil; round++ {
		msgs := collect(cmd)
		if len(msgs) == 0 {
			break
		}
		var next []tea.Cmd
		for _, msg := range msgs {
			seen = append(seen, msg)
			if _, ok := msg.(tea.QuitMsg); ok {
				continue
			}
			_, c := m.Update(msg)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
	return seen
}

// collect runs cmd, flattening batches. Commands that block past cmdTimeout
// and animation ticks are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(cmdTimeout):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		results := make([][]tea.Msg, len(msg))
		var wg sync.WaitGroup
		for i, c := range msg {
			wg.Add(1)
			go func(i int, c tea.Cmd) {
				defer wg.Done()
				results[i] = collect(c)
			}(i, c)
		}
		wg.Wait()
		var out []tea.Msg
		for _, r := range results {
			out = append(out, r...)
		}
		return out
	case ui.SplashTickMsg, ui.StopwatchTickMsg, ui.CompletionFlashTickMsg, ui.FlashTickMsg:
		return nil
	}
	return []tea.Msg{msg}
}

func waitFor(t *testing.T, desc string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", desc)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func hasQuit(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

// screen renders the model without styling.
func screen(m *Model) string {
	return ansi.Strip(m.RenderToString())
}

// flashText returns the visible flash message, or "".
func flashText(m *Model) string {
	if !m.footer.HasFlash() {
		return ""
	}
	return strings.TrimSpace(ansi.Strip(m.footer.View()))
}

// keyPress builds the key message for a key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	if strings.HasPrefix(key, "ctrl+") {
		r := []rune(strings.TrimPrefix(key, "ctrl+"))[0]
		return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
	}
	r := []rune(key)[0]
	return tea.KeyPressMsg{Code: r, Text: key}
}
