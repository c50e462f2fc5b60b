package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zhubert/nelson/internal/assistant"
	"github.com/zhubert/nelson/internal/auth"
	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/ui"
	"github.com/zhubert/nelson/internal/ui/modals"
)

func TestPhase_String(t *testing.T) {
	tests := map[Phase]string{
		PhaseSplash:  "Splash",
		PhaseLoading: "Loading",
		PhaseAuth:    "Auth",
		PhaseMain:    "Main",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}

func TestStartup_SplashFirst(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)
	if m.Phase() != PhaseSplash {
		t.Fatalf("Phase() = %v, want %v", m.Phase(), PhaseSplash)
	}
	if !strings.Contains(screen(m), "NelsonGPT") {
		t.Error("splash does not show the product name")
	}
}

func TestStartup_NoSessionShowsAuth(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)
	start(t, m)

	if m.Phase() != PhaseAuth {
		t.Fatalf("Phase() = %v, want %v", m.Phase(), PhaseAuth)
	}
	if !strings.Contains(screen(m), "Sign In") {
		t.Error("auth screen does not show the sign-in form")
	}
	if m.Workspace().IsMounted() {
		t.Error("workspace mounted without a user")
	}
}

func TestStartup_LoadingWhileSessionUnresolved(t *testing.T) {
	m, provider, _ := newTestModel(t, nil, nil)
	provider.Gate = make(chan struct{})

	m.Init()
	send(t, m, ui.SplashDoneMsg{})
	if m.Phase() != PhaseLoading {
		t.Fatalf("Phase() = %v, want %v", m.Phase(), PhaseLoading)
	}
	if !strings.Contains(screen(m), "Checking your session") {
		t.Errorf("loading screen = %q", screen(m))
	}

	close(provider.Gate)
	waitFor(t, "session lookup", func() bool { return !m.auth.Loading() })
	send(t, m, AuthChangedMsg{State: m.auth.State()})
	if m.Phase() != PhaseAuth {
		t.Errorf("Phase() = %v after lookup, want %v", m.Phase(), PhaseAuth)
	}
}

func TestStartup_LookupFailureShowsAuth(t *testing.T) {
	m, provider, _ := newTestModel(t, nil, nil)
	provider.GetSessionErr = errors.New("session store unreadable")
	start(t, m)

	if m.Phase() != PhaseAuth {
		t.Errorf("Phase() = %v, want %v", m.Phase(), PhaseAuth)
	}
}

func TestStartup_SavedSessionShowsMain(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")

	if m.Workspace().Owner() != "mock-doc@example.com" {
		t.Errorf("Owner() = %q", m.Workspace().Owner())
	}
	if !strings.Contains(screen(m), "doc@example.com") {
		t.Error("header does not show the signed-in email")
	}
	if m.focus != FocusSidebar {
		t.Errorf("focus = %v, want sidebar", m.focus)
	}
}

func TestAuth_ChangeEventSignsIn(t *testing.T) {
	m, provider, _ := newTestModel(t, nil, nil)
	start(t, m)

	provider.Emit(auth.EventSignedIn, testSession("nurse@example.com"))
	send(t, m, AuthChangedMsg{State: m.auth.State()})

	if m.Phase() != PhaseMain {
		t.Fatalf("Phase() = %v, want %v", m.Phase(), PhaseMain)
	}
	if m.Workspace().Owner() != "mock-nurse@example.com" {
		t.Errorf("Owner() = %q", m.Workspace().Owner())
	}
}

func TestAuth_InvalidCredentialsShownInline(t *testing.T) {
	m, _, _ := newTestModel(t, nil, nil)
	start(t, m)

	send(t, m, ui.AuthSubmitMsg{Mode: ui.AuthSignIn, Email: "doc@example.com", Password: "wrong"})

	if m.Phase() != PhaseAuth {
		t.Fatalf("Phase() = %v, want %v", m.Phase(), PhaseAuth)
	}
	if got := m.authForm.Error(); got != auth.MsgInvalidCredentials {
		t.Errorf("form error = %q, want %q", got, auth.MsgInvalidCredentials)
	}
	if m.authForm.IsPending() {
		t.Error("form still pending after the result")
	}
}

func TestAuth_SignInReachesMain(t *testing.T) {
	m, provider, _ := newTestModel(t, nil, nil)
	provider.AddAccount("doc@example.com", "hunter22")
	start(t, m)

	send(t, m, ui.AuthSubmitMsg{Mode: ui.AuthSignIn, Email: "doc@example.com", Password: "hunter22"})
	send(t, m, AuthChangedMsg{State: m.auth.State()})

	if m.Phase() != PhaseMain {
		t.Fatalf("Phase() = %v, want %v", m.Phase(), PhaseMain)
	}
	if m.authForm.Error() != "" {
		t.Errorf("form error = %q after success", m.authForm.Error())
	}
}

func TestAuth_SignUpWithoutAutoSignIn(t *testing.T) {
	cfg := testConfig()
	off := false
	cfg.Auth.AutoSignIn = &off
	m, _, _ := newTestModel(t, cfg, nil)
	start(t, m)
	m.authForm.ToggleMode()

	send(t, m, ui.AuthSubmitMsg{Mode: ui.AuthSignUp, Email: "new@example.com", Password: "hunter22"})

	if m.Phase() != PhaseAuth {
		t.Fatalf("Phase() = %v, want %v", m.Phase(), PhaseAuth)
	}
	if m.authForm.Mode() != ui.AuthSignIn {
		t.Errorf("form mode = %v, want %v", m.authForm.Mode(), ui.AuthSignIn)
	}
	if !strings.Contains(flashText(m), "Account created") {
		t.Errorf("flash = %q", flashText(m))
	}
}

func TestAuth_SubmitIgnoredOutsideAuthPhase(t *testing.T) {
	m, provider, _ := startMain(t, "doc@example.com")
	before := len(provider.Calls())

	send(t, m, ui.AuthSubmitMsg{Mode: ui.AuthSignIn, Email: "x@example.com", Password: "y"})
	if len(provider.Calls()) != before {
		t.Errorf("provider called while signed in: %v", provider.Calls()[before:])
	}
}

func TestSignOut_ReturnsToAuth(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")
	m.Workspace().NewChat("")

	press(t, m, keys.CtrlO)
	send(t, m, AuthChangedMsg{State: m.auth.State()})

	if m.Phase() != PhaseAuth {
		t.Fatalf("Phase() = %v, want %v", m.Phase(), PhaseAuth)
	}
	if m.Workspace().IsMounted() {
		t.Error("workspace still mounted after sign out")
	}
	if m.Workspace().Registry().Len() != 0 {
		t.Error("chats still loaded after sign out")
	}
	if strings.Contains(screen(m), "doc@example.com") {
		t.Error("email still visible after sign out")
	}
}

// openNewChat starts a chat and focuses its composer.
func openNewChat(t *testing.T, m *Model) chat.ID {
	t.Helper()
	press(t, m, keys.CtrlN)
	id, ok := m.Workspace().Registry().Current()
	if !ok {
		t.Fatal("no current chat after ctrl+n")
	}
	if m.focus != FocusChat {
		t.Fatalf("focus = %v, want chat", m.focus)
	}
	return id
}

func TestSendMessage_ReplyStored(t *testing.T) {
	m, _, responder := startMain(t, "doc@example.com")
	responder.Reply = func(history []chat.Message) string {
		return "Give 15 mg/kg of paracetamol every 6 hours."
	}
	id := openNewChat(t, m)

	m.chat.SetInput("Paracetamol dose for a 12 kg toddler")
	press(t, m, keys.Enter)

	c, _ := m.Workspace().Registry().Get(id)
	if len(c.Messages) != 2 {
		t.Fatalf("chat has %d messages, want 2", len(c.Messages))
	}
	if c.Messages[0].Role != chat.RoleUser || c.Messages[1].Role != chat.RoleAssistant {
		t.Errorf("roles = %v, %v", c.Messages[0].Role, c.Messages[1].Role)
	}
	if c.Messages[1].Content != "Give 15 mg/kg of paracetamol every 6 hours." {
		t.Errorf("reply = %q", c.Messages[1].Content)
	}
	if c.Title != chat.DeriveTitle("Paracetamol dose for a 12 kg toddler") {
		t.Errorf("Title = %q", c.Title)
	}
	if m.chat.GetInput() != "" {
		t.Error("composer not cleared after sending")
	}
	if m.cancelReply != nil {
		t.Error("reply still pending")
	}
	if responder.Calls() != 1 {
		t.Errorf("responder called %d times", responder.Calls())
	}
}

func TestSendMessage_EmptyInputIgnored(t *testing.T) {
	m, _, responder := startMain(t, "doc@example.com")
	openNewChat(t, m)

	press(t, m, keys.Enter)
	if responder.Calls() != 0 {
		t.Errorf("responder called %d times for empty input", responder.Calls())
	}
}

func TestSendMessage_WhileWaiting(t *testing.T) {
	m, _, responder := startMain(t, "doc@example.com")
	responder.Delay = time.Hour
	id := openNewChat(t, m)

	m.chat.SetInput("First question")
	_, pending := m.Update(keyPress(keys.Enter))
	if m.cancelReply == nil {
		t.Fatal("no reply pending after enter")
	}

	m.chat.SetInput("Second question")
	m.Update(keyPress(keys.Enter))
	if !strings.Contains(flashText(m), "Wait for the current reply") {
		t.Errorf("flash = %q", flashText(m))
	}
	if m.chat.GetInput() != "Second question" {
		t.Error("composer text lost while waiting")
	}
	c, _ := m.Workspace().Registry().Get(id)
	if len(c.Messages) != 1 {
		t.Errorf("chat has %d messages, want 1", len(c.Messages))
	}

	m.stopReply()
	process(t, m, pending)
}

func TestEscape_StopsReply(t *testing.T) {
	m, _, responder := startMain(t, "doc@example.com")
	responder.Delay = time.Hour
	id := openNewChat(t, m)

	m.chat.SetInput("Is a rash after amoxicillin an allergy?")
	_, pending := m.Update(keyPress(keys.Enter))

	press(t, m, keys.Escape)
	if m.cancelReply != nil {
		t.Fatal("reply still pending after esc")
	}
	if !strings.Contains(flashText(m), "Stopped waiting") {
		t.Errorf("flash = %q", flashText(m))
	}

	// The cancelled request and any late answer are both dropped.
	process(t, m, pending)
	send(t, m, ReplyMsg{ChatID: id, Content: "late answer"})

	c, _ := m.Workspace().Registry().Get(id)
	if len(c.Messages) != 1 {
		t.Errorf("chat has %d messages, want 1", len(c.Messages))
	}
}

func TestReplyError_ShowsFlash(t *testing.T) {
	m, _, responder := startMain(t, "doc@example.com")
	responder.Err = errors.New("upstream unavailable")
	id := openNewChat(t, m)

	m.chat.SetInput("Croup management")
	press(t, m, keys.Enter)

	if !strings.Contains(flashText(m), "NelsonGPT could not answer") {
		t.Errorf("flash = %q", flashText(m))
	}
	if m.cancelReply != nil {
		t.Error("reply still pending after error")
	}
	c, _ := m.Workspace().Registry().Get(id)
	if len(c.Messages) != 1 {
		t.Errorf("chat has %d messages, want 1", len(c.Messages))
	}
}

func TestReply_ForOtherChatFlashes(t *testing.T) {
	m, _, responder := startMain(t, "doc@example.com")
	responder.Delay = 50 * time.Millisecond
	first := openNewChat(t, m)

	m.chat.SetInput("Bronchiolitis oxygen targets")
	_, pending := m.Update(keyPress(keys.Enter))

	second := m.Workspace().NewChat("")
	m.Workspace().SelectChat(second)
	process(t, m, pending)

	c, _ := m.Workspace().Registry().Get(first)
	if len(c.Messages) != 2 {
		t.Fatalf("first chat has %d messages, want 2", len(c.Messages))
	}
	if !strings.Contains(flashText(m), "Reply ready in") {
		t.Errorf("flash = %q", flashText(m))
	}
}

func TestClearAll_ConfirmationCancelled(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")
	m.Workspace().NewChat("")
	m.Workspace().NewChat("")

	send(t, m, ui.ClearAllRequestedMsg{Count: 2})
	if _, ok := m.modal.State.(*modals.ConfirmClearAllState); !ok {
		t.Fatalf("modal state = %T, want *modals.ConfirmClearAllState", m.modal.State)
	}

	press(t, m, keys.Escape)
	if m.modal.IsVisible() {
		t.Error("modal still visible after esc")
	}
	if m.Workspace().Registry().Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Workspace().Registry().Len())
	}
}

func TestClearAll_WithoutConfirmation(t *testing.T) {
	cfg := testConfig()
	off := false
	cfg.UI.ConfirmClearAll = &off
	m, _, _ := newTestModel(t, cfg, testSession("doc@example.com"))
	start(t, m)
	m.Workspace().NewChat("")
	m.Workspace().NewChat("")

	send(t, m, ui.ClearAllRequestedMsg{Count: 2})

	if m.modal.IsVisible() {
		t.Error("confirmation shown although disabled")
	}
	if m.Workspace().Registry().Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Workspace().Registry().Len())
	}
	if got := flashText(m); !strings.Contains(got, "Cleared 2 chats") {
		t.Errorf("flash = %q", got)
	}
}

func TestRename_ModalUpdatesTitle(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")
	id := m.Workspace().NewChat("")

	send(t, m, ui.RenameRequestedMsg{ID: id, Title: chat.DefaultTitle})
	state, ok := m.modal.State.(*modals.RenameChatState)
	if !ok {
		t.Fatalf("modal state = %T, want *modals.RenameChatState", m.modal.State)
	}
	if state.ChatID != string(id) {
		t.Errorf("ChatID = %q, want %q", state.ChatID, id)
	}

	press(t, m, keys.Escape)
	if m.modal.IsVisible() {
		t.Error("modal still visible after esc")
	}
}

func TestCopyReply_NoReplyYet(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")
	openNewChat(t, m)

	press(t, m, keys.CtrlY)
	if !strings.Contains(flashText(m), "No reply to copy yet") {
		t.Errorf("flash = %q", flashText(m))
	}
}

func TestStorageError_ShowsFlash(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")

	send(t, m, StorageErrorMsg{Err: errors.New("disk full")})
	if !strings.Contains(flashText(m), "Could not save changes") {
		t.Errorf("flash = %q", flashText(m))
	}
}

func TestView_MainScreen(t *testing.T) {
	m, _, _ := startMain(t, "doc@example.com")
	out := screen(m)

	if !strings.Contains(out, "NelsonGPT") {
		t.Error("header missing")
	}
	if !strings.Contains(out, "Recent Chats") && !strings.Contains(out, "No chats") {
		t.Errorf("sidebar missing from %q", out)
	}

	press(t, m, keys.CtrlB)
	if m.sidebar.Controller().IsOpen() {
		t.Error("sidebar still open after ctrl+b")
	}
	if m.focus != FocusChat {
		t.Errorf("focus = %v, want chat", m.focus)
	}
}

func TestView_BeforeSize(t *testing.T) {
	m := New(testConfig(), "test", Options{Provider: auth.NewMockProvider(nil), Responder: &assistant.MockResponder{}})
	defer m.Close()
	if got := m.RenderToString(); got != "Loading..." {
		t.Errorf("RenderToString() = %q", got)
	}
}
