package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zhubert/nelson/internal/storage"
)

type localFixture struct {
	store       *storage.Store
	sessionFile string
}

func newLocalFixture(t *testing.T) *localFixture {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(storage.DriverSQLite, filepath.Join(dir, "nelson.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &localFixture{store: store, sessionFile: filepath.Join(dir, "session")}
}

func (f *localFixture) provider(autoSignIn bool) *LocalProvider {
	return NewLocalProvider(f.store, LocalOptions{
		SessionFile: f.sessionFile,
		AutoSignIn:  autoSignIn,
		SessionTTL:  time.Hour,
	})
}

type eventLog struct {
	events []Event
	last   *Session
}

func (e *eventLog) record(ev Event, s *Session) {
	e.events = append(e.events, ev)
	e.last = s
}

func TestLocal_SignUpThenSignIn(t *testing.T) {
	f := newLocalFixture(t)
	p := f.provider(false)
	ctx := context.Background()
	var log eventLog
	p.OnAuthStateChange(log.record)

	if err := p.SignUp(ctx, "Resident@Hospital.org", "ped1atrics"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if len(log.events) != 0 {
		t.Errorf("sign-up without auto sign-in emitted %v", log.events)
	}

	if err := p.SignInWithPassword(ctx, "resident@hospital.org", "ped1atrics"); err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if len(log.events) != 1 || log.events[0] != EventSignedIn {
		t.Fatalf("events = %v", log.events)
	}
	if log.last == nil || log.last.User.Email != "resident@hospital.org" {
		t.Errorf("session = %+v", log.last)
	}

	info, err := os.Stat(f.sessionFile)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("session file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLocal_SignUpAutoSignIn(t *testing.T) {
	f := newLocalFixture(t)
	p := f.provider(true)
	var log eventLog
	p.OnAuthStateChange(log.record)

	if err := p.SignUp(context.Background(), "a@b.org", "abcdef"); err != nil {
		t.Fatal(err)
	}
	if len(log.events) != 1 || log.events[0] != EventSignedIn {
		t.Errorf("events = %v", log.events)
	}
}

func TestLocal_SignUpValidation(t *testing.T) {
	f := newLocalFixture(t)
	p := f.provider(false)
	ctx := context.Background()
	p.SignUp(ctx, "taken@b.org", "abcdef")

	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"bad email", "not-an-email", "abcdef", MsgInvalidEmail},
		{"empty email", "", "abcdef", MsgInvalidEmail},
		{"short password", "new@b.org", "abc", "Password should be at least 6 characters."},
		{"duplicate", "TAKEN@b.org", "abcdef", MsgAlreadyRegistered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(p)
			res := c.SignUp(ctx, tt.email, tt.password)
			if res.Error != tt.want {
				t.Errorf("SignUp error = %q, want %q", res.Error, tt.want)
			}
		})
	}
}

func TestLocal_SignInRejected(t *testing.T) {
	f := newLocalFixture(t)
	p := f.provider(false)
	ctx := context.Background()
	p.SignUp(ctx, "a@b.org", "abcdef")
	c := NewController(p)

	for _, tc := range [][2]string{{"a@b.org", "wrong!"}, {"nobody@b.org", "abcdef"}} {
		res := c.SignIn(ctx, tc[0], tc[1])
		if res.Error != MsgInvalidCredentials {
			t.Errorf("SignIn(%s) = %+v, want %q", tc[0], res, MsgInvalidCredentials)
		}
	}
}

func TestLocal_SessionSurvivesRestart(t *testing.T) {
	f := newLocalFixture(t)
	ctx := context.Background()
	first := f.provider(true)
	first.SignUp(ctx, "a@b.org", "abcdef")

	second := f.provider(false)
	sess, err := second.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if sess == nil || sess.User.Email != "a@b.org" {
		t.Errorf("restored session = %+v", sess)
	}
}

func TestLocal_ExpiredSessionIsDropped(t *testing.T) {
	f := newLocalFixture(t)
	ctx := context.Background()
	first := f.provider(true)
	first.SignUp(ctx, "a@b.org", "abcdef")

	second := f.provider(false)
	second.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	sess, err := second.GetSession(ctx)
	if err != nil || sess != nil {
		t.Errorf("GetSession() = %+v, %v; want nil, nil", sess, err)
	}
	if _, err := os.Stat(f.sessionFile); !os.IsNotExist(err) {
		t.Error("expired session file should be removed")
	}
}

func TestLocal_NoSessionFile(t *testing.T) {
	f := newLocalFixture(t)
	sess, err := f.provider(false).GetSession(context.Background())
	if err != nil || sess != nil {
		t.Errorf("GetSession() = %+v, %v; want nil, nil", sess, err)
	}
}

func TestLocal_SignOut(t *testing.T) {
	f := newLocalFixture(t)
	ctx := context.Background()
	p := f.provider(true)
	var log eventLog
	p.OnAuthStateChange(log.record)
	p.SignUp(ctx, "a@b.org", "abcdef")

	if err := p.SignOut(ctx); err != nil {
		t.Fatal(err)
	}
	if got := log.events[len(log.events)-1]; got != EventSignedOut || log.last != nil {
		t.Errorf("last event = %v with session %+v", got, log.last)
	}
	if _, err := os.Stat(f.sessionFile); !os.IsNotExist(err) {
		t.Error("session file should be removed on sign out")
	}
	if sess, _ := f.provider(false).GetSession(ctx); sess != nil {
		t.Error("signed-out session should not be restorable")
	}

	// Signing out twice is harmless.
	if err := p.SignOut(ctx); err != nil {
		t.Errorf("second SignOut: %v", err)
	}
}

func TestLocal_WithController(t *testing.T) {
	f := newLocalFixture(t)
	p := f.provider(false)
	ctx := context.Background()
	p.SignUp(ctx, "a@b.org", "abcdef")

	c := NewController(p)
	c.Start(ctx)
	defer c.Close()
	waitSettled(t, c)

	if _, ok := c.User(); ok {
		t.Fatal("should start signed out")
	}
	if res := c.SignIn(ctx, "a@b.org", "abcdef"); !res.OK() {
		t.Fatalf("SignIn = %+v", res)
	}
	if u, ok := c.User(); !ok || u.Email != "a@b.org" {
		t.Errorf("User() = %+v, %v", u, ok)
	}
	c.SignOut(ctx)
	if _, ok := c.User(); ok {
		t.Error("should be signed out")
	}
}
