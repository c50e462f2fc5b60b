package auth

import (
	"context"
	"sync"

	nerrors "github.com/zhubert/nelson/internal/errors"
)

// MockProvider is an in-memory Provider for tests and demo mode. Sign-in
// succeeds for any account registered through SignUp or Accounts.
type MockProvider struct {
	mu       sync.Mutex
	session  *Session
	accounts map[string]string // email -> password
	subs     map[int]ChangeFunc
	nextSub  int
	calls    []string

	// GetSessionErr is returned by GetSession when set.
	GetSessionErr error
	// GetSessionPanic makes GetSession panic with this value when non-nil.
	GetSessionPanic any
	// Gate, when non-nil, blocks GetSession until it is closed or the
	// context is cancelled.
	Gate chan struct{}
	// AutoSignIn emits SIGNED_IN after a successful SignUp.
	AutoSignIn bool
}

// NewMockProvider returns a provider holding session, which may be nil.
func NewMockProvider(session *Session) *MockProvider {
	return &MockProvider{
		session:  session,
		accounts: make(map[string]string),
		subs:     make(map[int]ChangeFunc),
	}
}

// AddAccount registers credentials that SignInWithPassword will accept.
func (m *MockProvider) AddAccount(email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[email] = password
}

// Calls returns the provider methods invoked so far, in order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Subscribers returns the number of live subscriptions.
func (m *MockProvider) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func (m *MockProvider) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *MockProvider) GetSession(ctx context.Context) (*Session, error) {
	m.record("GetSession")
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.GetSessionPanic != nil {
		panic(m.GetSessionPanic)
	}
	if m.GetSessionErr != nil {
		return nil, m.GetSessionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

func (m *MockProvider) OnAuthStateChange(fn ChangeFunc) Subscription {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.calls = append(m.calls, "OnAuthStateChange")
	m.mu.Unlock()

	var once sync.Once
	return SubscriptionFunc(func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.calls = append(m.calls, "Unsubscribe")
			m.mu.Unlock()
		})
	})
}

// Emit pushes an event to every subscriber and updates the held session.
func (m *MockProvider) Emit(event Event, sess *Session) {
	m.mu.Lock()
	m.session = sess
	fns := make([]ChangeFunc, 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(event, sess)
	}
}

func (m *MockProvider) SignUp(ctx context.Context, email, password string) error {
	m.record("SignUp")
	m.mu.Lock()
	if _, exists := m.accounts[email]; exists {
		m.mu.Unlock()
		return nerrors.AuthRejected("auth.SignUp", MsgAlreadyRegistered)
	}
	m.accounts[email] = password
	m.mu.Unlock()

	if m.AutoSignIn {
		m.Emit(EventSignedIn, &Session{User: User{ID: "mock-" + email, Email: email}, Token: "mock"})
	}
	return nil
}

func (m *MockProvider) SignInWithPassword(ctx context.Context, email, password string) error {
	m.record("SignInWithPassword")
	m.mu.Lock()
	want, ok := m.accounts[email]
	m.mu.Unlock()
	if !ok || want != password {
		return nerrors.AuthRejected("auth.SignIn", MsgInvalidCredentials)
	}
	m.Emit(EventSignedIn, &Session{User: User{ID: "mock-" + email, Email: email}, Token: "mock"})
	return nil
}

func (m *MockProvider) SignOut(ctx context.Context) error {
	m.record("SignOut")
	m.Emit(EventSignedOut, nil)
	return nil
}
