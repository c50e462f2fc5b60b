package auth

import (
	"context"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	nerrors "github.com/zhubert/nelson/internal/errors"
	"github.com/zhubert/nelson/internal/logger"
	"github.com/zhubert/nelson/internal/storage"
)

// Messages returned to the sign-in form.
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgAlreadyRegistered  = "User already registered"
	MsgInvalidEmail       = "Unable to validate email address: invalid format"
)

// LocalOptions configures a LocalProvider.
type LocalOptions struct {
	// SessionFile persists the session token between runs. Empty disables
	// persistence.
	SessionFile       string
	MinPasswordLength int
	SessionTTL        time.Duration
	// AutoSignIn signs the user in immediately after a successful sign-up.
	AutoSignIn bool
}

// LocalProvider is a Provider backed by the local database. Passwords are
// stored as bcrypt hashes; the active token is kept in a 0600 file.
type LocalProvider struct {
	store *storage.Store
	opts  LocalOptions
	now   func() time.Time

	mu      sync.Mutex
	current *Session
	subs    map[int]ChangeFunc
	nextSub int
}

// NewLocalProvider returns a provider over store.
func NewLocalProvider(store *storage.Store, opts LocalOptions) *LocalProvider {
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 6
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	return &LocalProvider{
		store: store,
		opts:  opts,
		now:   time.Now,
		subs:  make(map[int]ChangeFunc),
	}
}

// GetSession restores the session from the token file, if it is still valid.
func (p *LocalProvider) GetSession(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	if p.current != nil {
		s := *p.current
		p.mu.Unlock()
		return &s, nil
	}
	p.mu.Unlock()

	token, err := p.readToken()
	if err != nil || token == "" {
		return nil, err
	}

	rec, err := p.store.FindSession(ctx, token)
	if nerrors.Is(err, nerrors.KindNotFound) {
		p.removeToken()
		return nil, nil
	}
	if err != nil {
		return nil, nerrors.ProviderFailed("auth.GetSession", err)
	}
	if !p.now().Before(rec.ExpiresAt) {
		_ = p.store.DeleteSession(ctx, token)
		p.removeToken()
		return nil, nil
	}

	acct, err := p.store.FindAccount(ctx, rec.AccountID)
	if err != nil {
		if nerrors.Is(err, nerrors.KindNotFound) {
			p.removeToken()
			return nil, nil
		}
		return nil, nerrors.ProviderFailed("auth.GetSession", err)
	}

	sess := &Session{
		User:      User{ID: acct.ID, Email: acct.Email},
		Token:     rec.Token,
		ExpiresAt: rec.ExpiresAt,
	}
	p.mu.Lock()
	p.current = sess
	p.mu.Unlock()

	s := *sess
	return &s, nil
}

// OnAuthStateChange registers fn. Events are delivered synchronously on
// the goroutine that caused them.
func (p *LocalProvider) OnAuthStateChange(fn ChangeFunc) Subscription {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return SubscriptionFunc(func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	})
}

func (p *LocalProvider) emit(event Event, sess *Session) {
	p.mu.Lock()
	fns := make([]ChangeFunc, 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		if sess == nil {
			fn(event, nil)
			continue
		}
		s := *sess
		fn(event, &s)
	}
}

// SignUp registers email with password.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) error {
	const op nerrors.Op = "auth.SignUp"

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nerrors.AuthRejected(op, MsgInvalidEmail)
	}
	if len(password) < p.opts.MinPasswordLength {
		return nerrors.AuthRejected(op, passwordTooShort(p.opts.MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nerrors.E(op, nerrors.KindInvalid, err)
	}
	acct := storage.Account{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	if err := p.store.CreateAccount(ctx, acct); err != nil {
		if nerrors.Is(err, nerrors.KindInvalid) {
			return nerrors.AuthRejected(op, MsgAlreadyRegistered)
		}
		return nerrors.ProviderFailed(op, err)
	}
	logger.WithComponent("auth").Info("account registered", "userID", acct.ID)

	if !p.opts.AutoSignIn {
		return nil
	}
	return p.startSession(ctx, op, User{ID: acct.ID, Email: acct.Email})
}

// SignInWithPassword authenticates email/password and starts a session.
func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) error {
	const op nerrors.Op = "auth.SignIn"

	acct, err := p.store.FindAccountByEmail(ctx, email)
	if nerrors.Is(err, nerrors.KindNotFound) {
		return nerrors.AuthRejected(op, MsgInvalidCredentials)
	}
	if err != nil {
		return nerrors.ProviderFailed(op, err)
	}
	if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)) != nil {
		return nerrors.AuthRejected(op, MsgInvalidCredentials)
	}
	return p.startSession(ctx, op, User{ID: acct.ID, Email: acct.Email})
}

func (p *LocalProvider) startSession(ctx context.Context, op nerrors.Op, u User) error {
	now := p.now()
	rec := storage.AuthSession{
		Token:     uuid.NewString(),
		AccountID: u.ID,
		ExpiresAt: now.Add(p.opts.SessionTTL),
		CreatedAt: now,
	}
	if err := p.store.CreateSession(ctx, rec); err != nil {
		return nerrors.ProviderFailed(op, err)
	}
	if err := p.writeToken(rec.Token); err != nil {
		logger.WithComponent("auth").Warn("failed to persist session token", "error", err)
	}

	sess := &Session{User: u, Token: rec.Token, ExpiresAt: rec.ExpiresAt}
	p.mu.Lock()
	p.current = sess
	p.mu.Unlock()

	p.emit(EventSignedIn, sess)
	return nil
}

// SignOut drops the current session. Signing out while signed out is a no-op.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	sess := p.current
	p.current = nil
	p.mu.Unlock()

	if sess == nil {
		return nil
	}
	p.removeToken()
	err := p.store.DeleteSession(ctx, sess.Token)
	p.emit(EventSignedOut, nil)
	if err != nil {
		return nerrors.ProviderFailed("auth.SignOut", err)
	}
	return nil
}

func (p *LocalProvider) readToken() (string, error) {
	if p.opts.SessionFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(p.opts.SessionFile)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", nerrors.E(nerrors.Op("auth.readToken"), nerrors.KindIO, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (p *LocalProvider) writeToken(token string) error {
	if p.opts.SessionFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.opts.SessionFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(p.opts.SessionFile, []byte(token+"\n"), 0600)
}

func (p *LocalProvider) removeToken() {
	if p.opts.SessionFile == "" {
		return
	}
	if err := os.Remove(p.opts.SessionFile); err != nil && !os.IsNotExist(err) {
		logger.WithComponent("auth").Warn("failed to remove session file", "error", err)
	}
}

func passwordTooShort(n int) string {
	return fmt.Sprintf("Password should be at least %d characters.", n)
}
