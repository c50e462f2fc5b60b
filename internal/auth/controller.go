package auth

import (
	"context"
	"fmt"
	"sync"

	nerrors "github.com/zhubert/nelson/internal/errors"
	"github.com/zhubert/nelson/internal/logger"
)

// Result reports the outcome of a sign-in or sign-up. The zero value means
// success; otherwise Error holds a message fit for display.
type Result struct {
	Error string
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Error == "" }

// State is a snapshot of the controller.
type State struct {
	User    *User
	Loading bool
}

// Controller keeps the current user in sync with a Provider.
//
// The provider's push channel is the source of truth for the user. The
// initial GetSession only fills the user if no push event has arrived yet,
// and sign-in/sign-up return values never touch it. Loading is true from
// construction until the initial GetSession settles, successfully or not,
// and never becomes true again.
type Controller struct {
	provider Provider

	mu       sync.Mutex
	user     *User
	loading  bool
	sawEvent bool
	started  bool
	closed   bool
	sub      Subscription
	cancel   context.CancelFunc

	changes   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewController returns a controller in the loading state. Call Start to
// begin resolving the session.
func NewController(p Provider) *Controller {
	return &Controller{
		provider: p,
		loading:  true,
		changes:  make(chan struct{}, 1),
	}
}

// Start subscribes to the provider and issues the initial session query in
// the background. Calling Start more than once has no effect.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	sub := c.subscribe()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if sub != nil {
			sub.Unsubscribe()
		}
		return
	}
	c.sub = sub
	c.wg.Add(1)
	c.mu.Unlock()

	go c.resolveInitialSession(ctx)
}

// subscribe registers for auth state changes. A provider that panics while
// subscribing leaves the controller without a push channel; the initial
// session lookup still runs.
func (c *Controller) subscribe() (sub Subscription) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithComponent("auth").Error("auth state subscription failed", "error", fmt.Sprintf("%v", r))
			sub = nil
		}
	}()
	return c.provider.OnAuthStateChange(c.handleChange)
}

func (c *Controller) resolveInitialSession(ctx context.Context) {
	defer c.wg.Done()
	log := logger.WithComponent("auth")

	var (
		sess *Session
		err  error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in GetSession: %v", r)
			}
		}()
		sess, err = c.provider.GetSession(ctx)
	}()

	if err != nil {
		log.Warn("initial session lookup failed", "error", err)
		sess = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if !c.sawEvent && sess != nil {
		u := sess.User
		c.user = &u
		log.Info("session restored", "userID", u.ID)
	}
	c.loading = false
	c.notifyLocked()
}

func (c *Controller) handleChange(event Event, sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.sawEvent = true
	if sess == nil {
		c.user = nil
	} else {
		u := sess.User
		c.user = &u
	}
	logger.WithComponent("auth").Debug("auth state changed", "event", string(event), "signedIn", sess != nil)
	c.notifyLocked()
}

// notifyLocked signals a change without blocking. Pending signals coalesce.
// Callers must hold mu.
func (c *Controller) notifyLocked() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// Changes delivers a signal whenever the state may have changed. It is
// closed by Close.
func (c *Controller) Changes() <-chan struct{} { return c.changes }

// State returns a consistent snapshot of user and loading.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{Loading: c.loading}
	if c.user != nil {
		u := *c.user
		s.User = &u
	}
	return s
}

// User returns the signed-in user, if any.
func (c *Controller) User() (User, bool) {
	s := c.State()
	if s.User == nil {
		return User{}, false
	}
	return *s.User, true
}

// Loading reports whether the initial session query is still outstanding.
func (c *Controller) Loading() bool { return c.State().Loading }

// SignUp registers a new account. The user changes only through the
// provider's push channel.
func (c *Controller) SignUp(ctx context.Context, email, password string) Result {
	return c.result("auth.SignUp", c.provider.SignUp(ctx, email, password))
}

// SignIn authenticates with email and password. The user changes only
// through the provider's push channel.
func (c *Controller) SignIn(ctx context.Context, email, password string) Result {
	return c.result("auth.SignIn", c.provider.SignInWithPassword(ctx, email, password))
}

// SignOut ends the session. Failures are logged and otherwise ignored; the
// user clears when the provider pushes the sign-out.
func (c *Controller) SignOut(ctx context.Context) error {
	err := c.provider.SignOut(ctx)
	if err != nil {
		logger.WithComponent("auth").Warn("sign out failed", "error", err)
	}
	return err
}

func (c *Controller) result(op nerrors.Op, err error) Result {
	if err == nil {
		return Result{}
	}
	logger.WithComponent("auth").Info("auth request rejected", "op", string(op), "error", err)
	msg := nerrors.Message(err)
	if msg == "" {
		msg = "Authentication failed"
	}
	return Result{Error: msg}
}

// Close releases the provider subscription exactly once. No state change is
// observed after Close returns.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		sub := c.sub
		c.sub = nil
		cancel := c.cancel
		close(c.changes)
		c.mu.Unlock()

		if sub != nil {
			sub.Unsubscribe()
		}
		if cancel != nil {
			cancel()
		}
		c.wg.Wait()
	})
}
