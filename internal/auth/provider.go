// Package auth tracks who is signed in.
//
// Identity itself is delegated to a Provider. The Controller turns the
// provider's one-shot session query and its push notifications into a
// single {user, loading} state the UI can render.
package auth

import (
	"context"
	"time"
)

// User is the signed-in identity.
type User struct {
	ID    string
	Email string
}

// Session is an authenticated session issued by a provider.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}

// Event names an auth state transition pushed by a provider.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
	EventUserUpdated    Event = "USER_UPDATED"
)

// ChangeFunc receives auth transitions. A nil session means signed out.
type ChangeFunc func(event Event, session *Session)

// Subscription is a live OnAuthStateChange registration.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain func to Subscription.
type SubscriptionFunc func()

// Unsubscribe calls f.
func (f SubscriptionFunc) Unsubscribe() { f() }

// Provider is an identity backend.
type Provider interface {
	// GetSession returns the persisted session, or nil if signed out.
	GetSession(ctx context.Context) (*Session, error)
	// OnAuthStateChange registers fn for every subsequent transition.
	OnAuthStateChange(fn ChangeFunc) Subscription
	SignUp(ctx context.Context, email, password string) error
	SignInWithPassword(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}
