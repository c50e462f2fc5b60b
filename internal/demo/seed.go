package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/zhubert/nelson/internal/assistant"
	"github.com/zhubert/nelson/internal/auth"
	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/logger"
	"github.com/zhubert/nelson/internal/storage"
)

// messageGap spaces consecutive messages of a seeded chat.
const messageGap = 2 * time.Minute

// Seed registers the scenario's account through provider and stores its
// chats and settings. It returns the new account's id.
func Seed(ctx context.Context, store *storage.Store, provider auth.Provider, s *Scenario, now time.Time) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	log := logger.WithComponent("demo")

	if err := provider.SignUp(ctx, s.Account.Email, s.Account.Password); err != nil {
		return "", fmt.Errorf("register demo account: %w", err)
	}
	acct, err := store.FindAccountByEmail(ctx, s.Account.Email)
	if err != nil {
		return "", fmt.Errorf("find demo account: %w", err)
	}
	if err := settleSession(ctx, provider, s); err != nil {
		return "", err
	}

	// Oldest first, so the store's insertion order matches activity.
	for i := len(s.Chats) - 1; i >= 0; i-- {
		c := buildChat(s.Chats[i], now)
		if err := store.SaveChat(ctx, acct.ID, c); err != nil {
			return "", fmt.Errorf("save demo chat %q: %w", c.Title, err)
		}
	}
	if s.Settings != nil {
		if err := store.SaveSettings(ctx, acct.ID, *s.Settings); err != nil {
			return "", fmt.Errorf("save demo settings: %w", err)
		}
	}

	log.Info("demo data seeded", "scenario", s.Name, "owner", acct.ID, "chats", len(s.Chats))
	return acct.ID, nil
}

// settleSession leaves the demo user signed in or out as the scenario asks,
// whatever the provider did on sign-up.
func settleSession(ctx context.Context, provider auth.Provider, s *Scenario) error {
	if !s.StartSignedIn {
		if err := provider.SignOut(ctx); err != nil {
			return fmt.Errorf("sign out demo account: %w", err)
		}
		return nil
	}
	sess, err := provider.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("read demo session: %w", err)
	}
	if sess != nil {
		return nil
	}
	if err := provider.SignInWithPassword(ctx, s.Account.Email, s.Account.Password); err != nil {
		return fmt.Errorf("sign in demo account: %w", err)
	}
	return nil
}

// buildChat replays setup through a registry so titles and timestamps come
// out the way live use produces them.
func buildChat(setup ChatSetup, now time.Time) chat.Chat {
	msgs := 2 * len(setup.Exchanges)
	t := now.Add(-setup.Age).Add(-time.Duration(msgs+2) * messageGap)
	reg := chat.NewRegistry(chat.WithClock(func() time.Time {
		t = t.Add(messageGap)
		return t
	}))

	id := reg.Create("")
	for _, ex := range setup.Exchanges {
		_, _ = reg.Append(id, chat.RoleUser, ex.Question)
		_, _ = reg.Append(id, chat.RoleAssistant, ex.Answer)
	}
	if setup.Title != "" {
		_ = reg.Rename(id, setup.Title)
	}
	c, _ := reg.Get(id)
	_ = reg.SetMetadata(id, assistant.ClassifyChat(c.Messages))
	c, _ = reg.Get(id)
	return c
}
