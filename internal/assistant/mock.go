package assistant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zhubert/nelson/internal/chat"
)

// MockResponder returns canned replies. It backs demo mode and tests.
type MockResponder struct {
	mu    sync.Mutex
	calls int

	// Delay simulates network latency.
	Delay time.Duration
	// Err, when set, is returned instead of a reply.
	Err error
	// Reply overrides the canned reply.
	Reply func(history []chat.Message) string
}

// Calls reports how many times Respond was invoked.
func (m *MockResponder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockResponder) Respond(ctx context.Context, history []chat.Message) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != nil {
		return m.Reply(history), nil
	}
	return cannedReply(history), nil
}

func cannedReply(history []chat.Message) string {
	var question string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == chat.RoleUser {
			question = history[i].Content
			break
		}
	}
	md := Classify(question)
	domain := md.MedicalDomain
	if domain == "" {
		domain = "General Pediatrics"
	}

	reply := fmt.Sprintf("This is a demo reply about %s.\n\n", domain)
	if md.Urgency >= chat.UrgencyHigh {
		reply += "**Red flags present.** Assess airway, breathing and circulation first and escalate to emergency care.\n\n"
	}
	reply += "```text\nweight-based dose = dose (mg/kg) x weight (kg), not to exceed the adult maximum\n```\n\n"
	reply += "Source: Nelson Textbook of Pediatrics, General Principles"
	return reply
}
