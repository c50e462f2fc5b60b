// Package chat holds the conversation registry: every chat the signed-in
// user has, their ordering, and which one is currently open.
package chat

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// ID identifies a chat. IDs are opaque and never reused within a registry.
type ID string

// DefaultTitle is shown until the first user message names the chat.
const DefaultTitle = "New Chat"

// MaxTitleGraphemes bounds derived titles.
const MaxTitleGraphemes = 40

// Urgency is a display hint attached to a chat. It never affects ordering.
type Urgency int

const (
	UrgencyNone Urgency = iota
	UrgencyMedium
	UrgencyHigh
	UrgencyEmergency
)

func (u Urgency) String() string {
	switch u {
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	case UrgencyEmergency:
		return "emergency"
	default:
		return "none"
	}
}

// ParseUrgency maps a stored urgency name back to its value.
// Unknown names fall back to UrgencyNone and report false.
func ParseUrgency(s string) (Urgency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return UrgencyNone, true
	case "medium":
		return UrgencyMedium, true
	case "high":
		return UrgencyHigh, true
	case "emergency":
		return UrgencyEmergency, true
	}
	return UrgencyNone, false
}

// Metadata carries the optional classification of a chat.
type Metadata struct {
	Urgency       Urgency
	MedicalDomain string
}

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Chat is a single conversation.
type Chat struct {
	ID        ID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Metadata  Metadata
	Messages  []Message

	// Seed is a template prompt waiting in the composer. It is cleared
	// once the user sends their first message.
	Seed string
}

// clone returns a copy that shares no slices with c.
func (c *Chat) clone() Chat {
	out := *c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		copy(out.Messages, c.Messages)
	}
	return out
}

// UserMessageCount returns how many messages the user has sent.
func (c Chat) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// LastAssistantMessage returns the most recent assistant reply, if any.
func (c Chat) LastAssistantMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// DeriveTitle turns the first user message into a chat title: whitespace is
// collapsed and the result is cut to MaxTitleGraphemes user-perceived
// characters.
func DeriveTitle(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return DefaultTitle
	}
	if uniseg.GraphemeClusterCount(text) <= MaxTitleGraphemes {
		return text
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(text)
	for n := 0; n < MaxTitleGraphemes && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return strings.TrimRight(b.String(), " ") + "…"
}
