package app

import (
	"github.com/zhubert/nelson/internal/auth"
	"github.com/zhubert/nelson/internal/chat"
	"github.com/zhubert/nelson/internal/settings"
	"github.com/zhubert/nelson/internal/ui"
)

// Phase is the screen the app is on.
type Phase int

const (
	PhaseSplash  Phase = iota // Logo while the app starts
	PhaseLoading              // Saved session or workspace still resolving
	PhaseAuth                 // Sign-in / sign-up form
	PhaseMain                 // Sidebar and chat
)

func (p Phase) String() string {
	switch p {
	case PhaseSplash:
		return "Splash"
	case PhaseLoading:
		return "Loading"
	case PhaseAuth:
		return "Auth"
	case PhaseMain:
		return "Main"
	default:
		return "Unknown"
	}
}

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// AuthChangedMsg is sent whenever the auth controller's state changes.
type AuthChangedMsg struct {
	State auth.State
}

// AuthResultMsg carries the outcome of a sign-in or sign-up.
type AuthResultMsg struct {
	Mode   ui.AuthMode
	Result auth.Result
}

// SignOutResultMsg is sent when a sign-out request returns.
type SignOutResultMsg struct {
	Err error
}

// WorkspaceLoadedMsg carries a user's saved chats and settings.
type WorkspaceLoadedMsg struct {
	Owner    string
	Chats    []chat.Chat
	Settings settings.UserSettings
	Err      error
}

// StorageErrorMsg reports a failed background write.
type StorageErrorMsg struct {
	Err error
}

// ReplyMsg is the assistant's answer to the last message of ChatID.
type ReplyMsg struct {
	ChatID  chat.ID
	Content string
	Err     error
}
