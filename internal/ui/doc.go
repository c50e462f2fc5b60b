// Package ui provides the user interface components for the NelsonGPT TUI.
//
// # Overview
//
// The ui package implements the visual components of NelsonGPT using the
// Bubble Tea framework and Lipgloss styling library. Components own their
// rendering and key handling; the app package wires them to the chat
// registry, settings store and auth controller.
//
// # Layout System
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────┬───────────────────────────────────┤
//	│                 │                                   │
//	│   Sidebar       │         Chat Panel                │
//	│   (1/3 width)   │         (2/3 width)               │
//	│                 │                                   │
//	├─────────────────┴───────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// When the sidebar is closed the chat panel takes the full width.
//
// # Components
//
// ViewContext: singleton holding the layout math.
//
// Header: application title, current chat title and the signed-in email.
//
// Footer: context-aware key hints and transient flash messages.
//
// Sidebar: the Chats, Settings and About tabs, driven by a
// sidebar.Controller. Chat rows show an urgency glyph, domain badge and
// relative update time.
//
// Chat: transcript viewport and composer. Rendering honors the user's
// display settings; fenced code is highlighted with chroma. A debug log
// overlay can replace the transcript.
//
// Splash and AuthForm: the screens shown before a user is signed in.
//
// Modal: host for the dialogs in the modals subpackage (help, theme,
// rename, clear-all confirmation).
//
// # Focus System
//
// Tab toggles between the sidebar and the chat panel. The 'q' key only
// quits when the sidebar is focused so it can be typed in the composer.
package ui
