// Package keys names the key presses NelsonGPT binds.
//
// Each value is the String() form of the matching tea.KeyPressMsg, so a
// switch on msg.String() can use these instead of string literals. Plain
// letters ("n", "q", "?") are written inline at their call sites.
package keys

import tea "charm.land/bubbletea/v2"

func press(code rune, mod tea.KeyMod) string {
	return tea.KeyPressMsg{Code: code, Mod: mod}.String()
}

// Moving through the sidebar, help list and transcript.
var (
	Up       = press(tea.KeyUp, 0)
	Down     = press(tea.KeyDown, 0)
	Left     = press(tea.KeyLeft, 0)
	Right    = press(tea.KeyRight, 0)
	Home     = press(tea.KeyHome, 0)
	End      = press(tea.KeyEnd, 0)
	PgUp     = press(tea.KeyPgUp, 0)
	PgDown   = press(tea.KeyPgDown, 0)
	CtrlUp   = press(tea.KeyUp, tea.ModCtrl)
	CtrlDown = press(tea.KeyDown, tea.ModCtrl)
	CtrlU    = press('u', tea.ModCtrl) // half page up
	CtrlD    = press('d', tea.ModCtrl) // half page down
)

// Forms, rows and the composer.
var (
	Enter      = press(tea.KeyEnter, 0)
	ShiftEnter = press(tea.KeyEnter, tea.ModShift) // newline in the composer
	AltEnter   = press(tea.KeyEnter, tea.ModAlt)   // newline in the composer
	Tab        = press(tea.KeyTab, 0)
	Space      = press(tea.KeySpace, 0)
	Delete     = press(tea.KeyDelete, 0)
	Escape     = press(tea.KeyEscape, 0)
)

// App-wide shortcuts.
var (
	CtrlC = press('c', tea.ModCtrl) // quit
	CtrlB = press('b', tea.ModCtrl) // toggle sidebar
	CtrlN = press('n', tea.ModCtrl) // new chat
	CtrlY = press('y', tea.ModCtrl) // copy last reply
	CtrlO = press('o', tea.ModCtrl) // sign out
	CtrlL = press('l', tea.ModCtrl) // debug log viewer
	CtrlT = press('t', tea.ModCtrl) // sign in / sign up toggle on the auth form
)
