package keys

import "testing"

func TestKeyStrings(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Up", Up, "up"},
		{"Down", Down, "down"},
		{"Left", Left, "left"},
		{"Right", Right, "right"},
		{"Home", Home, "home"},
		{"End", End, "end"},
		{"PgUp", PgUp, "pgup"},
		{"PgDown", PgDown, "pgdown"},
		{"CtrlUp", CtrlUp, "ctrl+up"},
		{"CtrlDown", CtrlDown, "ctrl+down"},
		{"CtrlU", CtrlU, "ctrl+u"},
		{"CtrlD", CtrlD, "ctrl+d"},

		{"Enter", Enter, "enter"},
		{"ShiftEnter", ShiftEnter, "shift+enter"},
		{"AltEnter", AltEnter, "alt+enter"},
		{"Tab", Tab, "tab"},
		{"Space", Space, "space"},
		{"Delete", Delete, "delete"},
		{"Escape", Escape, "esc"},

		{"CtrlC", CtrlC, "ctrl+c"},
		{"CtrlB", CtrlB, "ctrl+b"},
		{"CtrlN", CtrlN, "ctrl+n"},
		{"CtrlY", CtrlY, "ctrl+y"},
		{"CtrlO", CtrlO, "ctrl+o"},
		{"CtrlL", CtrlL, "ctrl+l"},
		{"CtrlT", CtrlT, "ctrl+t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("keys.%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestKeysAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range []string{Up, Down, Left, Right, Home, End, PgUp, PgDown, CtrlUp, CtrlDown, CtrlU, CtrlD,
		Enter, ShiftEnter, AltEnter, Tab, Space, Delete, Escape, CtrlC, CtrlB, CtrlN, CtrlY, CtrlO, CtrlL, CtrlT} {
		if seen[k] {
			t.Errorf("%q bound twice", k)
		}
		seen[k] = true
	}
}
