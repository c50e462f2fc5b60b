package settings

// Key names one boolean setting.
type Key string

const (
	KeyShowTimestamps   Key = "showTimestamps"
	KeyShowCitations    Key = "showCitations"
	KeyAutoScroll       Key = "autoScroll"
	KeySoundEnabled     Key = "soundEnabled"
	KeyCompactMode      Key = "compactMode"
	KeyShowMessageCount Key = "showMessageCount"
)

// Toggle describes one boolean setting as shown in the settings tab.
type Toggle struct {
	Key         Key
	Group       string
	Label       string
	Description string
	get         func(UserSettings) bool
	patch       func(bool) Patch
}

// Value reads the toggle's current value from s.
func (t Toggle) Value(s UserSettings) bool { return t.get(s) }

// Flip returns the patch that inverts the toggle relative to s.
func (t Toggle) Flip(s UserSettings) Patch { return t.patch(!t.get(s)) }

const (
	GroupDisplay     = "Display Settings"
	GroupPreferences = "Chat Preferences"
)

var toggles = []Toggle{
	{
		Key: KeyShowTimestamps, Group: GroupDisplay,
		Label: "Show Timestamps", Description: "Display message timestamps",
		get:   func(s UserSettings) bool { return s.ShowTimestamps },
		patch: func(v bool) Patch { return Patch{ShowTimestamps: &v} },
	},
	{
		Key: KeyShowCitations, Group: GroupDisplay,
		Label: "Show Citations", Description: "Display textbook references",
		get:   func(s UserSettings) bool { return s.ShowCitations },
		patch: func(v bool) Patch { return Patch{ShowCitations: &v} },
	},
	{
		Key: KeyAutoScroll, Group: GroupDisplay,
		Label: "Auto Scroll", Description: "Scroll to new messages",
		get:   func(s UserSettings) bool { return s.AutoScroll },
		patch: func(v bool) Patch { return Patch{AutoScroll: &v} },
	},
	{
		Key: KeySoundEnabled, Group: GroupDisplay,
		Label: "Sound Effects", Description: "Play notification sounds",
		get:   func(s UserSettings) bool { return s.SoundEnabled },
		patch: func(v bool) Patch { return Patch{SoundEnabled: &v} },
	},
	{
		Key: KeyCompactMode, Group: GroupPreferences,
		Label: "Compact Mode", Description: "Reduce spacing for more content",
		get:   func(s UserSettings) bool { return s.CompactMode },
		patch: func(v bool) Patch { return Patch{CompactMode: &v} },
	},
	{
		Key: KeyShowMessageCount, Group: GroupPreferences,
		Label: "Show Message Count", Description: "Display message numbers in chat",
		get:   func(s UserSettings) bool { return s.ShowMessageCount },
		patch: func(v bool) Patch { return Patch{ShowMessageCount: &v} },
	},
}

// Toggles returns every boolean setting in display order.
func Toggles() []Toggle {
	out := make([]Toggle, len(toggles))
	copy(out, toggles)
	return out
}

// LookupToggle finds the toggle for key.
func LookupToggle(key Key) (Toggle, bool) {
	for _, t := range toggles {
		if t.Key == key {
			return t, true
		}
	}
	return Toggle{}, false
}
