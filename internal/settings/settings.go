// Package settings holds the user's display preferences.
package settings

import "strings"

// FontSize is the chat text size preference. In the terminal it controls
// line spacing and wrap width rather than glyph size.
type FontSize int

const (
	FontSmall FontSize = iota
	FontMedium
	FontLarge
)

// FontSizes lists every size in display order.
var FontSizes = []FontSize{FontSmall, FontMedium, FontLarge}

func (f FontSize) String() string {
	switch f {
	case FontSmall:
		return "small"
	case FontLarge:
		return "large"
	default:
		return "medium"
	}
}

// Label is the capitalized name shown on the size buttons.
func (f FontSize) Label() string {
	s := f.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseFontSize maps a stored size name back to its value. Unknown names
// yield FontMedium and false.
func ParseFontSize(s string) (FontSize, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return FontSmall, true
	case "medium":
		return FontMedium, true
	case "large":
		return FontLarge, true
	}
	return FontMedium, false
}

// UserSettings is the full set of display preferences. Every field always
// has a value.
type UserSettings struct {
	ShowTimestamps   bool
	ShowCitations    bool
	AutoScroll       bool
	SoundEnabled     bool
	FontSize         FontSize
	CompactMode      bool
	ShowMessageCount bool
}

// Defaults returns the settings a new user starts with.
func Defaults() UserSettings {
	return UserSettings{
		ShowTimestamps:   true,
		ShowCitations:    true,
		AutoScroll:       true,
		SoundEnabled:     false,
		FontSize:         FontMedium,
		CompactMode:      false,
		ShowMessageCount: false,
	}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	ShowTimestamps   *bool
	ShowCitations    *bool
	AutoScroll       *bool
	SoundEnabled     *bool
	FontSize         *FontSize
	CompactMode      *bool
	ShowMessageCount *bool
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T { return &v }

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.ShowTimestamps == nil && p.ShowCitations == nil && p.AutoScroll == nil &&
		p.SoundEnabled == nil && p.FontSize == nil && p.CompactMode == nil &&
		p.ShowMessageCount == nil
}

// Apply returns s with the patch merged in.
func (p Patch) Apply(s UserSettings) UserSettings {
	if p.ShowTimestamps != nil {
		s.ShowTimestamps = *p.ShowTimestamps
	}
	if p.ShowCitations != nil {
		s.ShowCitations = *p.ShowCitations
	}
	if p.AutoScroll != nil {
		s.AutoScroll = *p.AutoScroll
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.CompactMode != nil {
		s.CompactMode = *p.CompactMode
	}
	if p.ShowMessageCount != nil {
		s.ShowMessageCount = *p.ShowMessageCount
	}
	return s
}

// FullPatch returns a patch that sets every field to the values in s.
func FullPatch(s UserSettings) Patch {
	return Patch{
		ShowTimestamps:   Ptr(s.ShowTimestamps),
		ShowCitations:    Ptr(s.ShowCitations),
		AutoScroll:       Ptr(s.AutoScroll),
		SoundEnabled:     Ptr(s.SoundEnabled),
		FontSize:         Ptr(s.FontSize),
		CompactMode:      Ptr(s.CompactMode),
		ShowMessageCount: Ptr(s.ShowMessageCount),
	}
}
