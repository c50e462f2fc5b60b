package ui

import (
	"strings"
	"testing"
)

func TestSplash_View(t *testing.T) {
	s := NewSplash()
	s.SetSize(80, 24)
	got := stripANSI(s.View())
	if !strings.Contains(got, splashTagline) {
		t.Errorf("splash missing tagline: %q", got)
	}
	if lines := strings.Split(got, "\n"); len(lines) != 24 {
		t.Errorf("splash height = %d, want 24", len(lines))
	}
}

func TestSplash_LoadingDots(t *testing.T) {
	s := NewSplash()
	if got := stripANSI(s.LoadingView()); !strings.Contains(got, loadingText) || strings.Contains(got, loadingText+".") {
		t.Errorf("frame 0 loading = %q", got)
	}
	s.Advance()
	s.Advance()
	if got := stripANSI(s.LoadingView()); !strings.Contains(got, loadingText+"..") {
		t.Errorf("frame 2 loading = %q", got)
	}
	if s.Frame() != 2 {
		t.Errorf("Frame() = %d, want 2", s.Frame())
	}
}

func TestSplashTimer(t *testing.T) {
	if SplashTimer(0) == nil || SplashTick() == nil {
		t.Error("splash commands should not be nil")
	}
}
