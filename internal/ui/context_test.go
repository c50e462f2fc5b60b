package ui

import (
	"sync"
	"testing"
)

func TestGetViewContext_Singleton(t *testing.T) {
	if GetViewContext() != GetViewContext() {
		t.Error("GetViewContext should return the same instance")
	}
}

func TestViewContext_UpdateTerminalSize(t *testing.T) {
	ctx := GetViewContext()
	ctx.SetSidebarHidden(false)
	ctx.UpdateTerminalSize(120, 40)

	if ctx.TerminalWidth != 120 || ctx.TerminalHeight != 40 {
		t.Errorf("terminal = %dx%d", ctx.TerminalWidth, ctx.TerminalHeight)
	}
	if want := 40 - HeaderHeight - FooterHeight; ctx.ContentHeight != want {
		t.Errorf("ContentHeight = %d, want %d", ctx.ContentHeight, want)
	}
	if ctx.SidebarWidth != 40 {
		t.Errorf("SidebarWidth = %d, want 40", ctx.SidebarWidth)
	}
	if ctx.ChatWidth != 80 {
		t.Errorf("ChatWidth = %d, want 80", ctx.ChatWidth)
	}
}

func TestViewContext_MinimumSizes(t *testing.T) {
	ctx := GetViewContext()
	ctx.SetSidebarHidden(false)
	ctx.UpdateTerminalSize(10, 5)

	if ctx.TerminalWidth != MinTerminalWidth || ctx.TerminalHeight != MinTerminalHeight {
		t.Errorf("terminal = %dx%d, want clamped to minimums", ctx.TerminalWidth, ctx.TerminalHeight)
	}
	if ctx.SidebarWidth != MinSidebarWidth {
		t.Errorf("SidebarWidth = %d, want %d", ctx.SidebarWidth, MinSidebarWidth)
	}
}

func TestViewContext_SidebarHidden(t *testing.T) {
	ctx := GetViewContext()
	ctx.UpdateTerminalSize(120, 40)
	ctx.SetSidebarHidden(true)
	defer ctx.SetSidebarHidden(false)

	if ctx.SidebarWidth != 0 || ctx.ChatWidth != 120 {
		t.Errorf("sidebar=%d chat=%d, want 0/120", ctx.SidebarWidth, ctx.ChatWidth)
	}
}

func TestViewContext_Inner(t *testing.T) {
	ctx := GetViewContext()
	if got := ctx.InnerWidth(40); got != 40-BorderSize {
		t.Errorf("InnerWidth(40) = %d", got)
	}
	if got := ctx.InnerHeight(BorderSize); got != 0 {
		t.Errorf("InnerHeight(%d) = %d", BorderSize, got)
	}
}

func TestViewContext_ConcurrentUpdates(t *testing.T) {
	ctx := GetViewContext()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ctx.UpdateTerminalSize(80+w, 30)
		}(i)
	}
	wg.Wait()

	ctx.UpdateTerminalSize(120, 40)
	if ctx.TerminalWidth != 120 {
		t.Errorf("TerminalWidth = %d after concurrent updates", ctx.TerminalWidth)
	}
}
