package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func writeLogs(t *testing.T, contents ...string) []LogFile {
	t.Helper()
	dir := t.TempDir()
	var files []LogFile
	for i, c := range contents {
		p := filepath.Join(dir, "log"+string(rune('a'+i))+".log")
		if err := os.WriteFile(p, []byte(c), 0o644); err != nil {
			t.Fatalf("write log: %v", err)
		}
		files = append(files, LogFile{Name: filepath.Base(p), Path: p})
	}
	return files
}

func TestGetLogFiles_NonNil(t *testing.T) {
	if GetLogFiles() == nil {
		t.Error("GetLogFiles should return a non-nil slice")
	}
}

func TestHighlightLogLine(t *testing.T) {
	line := `time=2026-03-01T09:00:00Z level=ERROR msg="save failed" component=storage`
	got := stripANSI(highlightLogLine(line))
	if got != line {
		t.Errorf("highlight changed text: %q", got)
	}
	if highlightLogLine("") != "" {
		t.Error("empty line should stay empty")
	}
}

func TestChat_LogViewerNavigation(t *testing.T) {
	c := newTestChat()
	files := writeLogs(t, "level=INFO msg=\"first\"\n", "level=WARN msg=\"second\"\n")

	c.EnterLogViewerMode(files)
	if !c.IsInLogViewerMode() {
		t.Fatal("expected log viewer mode")
	}
	if !strings.Contains(c.logViewer.Files[0].Content, "first") {
		t.Errorf("first file not loaded: %q", c.logViewer.Files[0].Content)
	}

	c.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if c.logViewer.FileIndex != 1 {
		t.Errorf("FileIndex = %d after right, want 1", c.logViewer.FileIndex)
	}
	c.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if c.logViewer.FileIndex != 1 {
		t.Errorf("FileIndex = %d past end, want 1", c.logViewer.FileIndex)
	}
	c.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if c.logViewer.FileIndex != 0 {
		t.Errorf("FileIndex = %d after left, want 0", c.logViewer.FileIndex)
	}

	c.Update(keyPress("f"))
	if c.logViewer.FollowTail {
		t.Error("f should turn follow off")
	}

	view := stripANSI(c.View())
	if !strings.Contains(view, "(1 of 2)") {
		t.Errorf("nav bar missing counter: %q", view)
	}

	c.ExitLogViewerMode()
	if c.IsInLogViewerMode() {
		t.Error("ExitLogViewerMode should close the overlay")
	}
}

func TestChat_LogViewerNoFiles(t *testing.T) {
	c := newTestChat()
	c.EnterLogViewerMode(nil)
	if got := stripANSI(c.View()); !strings.Contains(got, "No log files found") {
		t.Errorf("View() = %q", got)
	}
}

func TestChat_LogViewerMissingFile(t *testing.T) {
	c := newTestChat()
	c.EnterLogViewerMode([]LogFile{{Name: "gone", Path: filepath.Join(t.TempDir(), "missing.log")}})
	if !strings.Contains(c.logViewer.Viewport.View(), "Error reading log file") {
		t.Error("missing file should report a read error")
	}
}
