package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(func() {
		Reset()
		SetDebug(false)
	})
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestInfo_WritesToFile(t *testing.T) {
	logPath := setupTestLogger(t)

	Info("chat %s created", "abc-123")

	if !strings.Contains(readLog(t, logPath), "chat abc-123 created") {
		t.Error("log file should contain the formatted message")
	}
}

func TestDebug_RespectsLevel(t *testing.T) {
	logPath := setupTestLogger(t)

	Debug("hidden-marker")
	if strings.Contains(readLog(t, logPath), "hidden-marker") {
		t.Error("debug message should not be written at info level")
	}

	SetDebug(true)
	Debug("visible-marker")
	if !strings.Contains(readLog(t, logPath), "visible-marker") {
		t.Error("debug message should be written once debug is enabled")
	}
}

func TestWithComponent(t *testing.T) {
	logPath := setupTestLogger(t)

	WithComponent("auth").Info("session restored", "userID", "u-1")

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=auth") {
		t.Errorf("expected component attribute, got %q", content)
	}
	if !strings.Contains(content, "userID=u-1") {
		t.Errorf("expected userID attribute, got %q", content)
	}
}

func TestWithChat(t *testing.T) {
	logPath := setupTestLogger(t)

	WithChat("chat-9").Warn("reply failed")

	if !strings.Contains(readLog(t, logPath), "chatID=chat-9") {
		t.Error("expected chatID attribute")
	}
}

func TestInit_Idempotent(t *testing.T) {
	logPath := setupTestLogger(t)

	other := filepath.Join(t.TempDir(), "other.log")
	if err := Init(other); err != nil {
		t.Fatalf("second Init returned error: %v", err)
	}
	if Path() != logPath {
		t.Errorf("Path() = %q, want %q", Path(), logPath)
	}
}

func TestInit_BadPath(t *testing.T) {
	Reset()
	defer Reset()

	err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestClose_ThenLog(t *testing.T) {
	setupTestLogger(t)

	Close()
	// Logging after Close must not panic.
	Info("after close")
	WithComponent("ui").Info("after close")
}

func TestConcurrentLogging(t *testing.T) {
	setupTestLogger(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Info("concurrent %d-%d", n, j)
			}
		}(i)
	}
	wg.Wait()
}

func TestReset_SwitchesFile(t *testing.T) {
	tmpDir := t.TempDir()
	log1 := filepath.Join(tmpDir, "log1.log")
	log2 := filepath.Join(tmpDir, "log2.log")

	Reset()
	if err := Init(log1); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("message to log1")

	Reset()
	if err := Init(log2); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("message to log2")
	Reset()

	c1 := readLog(t, log1)
	c2 := readLog(t, log2)
	if !strings.Contains(c1, "message to log1") || strings.Contains(c1, "message to log2") {
		t.Errorf("log1 has wrong contents: %q", c1)
	}
	if !strings.Contains(c2, "message to log2") || strings.Contains(c2, "message to log1") {
		t.Errorf("log2 has wrong contents: %q", c2)
	}
}

func TestFiles_ActiveLogFirst(t *testing.T) {
	logPath := setupTestLogger(t)
	Info("hello")

	files, err := Files()
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	if len(files) == 0 || files[0] != logPath {
		t.Errorf("Files() = %v, want %s first", files, logPath)
	}
	for _, f := range files[1:] {
		if f == logPath {
			t.Errorf("active log listed twice: %v", files)
		}
	}
}
