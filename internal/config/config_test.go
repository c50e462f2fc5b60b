package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	nerrors "github.com/zhubert/nelson/internal/errors"
)

func TestDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	cfg := Default()

	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Storage.DSN != filepath.Join(home, "nelson.db") {
		t.Errorf("Storage.DSN = %q", cfg.Storage.DSN)
	}
	if cfg.Auth.SessionFile != filepath.Join(home, "session") {
		t.Errorf("Auth.SessionFile = %q", cfg.Auth.SessionFile)
	}
	if cfg.Auth.MinPasswordLength != 6 {
		t.Errorf("MinPasswordLength = %d", cfg.Auth.MinPasswordLength)
	}
	if cfg.Assistant.Provider != "openai" || cfg.Assistant.Model != "gpt-4o-mini" {
		t.Errorf("Assistant = %+v", cfg.Assistant)
	}
	if !cfg.AutoSignIn() || !cfg.NotificationsEnabled() || !cfg.ConfirmClearAll() {
		t.Error("boolean options should default to true")
	}
	if cfg.UI.SplashDuration != 1500*time.Millisecond {
		t.Errorf("SplashDuration = %v", cfg.UI.SplashDuration)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	cfg, err := Parse([]byte(`
storage:
  driver: mysql
  dsn: "nelson:pw@tcp(db:3306)/nelson?parseTime=true"
auth:
  session_ttl: 12h
  auto_sign_in: false
assistant:
  provider: mock
  temperature: 0.7
ui:
  theme: nord
  splash_duration: 0s
  confirm_clear_all: false
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Storage.Driver != "mysql" || !strings.HasPrefix(cfg.Storage.DSN, "nelson:pw@") {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Auth.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.Auth.SessionTTL)
	}
	if cfg.AutoSignIn() {
		t.Error("auto_sign_in: false was ignored")
	}
	if cfg.ConfirmClearAll() {
		t.Error("confirm_clear_all: false was ignored")
	}
	if !cfg.NotificationsEnabled() {
		t.Error("notifications should still default to true")
	}
	if cfg.Assistant.Provider != "mock" || cfg.Assistant.Temperature != 0.7 {
		t.Errorf("Assistant = %+v", cfg.Assistant)
	}
	if cfg.GetTheme() != "nord" {
		t.Errorf("Theme = %q", cfg.GetTheme())
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad driver", "storage:\n  driver: postgres\n  dsn: x\n", "storage.driver"},
		{"mysql without dsn", "storage:\n  driver: mysql\n", "storage.dsn is required"},
		{"bad provider", "assistant:\n  provider: llama\n", "assistant.provider"},
		{"bad temperature", "assistant:\n  temperature: 3\n", "assistant.temperature"},
		{"negative splash", "ui:\n  splash_duration: -1s\n", "ui.splash_duration"},
		{"negative password length", "auth:\n  min_password_length: -2\n", "auth.min_password_length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !nerrors.Is(err, nerrors.KindInvalid) {
				t.Errorf("error kind = %v, want KindInvalid", nerrors.GetKind(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("storage: [unclosed"))
	if !nerrors.Is(err, nerrors.KindConfig) {
		t.Errorf("error = %v, want KindConfig", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)
	path := filepath.Join(home, "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
}

func TestSaveAndReload(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)
	path := filepath.Join(home, "nested", "config.yaml")

	cfg, _ := Load(path)
	cfg.SetTheme("nord")
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.GetTheme() != "nord" {
		t.Errorf("Theme after reload = %q", again.GetTheme())
	}
	if again.Auth.SessionTTL != cfg.Auth.SessionTTL {
		t.Errorf("SessionTTL after reload = %v", again.Auth.SessionTTL)
	}
}

func TestSave_NoPath(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	if err := Default().Save(); err == nil {
		t.Error("Save without a path should fail")
	}
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)
	got, err := DefaultPath()
	if err != nil || got != filepath.Join(home, "config.yaml") {
		t.Errorf("DefaultPath() = %q, %v", got, err)
	}
}

func TestAPIKey(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv("NELSON_TEST_KEY", "sk-123")
	cfg, _ := Parse([]byte("assistant:\n  api_key_env: NELSON_TEST_KEY\n"))
	if cfg.APIKey() != "sk-123" {
		t.Errorf("APIKey() = %q", cfg.APIKey())
	}
}
