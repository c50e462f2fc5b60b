package cmd

import (
	"strings"
	"testing"

	"github.com/zhubert/nelson/internal/assistant"
	"github.com/zhubert/nelson/internal/config"
)

func TestDebugFlagDefaultTrue(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("debug")
	if flag == nil {
		t.Fatal("--debug flag not found")
	}
	if flag.DefValue != "true" {
		t.Errorf("--debug default = %q, want %q", flag.DefValue, "true")
	}
}

func TestQuietFlagExists(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("quiet")
	if flag == nil {
		t.Fatal("--quiet flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--quiet default = %q, want %q", flag.DefValue, "false")
	}
	if flag.Shorthand != "q" {
		t.Errorf("--quiet shorthand = %q, want %q", flag.Shorthand, "q")
	}
}

func TestDemoAndConfigFlags(t *testing.T) {
	if rootCmd.Flags().Lookup("demo") == nil {
		t.Error("--demo flag not found")
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag not found")
	}
}

func TestCleanCommandRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "clean" {
			if c.Flags().Lookup("yes") == nil {
				t.Error("clean has no --yes flag")
			}
			return
		}
	}
	t.Error("clean command not registered")
}

func TestInitConfig_DefaultDebugEnabled(t *testing.T) {
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = false

	// Should not panic
	initConfig()
}

func TestInitConfig_QuietOverridesDebug(t *testing.T) {
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = true

	initConfig()
}

func TestVersionTemplate(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer SetVersionInfo(origV, origC, origD)

	SetVersionInfo("1.2.0", "none", "unknown")
	if got := versionTemplate(); got != "nelson 1.2.0\n" {
		t.Errorf("versionTemplate() = %q", got)
	}

	SetVersionInfo("1.2.0", "abc123", "2026-01-02")
	got := versionTemplate()
	if !strings.Contains(got, "commit: abc123") || !strings.Contains(got, "built:  2026-01-02") {
		t.Errorf("versionTemplate() = %q", got)
	}
}

func TestNewResponder(t *testing.T) {
	origDemo := demoMode
	defer func() { demoMode = origDemo }()

	cfg := config.Default()
	cfg.Assistant.APIKeyEnv = "NELSON_TEST_API_KEY"
	t.Setenv("NELSON_TEST_API_KEY", "")

	demoMode = false
	if _, err := newResponder(cfg); err == nil {
		t.Error("newResponder without an API key should fail")
	}

	demoMode = true
	r, err := newResponder(cfg)
	if err != nil {
		t.Fatalf("newResponder(demo): %v", err)
	}
	if _, ok := r.(*assistant.MockResponder); !ok {
		t.Errorf("demo responder = %T, want *assistant.MockResponder", r)
	}

	demoMode = false
	t.Setenv("NELSON_TEST_API_KEY", "sk-test")
	r, err = newResponder(cfg)
	if err != nil {
		t.Fatalf("newResponder: %v", err)
	}
	if _, ok := r.(*assistant.OpenAIResponder); !ok {
		t.Errorf("responder = %T, want *assistant.OpenAIResponder", r)
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	orig := configPath
	defer func() { configPath = orig }()

	configPath = t.TempDir() + "/missing.yaml"
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
}

func TestSeedDemo_UnknownScenario(t *testing.T) {
	orig := demoScenario
	defer func() { demoScenario = orig }()

	demoScenario = "nope"
	if err := seedDemo(nil, nil); err == nil {
		t.Error("seedDemo accepted an unknown scenario")
	}
}
