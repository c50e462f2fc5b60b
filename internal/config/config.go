// Package config loads Nelson's YAML configuration from ~/.nelson/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	nerrors "github.com/zhubert/nelson/internal/errors"
)

// HomeEnv overrides the config directory.
const HomeEnv = "NELSON_HOME"

// Config is the top-level configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Assistant AssistantConfig `yaml:"assistant"`
	UI        UIConfig        `yaml:"ui"`

	mu       sync.RWMutex
	filePath string
}

// StorageConfig selects the database.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	DSN    string `yaml:"dsn"`
}

// AuthConfig configures the local identity provider.
type AuthConfig struct {
	SessionFile       string        `yaml:"session_file"`
	MinPasswordLength int           `yaml:"min_password_length"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
	AutoSignIn        *bool         `yaml:"auto_sign_in,omitempty"`
}

// AssistantConfig selects and configures the reply backend.
type AssistantConfig struct {
	Provider    string        `yaml:"provider"` // openai or mock
	Model       string        `yaml:"model"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// UIConfig holds terminal presentation options.
type UIConfig struct {
	Theme           string        `yaml:"theme"`
	SplashDuration  time.Duration `yaml:"splash_duration"`
	Notifications   *bool         `yaml:"notifications,omitempty"`
	ConfirmClearAll *bool         `yaml:"confirm_clear_all,omitempty"`
}

// Dir returns the config directory, honouring NELSON_HOME.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nelson"), nil
}

// DefaultPath returns the path of the default config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path. A missing file yields the defaults; the returned config
// remembers path for Save.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.filePath = path
		return cfg, nil
	}
	if err != nil {
		return nil, nerrors.ConfigLoadFailed(path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.filePath = path
	return cfg, nil
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nerrors.E(nerrors.Op("config.Parse"), nerrors.KindConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.DSN == "" && c.Storage.Driver == "sqlite" {
		c.Storage.DSN = filepath.Join(dir, "nelson.db")
	}

	if c.Auth.SessionFile == "" {
		c.Auth.SessionFile = filepath.Join(dir, "session")
	}
	if c.Auth.MinPasswordLength == 0 {
		c.Auth.MinPasswordLength = 6
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 30 * 24 * time.Hour
	}

	if c.Assistant.Provider == "" {
		c.Assistant.Provider = "openai"
	}
	if c.Assistant.Model == "" {
		c.Assistant.Model = "gpt-4o-mini"
	}
	if c.Assistant.APIKeyEnv == "" {
		c.Assistant.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Assistant.Temperature == 0 {
		c.Assistant.Temperature = 0.2
	}
	if c.Assistant.Timeout == 0 {
		c.Assistant.Timeout = 60 * time.Second
	}

	if c.UI.Theme == "" {
		c.UI.Theme = "clinical"
	}
	if c.UI.SplashDuration == 0 {
		c.UI.SplashDuration = 1500 * time.Millisecond
	}
}

func (c *Config) validate() error {
	var errs []string
	switch c.Storage.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("storage.driver %q is not one of sqlite, mysql", c.Storage.Driver))
	}
	if c.Storage.DSN == "" {
		errs = append(errs, "storage.dsn is required")
	}
	if c.Auth.MinPasswordLength < 1 {
		errs = append(errs, "auth.min_password_length must be positive")
	}
	if c.Auth.SessionTTL < 0 {
		errs = append(errs, "auth.session_ttl must not be negative")
	}
	switch c.Assistant.Provider {
	case "openai", "mock":
	default:
		errs = append(errs, fmt.Sprintf("assistant.provider %q is not one of openai, mock", c.Assistant.Provider))
	}
	if c.Assistant.Temperature < 0 || c.Assistant.Temperature > 2 {
		errs = append(errs, "assistant.temperature must be between 0 and 2")
	}
	if c.UI.SplashDuration < 0 {
		errs = append(errs, "ui.splash_duration must not be negative")
	}
	if len(errs) > 0 {
		return nerrors.ConfigInvalid("validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.filePath == "" {
		return nerrors.E(nerrors.Op("config.Save"), nerrors.KindConfig, "config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return nerrors.E(nerrors.Op("config.Save"), nerrors.KindIO, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return nerrors.E(nerrors.Op("config.Save"), nerrors.KindConfig, err)
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return nerrors.E(nerrors.Op("config.Save"), nerrors.KindIO, err)
	}
	return nil
}

// GetTheme returns the UI theme name.
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.UI.Theme
}

// SetTheme sets the UI theme name.
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UI.Theme = theme
}

// AutoSignIn reports whether sign-up also signs the user in. Defaults to true.
func (c *Config) AutoSignIn() bool {
	return boolOr(c.Auth.AutoSignIn, true)
}

// NotificationsEnabled reports whether desktop notifications are shown.
// Defaults to true.
func (c *Config) NotificationsEnabled() bool {
	return boolOr(c.UI.Notifications, true)
}

// ConfirmClearAll reports whether Clear All asks first. Defaults to true.
func (c *Config) ConfirmClearAll() bool {
	return boolOr(c.UI.ConfirmClearAll, true)
}

// APIKey reads the assistant API key from the configured environment
// variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Assistant.APIKeyEnv)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
