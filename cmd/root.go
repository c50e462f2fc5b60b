package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/nelson/internal/app"
	"github.com/zhubert/nelson/internal/assistant"
	"github.com/zhubert/nelson/internal/auth"
	"github.com/zhubert/nelson/internal/clipboard"
	"github.com/zhubert/nelson/internal/config"
	"github.com/zhubert/nelson/internal/demo"
	"github.com/zhubert/nelson/internal/demo/scenarios"
	"github.com/zhubert/nelson/internal/logger"
	"github.com/zhubert/nelson/internal/storage"
)

// demoReplyDelay makes canned replies feel like a network round trip.
const demoReplyDelay = 800 * time.Millisecond

var (
	debugMode             bool
	quietMode             bool
	demoMode              bool
	demoScenario          string
	configPath            string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "nelson",
	Short: "Terminal client for NelsonGPT, a pediatric clinical assistant",
	Long: `Nelson is a terminal client for NelsonGPT, a pediatric clinical reference assistant.
Chats and settings are stored per account in a local SQLite database, or in
MySQL when configured.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $NELSON_HOME/config.yaml)")
	rootCmd.Flags().BoolVar(&demoMode, "demo", false, "Run against an in-memory database with canned replies")
	rootCmd.Flags().StringVar(&demoScenario, "demo-scenario", scenarios.Clinic.Name, "Demo data set to load with --demo")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("nelson %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("nelson %s\n", version)
}

// loadConfig reads --config, or the default config file.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.Load(path)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	defer logger.Close()
	log := logger.WithComponent("cmd")

	driver, dsn := cfg.Storage.Driver, cfg.Storage.DSN
	if demoMode {
		driver, dsn = storage.DriverSQLite, storage.MemoryDSN
	} else if driver == storage.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(dsn), 0700); err != nil {
			return fmt.Errorf("error creating data directory: %w", err)
		}
	}
	store, err := storage.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer store.Close()

	sessionFile := cfg.Auth.SessionFile
	if demoMode {
		sessionFile = ""
	}
	provider := auth.NewLocalProvider(store, auth.LocalOptions{
		SessionFile:       sessionFile,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		SessionTTL:        cfg.Auth.SessionTTL,
		AutoSignIn:        cfg.AutoSignIn(),
	})

	if demoMode {
		if err := seedDemo(store, provider); err != nil {
			return err
		}
	}

	responder, err := newResponder(cfg)
	if err != nil {
		return err
	}

	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", "error", err)
	}

	log.Info("starting", "version", version, "driver", driver, "demo", demoMode, "assistant", cfg.Assistant.Provider)

	m := app.New(cfg, version, app.Options{
		Store:     store,
		Provider:  provider,
		Responder: responder,
	})
	defer m.Close()
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

// newResponder picks the reply backend. Demo mode always uses canned replies.
func newResponder(cfg *config.Config) (assistant.Responder, error) {
	if demoMode || cfg.Assistant.Provider == "mock" {
		return &assistant.MockResponder{Delay: demoReplyDelay}, nil
	}
	key := cfg.APIKey()
	if key == "" {
		return nil, fmt.Errorf("no API key: set %s, or run with --demo", cfg.Assistant.APIKeyEnv)
	}
	return assistant.NewOpenAIResponder(assistant.OpenAIOptions{
		APIKey:      key,
		Model:       cfg.Assistant.Model,
		BaseURL:     cfg.Assistant.BaseURL,
		Temperature: cfg.Assistant.Temperature,
		Timeout:     cfg.Assistant.Timeout,
	}), nil
}

// seedDemo loads the chosen demo scenario into the in-memory database.
func seedDemo(store *storage.Store, provider auth.Provider) error {
	scenario := scenarios.Get(demoScenario)
	if scenario == nil {
		return fmt.Errorf("unknown demo scenario %q", demoScenario)
	}
	if _, err := demo.Seed(context.Background(), store, provider, scenario, time.Now()); err != nil {
		return fmt.Errorf("error seeding demo data: %w", err)
	}
	return nil
}
