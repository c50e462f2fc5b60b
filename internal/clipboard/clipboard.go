// Package clipboard reads and writes text on the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/nelson/internal/logger"
)

// Backend is the clipboard implementation. The default uses
// golang.design/x/clipboard; tests swap in a fake.
type Backend interface {
	Init() error
	Read() []byte
	Write(data []byte)
}

type systemBackend struct{}

func (systemBackend) Init() error       { return clipboard.Init() }
func (systemBackend) Read() []byte      { return clipboard.Read(clipboard.FmtText) }
func (systemBackend) Write(data []byte) { clipboard.Write(clipboard.FmtText, data) }

var (
	mu          sync.Mutex
	backend     Backend = systemBackend{}
	initialized bool
)

// SetBackend replaces the clipboard backend and forgets prior initialization.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	backend = b
	initialized = false
}

// ResetBackend restores the system clipboard.
func ResetBackend() {
	SetBackend(systemBackend{})
}

// Init initializes the clipboard. Safe to call multiple times.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	log := logger.WithComponent("clipboard")
	if err := backend.Init(); err != nil {
		log.Warn("failed to initialize clipboard", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	log.Debug("clipboard initialized")
	return nil
}

// ReadText reads text from the clipboard.
func ReadText() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return "", err
	}
	return string(backend.Read()), nil
}

// WriteText places text on the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return err
	}
	backend.Write([]byte(text))
	logger.WithComponent("clipboard").Debug("wrote text", "bytes", len(text))
	return nil
}
