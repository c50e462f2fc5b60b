// Package notification sends desktop notifications and the reply chime.
// It uses the beeep library on macOS, Linux, and Windows.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/zhubert/nelson/internal/logger"
)

// AppName is the title used for notifications.
const AppName = "NelsonGPT"

// NotifyFunc matches beeep.Notify.
type NotifyFunc func(title, message string, icon any) error

// BeepFunc matches beeep.Beep.
type BeepFunc func(freq float64, duration int) error

var (
	mu       sync.Mutex
	notifier NotifyFunc = beeep.Notify
	beeper   BeepFunc   = beeep.Beep
)

// SetNotifier replaces the notification backend. Used by tests.
func SetNotifier(fn NotifyFunc) {
	mu.Lock()
	defer mu.Unlock()
	notifier = fn
}

// SetBeeper replaces the beep backend. Used by tests.
func SetBeeper(fn BeepFunc) {
	mu.Lock()
	defer mu.Unlock()
	beeper = fn
}

// ResetNotifier restores the beeep backends.
func ResetNotifier() {
	mu.Lock()
	defer mu.Unlock()
	notifier = beeep.Notify
	beeper = beeep.Beep
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	mu.Lock()
	fn := notifier
	mu.Unlock()

	log.Debug("sending notification", "title", title)
	err := fn(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// Beep plays the default system beep.
func Beep() error {
	mu.Lock()
	fn := beeper
	mu.Unlock()

	err := fn(beeep.DefaultFreq, beeep.DefaultDuration)
	if err != nil {
		logger.WithComponent("notification").Warn("failed to beep", "error", err)
	}
	return err
}

// ReplyReady announces that an assistant reply arrived for chatTitle.
func ReplyReady(chatTitle string) error {
	return Send(AppName, "Reply ready: "+chatTitle)
}
