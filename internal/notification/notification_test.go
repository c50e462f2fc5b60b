package notification

import (
	"errors"
	"testing"
)

// mockNotification records calls to the notification function
type mockNotification struct {
	calls []struct {
		title   string
		message string
	}
	beeps int
	err   error
}

func (m *mockNotification) notify(title, message string, icon any) error {
	m.calls = append(m.calls, struct {
		title   string
		message string
	}{title, message})
	return m.err
}

func (m *mockNotification) beep(freq float64, duration int) error {
	m.beeps++
	return m.err
}

func install(t *testing.T, m *mockNotification) {
	t.Helper()
	SetNotifier(m.notify)
	SetBeeper(m.beep)
	t.Cleanup(ResetNotifier)
}

func TestSend(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		message     string
		mockErr     error
		expectError bool
	}{
		{"successful notification", "Test Title", "Test Message", nil, false},
		{"notification error", "Test Title", "Test Message", errors.New("notification failed"), true},
		{"empty title", "", "Message with empty title", nil, false},
		{"unicode content", "通知", "🎉 Notification with emoji", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockNotification{err: tt.mockErr}
			install(t, mock)

			err := Send(tt.title, tt.message)

			if tt.expectError && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if len(mock.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(mock.calls))
			}
			if mock.calls[0].title != tt.title || mock.calls[0].message != tt.message {
				t.Errorf("call = %+v", mock.calls[0])
			}
		})
	}
}

func TestReplyReady(t *testing.T) {
	mock := &mockNotification{}
	install(t, mock)

	if err := ReplyReady("Fever in infants"); err != nil {
		t.Fatal(err)
	}
	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.calls))
	}
	if mock.calls[0].title != AppName {
		t.Errorf("title = %q", mock.calls[0].title)
	}
	if mock.calls[0].message != "Reply ready: Fever in infants" {
		t.Errorf("message = %q", mock.calls[0].message)
	}
}

func TestBeep(t *testing.T) {
	mock := &mockNotification{}
	install(t, mock)

	if err := Beep(); err != nil {
		t.Fatal(err)
	}
	if mock.beeps != 1 {
		t.Errorf("beeps = %d", mock.beeps)
	}

	mock.err = errors.New("no audio device")
	if err := Beep(); err == nil {
		t.Error("expected beep error")
	}
}
