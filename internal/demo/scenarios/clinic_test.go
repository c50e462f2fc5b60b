package scenarios

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/zhubert/nelson/internal/auth"
	"github.com/zhubert/nelson/internal/demo"
	"github.com/zhubert/nelson/internal/storage"
)

func TestAll(t *testing.T) {
	scenarios := All()

	if len(scenarios) != 1 {
		t.Errorf("All() should return 1 scenario, got %d", len(scenarios))
	}

	for _, s := range scenarios {
		if err := s.Validate(); err != nil {
			t.Errorf("Scenario %q validation failed: %v", s.Name, err)
		}
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name      string
		wantFound bool
	}{
		{"clinic", true},
		{"nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := Get(tt.name)
			found := scenario != nil

			if found != tt.wantFound {
				t.Errorf("Get(%q) found = %v, want %v", tt.name, found, tt.wantFound)
			}
		})
	}
}

func TestClinicSeeds(t *testing.T) {
	store, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "clinic.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()
	provider := auth.NewLocalProvider(store, auth.LocalOptions{AutoSignIn: true})
	ctx := context.Background()

	owner, err := demo.Seed(ctx, store, provider, Clinic, time.Now())
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	chats, err := store.LoadChats(ctx, owner)
	if err != nil {
		t.Fatalf("LoadChats: %v", err)
	}
	if len(chats) != len(Clinic.Chats) {
		t.Errorf("seeded %d chats, want %d", len(chats), len(Clinic.Chats))
	}
	if sess, _ := provider.GetSession(ctx); sess == nil {
		t.Error("clinic scenario should start signed in")
	}
}
