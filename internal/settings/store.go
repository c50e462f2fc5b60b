package settings

import "sync"

// Store holds the current settings and notifies subscribers of every
// transition. A patch is applied as a single transition; observers never
// see it half-applied.
type Store struct {
	mu      sync.RWMutex
	current UserSettings
	subs    map[int]func(UserSettings)
	nextSub int
}

// NewStore returns a store holding initial.
func NewStore(initial UserSettings) *Store {
	return &Store{
		current: initial,
		subs:    make(map[int]func(UserSettings)),
	}
}

// Get returns a snapshot of the current settings.
func (s *Store) Get() UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Patch merges p and returns the resulting settings. An empty patch is not
// a transition and notifies no one.
func (s *Store) Patch(p Patch) UserSettings {
	if p.IsEmpty() {
		return s.Get()
	}
	return s.set(p.Apply)
}

// ResetToDefaults replaces every field with Defaults in one transition.
func (s *Store) ResetToDefaults() UserSettings {
	return s.set(func(UserSettings) UserSettings { return Defaults() })
}

// Replace swaps in a whole settings value, e.g. after loading from storage.
func (s *Store) Replace(next UserSettings) UserSettings {
	return s.set(func(UserSettings) UserSettings { return next })
}

func (s *Store) set(fn func(UserSettings) UserSettings) UserSettings {
	s.mu.Lock()
	s.current = fn(s.current)
	snapshot := s.current
	subs := make([]func(UserSettings), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	return snapshot
}

// Subscribe registers fn to receive every new snapshot. The returned func
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn func(UserSettings)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
