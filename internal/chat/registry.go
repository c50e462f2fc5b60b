package chat

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	nerrors "github.com/zhubert/nelson/internal/errors"
)

// Registry owns the chats of one user and the current-chat selection.
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	chats   map[ID]*Chat
	order   []ID // insertion order, used to break UpdatedAt ties
	current ID

	now   func() time.Time
	newID func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now. Tests use it to produce equal timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) { r.newID = gen }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		chats: make(map[ID]*Chat),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// uniqueID draws IDs until one is not in use. Callers must hold mu.
func (r *Registry) uniqueID() ID {
	for {
		id := ID(r.newID())
		if _, exists := r.chats[id]; !exists && id != "" {
			return id
		}
	}
}

// touch advances UpdatedAt to now without ever moving it backwards.
// Callers must hold mu.
func (r *Registry) touch(c *Chat) time.Time {
	t := r.now()
	if t.Before(c.UpdatedAt) {
		t = c.UpdatedAt
	}
	c.UpdatedAt = t
	return t
}

// Create adds a chat, makes it current and returns its ID. A non-empty
// initialMessage is kept as the chat's Seed.
func (r *Registry) Create(initialMessage string) ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	id := r.uniqueID()
	r.chats[id] = &Chat{
		ID:        id,
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Seed:      initialMessage,
	}
	r.order = append(r.order, id)
	r.current = id
	return id
}

// Select makes id the current chat. An unknown id leaves the selection as is.
func (r *Registry) Select(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[id]; !ok {
		return nerrors.ChatNotFound(string(id))
	}
	r.current = id
	return nil
}

// Delete removes id and reports whether it existed. Deleting the current
// chat clears the selection.
func (r *Registry) Delete(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[id]; !ok {
		return false
	}
	delete(r.chats, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.current == id {
		r.current = ""
	}
	return true
}

// ClearAll removes every chat and clears the selection.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chats = make(map[ID]*Chat)
	r.order = nil
	r.current = ""
}

// List returns copies of all chats, most recently updated first. Chats with
// equal UpdatedAt keep their insertion order.
func (r *Registry) List() []Chat {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Chat, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.chats[id].clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// ListSince is List restricted to chats updated at or after cutoff.
func (r *Registry) ListSince(cutoff time.Time) []Chat {
	all := r.List()
	out := all[:0]
	for _, c := range all {
		if !c.UpdatedAt.Before(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

// Current returns the selected chat ID, if any.
func (r *Registry) Current() (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.current != ""
}

// CurrentChat returns a copy of the selected chat, if any.
func (r *Registry) CurrentChat() (Chat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == "" {
		return Chat{}, false
	}
	return r.chats[r.current].clone(), true
}

// Get returns a copy of the chat with the given id.
func (r *Registry) Get(id ID) (Chat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chats[id]
	if !ok {
		return Chat{}, false
	}
	return c.clone(), true
}

// Len returns the number of chats.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chats)
}

// Append adds a message to id and bumps its UpdatedAt. The first user message
// of an untitled chat becomes its title and consumes any pending Seed.
func (r *Registry) Append(id ID, role Role, content string) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[id]
	if !ok {
		return Message{}, nerrors.ChatNotFound(string(id))
	}

	if role == RoleUser {
		if c.Title == DefaultTitle && c.UserMessageCount() == 0 {
			c.Title = DeriveTitle(content)
		}
		c.Seed = ""
	}

	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: r.touch(c),
	}
	c.Messages = append(c.Messages, msg)
	return msg, nil
}

// Rename sets the title of id. A blank title restores DefaultTitle.
func (r *Registry) Rename(id ID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[id]
	if !ok {
		return nerrors.ChatNotFound(string(id))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	c.Title = title
	r.touch(c)
	return nil
}

// SetMetadata replaces the classification of id. It does not count as
// activity and leaves UpdatedAt alone.
func (r *Registry) SetMetadata(id ID, md Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[id]
	if !ok {
		return nerrors.ChatNotFound(string(id))
	}
	c.Metadata = md
	return nil
}

// ClearSeed drops the pending template prompt of id.
func (r *Registry) ClearSeed(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.chats[id]; ok {
		c.Seed = ""
	}
}

// Restore replaces the registry contents with chats, in the given insertion
// order, and selects current if it is among them. Duplicate IDs keep the
// first occurrence.
func (r *Registry) Restore(chats []Chat, current ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chats = make(map[ID]*Chat, len(chats))
	r.order = make([]ID, 0, len(chats))
	for i := range chats {
		c := chats[i].clone()
		if c.ID == "" {
			continue
		}
		if _, dup := r.chats[c.ID]; dup {
			continue
		}
		if c.Title == "" {
			c.Title = DefaultTitle
		}
		r.chats[c.ID] = &c
		r.order = append(r.order, c.ID)
	}
	r.current = ""
	if _, ok := r.chats[current]; ok {
		r.current = current
	}
}
