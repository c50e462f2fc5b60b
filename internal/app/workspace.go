package app

import (
	"context"
	"time"

	"github.com/zhubert/nelson/internal/assistant"
	"github.com/zhubert/nelson/internal/chat"
	nerrors "github.com/zhubert/nelson/internal/errors"
	"github.com/zhubert/nelson/internal/logger"
	"github.com/zhubert/nelson/internal/settings"
	"github.com/zhubert/nelson/internal/storage"
)

const (
	writeQueueSize = 64
	writeTimeout   = 10 * time.Second
)

// Workspace is the signed-in user's chats and settings. It serves the
// sidebar as both Source and Commands and mirrors every change to storage.
//
// Writes go through a single goroutine per mount so they reach the
// database in the order they were made.
type Workspace struct {
	registry *chat.Registry
	settings *settings.Store
	store    *storage.Store

	owner       string
	readOnly    bool
	restoring   bool
	writer      *writer
	unsubscribe func()
}

// NewWorkspace returns an unmounted workspace. store may be nil, in which
// case nothing is persisted.
func NewWorkspace(store *storage.Store, opts ...chat.Option) *Workspace {
	w := &Workspace{
		registry: chat.NewRegistry(opts...),
		settings: settings.NewStore(settings.Defaults()),
		store:    store,
	}
	w.unsubscribe = w.settings.Subscribe(func(s settings.UserSettings) {
		if w.restoring {
			return
		}
		owner := w.owner
		w.enqueue("save settings", func(ctx context.Context) error {
			return w.store.SaveSettings(ctx, owner, s)
		})
	})
	return w
}

// Mount replaces the workspace contents with owner's saved chats and
// settings. No chat is current afterwards.
func (w *Workspace) Mount(owner string, chats []chat.Chat, s settings.UserSettings) {
	w.mount(owner, chats, s, false)
}

// MountReadOnly mounts owner without persisting any change. It is used when
// the saved data could not be loaded, so edits made against incomplete data
// never overwrite what is stored.
func (w *Workspace) MountReadOnly(owner string, chats []chat.Chat, s settings.UserSettings) {
	w.mount(owner, chats, s, true)
}

func (w *Workspace) mount(owner string, chats []chat.Chat, s settings.UserSettings, readOnly bool) {
	w.Unmount()
	w.owner = owner
	w.readOnly = readOnly
	w.restore(chats, s)
	if w.store != nil && !readOnly {
		w.writer = newWriter(owner)
	}
	logger.WithComponent("app").Info("workspace mounted", "owner", owner, "chats", len(chats), "readOnly", readOnly)
}

// Unmount flushes pending writes and empties the workspace.
func (w *Workspace) Unmount() {
	if w.writer != nil {
		w.writer.close()
		w.writer = nil
	}
	if w.owner != "" {
		logger.WithComponent("app").Info("workspace unmounted", "owner", w.owner)
	}
	w.owner = ""
	w.readOnly = false
	w.restore(nil, settings.Defaults())
}

func (w *Workspace) restore(chats []chat.Chat, s settings.UserSettings) {
	w.registry.Restore(chats, "")
	w.restoring = true
	w.settings.Replace(s)
	w.restoring = false
}

// Close unmounts and drops the settings subscription.
func (w *Workspace) Close() {
	w.Unmount()
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}

// Owner returns the mounted user's id, or "" when unmounted.
func (w *Workspace) Owner() string { return w.owner }

// ReadOnly reports whether changes are kept in memory only.
func (w *Workspace) ReadOnly() bool { return w.readOnly }

// IsMounted reports whether a user's data is loaded.
func (w *Workspace) IsMounted() bool { return w.owner != "" }

// Registry returns the chat registry.
func (w *Workspace) Registry() *chat.Registry { return w.registry }

// SettingsStore returns the settings store.
func (w *Workspace) SettingsStore() *settings.Store { return w.settings }

// Errors delivers failed writes for the current mount. It is nil when
// nothing is persisted.
func (w *Workspace) Errors() <-chan error {
	if w.writer == nil {
		return nil
	}
	return w.writer.errs
}

// Chats implements sidebar.Source.
func (w *Workspace) Chats() []chat.Chat { return w.registry.List() }

// CurrentChatID implements sidebar.Source.
func (w *Workspace) CurrentChatID() (chat.ID, bool) { return w.registry.Current() }

// Settings implements sidebar.Source.
func (w *Workspace) Settings() settings.UserSettings { return w.settings.Get() }

// NewChat implements sidebar.Commands.
func (w *Workspace) NewChat(initialMessage string) chat.ID {
	id := w.registry.Create(initialMessage)
	w.saveChat(id)
	return id
}

// SelectChat implements sidebar.Commands. Unknown ids are ignored.
func (w *Workspace) SelectChat(id chat.ID) {
	if err := w.registry.Select(id); err != nil {
		logger.WithComponent("app").Debug("select ignored", "chat", id, "error", err)
	}
}

// DeleteChat implements sidebar.Commands.
func (w *Workspace) DeleteChat(id chat.ID) {
	if !w.registry.Delete(id) {
		return
	}
	owner := w.owner
	w.enqueue("delete chat", func(ctx context.Context) error {
		return w.store.DeleteChat(ctx, owner, id)
	})
}

// ClearChats implements sidebar.Commands.
func (w *Workspace) ClearChats() {
	w.registry.ClearAll()
	owner := w.owner
	w.enqueue("clear chats", func(ctx context.Context) error {
		return w.store.ClearChats(ctx, owner)
	})
}

// UpdateSettings implements sidebar.Commands.
func (w *Workspace) UpdateSettings(p settings.Patch) {
	w.settings.Patch(p)
}

// Append adds a message to id and saves the chat.
func (w *Workspace) Append(id chat.ID, role chat.Role, content string) (chat.Message, error) {
	msg, err := w.registry.Append(id, role, content)
	if err != nil {
		return chat.Message{}, err
	}
	w.saveChat(id)
	return msg, nil
}

// Rename retitles id and saves the chat.
func (w *Workspace) Rename(id chat.ID, title string) error {
	if err := w.registry.Rename(id, title); err != nil {
		return err
	}
	w.saveChat(id)
	return nil
}

// Classify recomputes the urgency and medical domain of id from its
// messages.
func (w *Workspace) Classify(id chat.ID) chat.Metadata {
	c, ok := w.registry.Get(id)
	if !ok {
		return chat.Metadata{}
	}
	md := assistant.ClassifyChat(c.Messages)
	if md == c.Metadata {
		return md
	}
	if err := w.registry.SetMetadata(id, md); err == nil {
		w.saveChat(id)
	}
	return md
}

func (w *Workspace) saveChat(id chat.ID) {
	c, ok := w.registry.Get(id)
	if !ok {
		return
	}
	owner := w.owner
	w.enqueue("save chat", func(ctx context.Context) error {
		return w.store.SaveChat(ctx, owner, c)
	})
}

// enqueue hands a write to the writer without blocking the caller. A full
// queue drops the write and reports it as a storage error.
func (w *Workspace) enqueue(name string, fn func(ctx context.Context) error) {
	if w.writer == nil {
		return
	}
	select {
	case w.writer.ops <- writeOp{name: name, fn: fn}:
	default:
		err := nerrors.E(nerrors.Op("app."+name), nerrors.KindStorage, "write queue full")
		logger.WithComponent("storage").Error("write dropped", "op", name, "owner", w.owner, "error", err)
		w.writer.report(err)
	}
}

type writeOp struct {
	name string
	fn   func(ctx context.Context) error
}

// writer applies storage operations one at a time.
type writer struct {
	owner string
	ops   chan writeOp
	errs  chan error
	done  chan struct{}
}

func newWriter(owner string) *writer {
	wr := &writer{
		owner: owner,
		ops:   make(chan writeOp, writeQueueSize),
		errs:  make(chan error, writeQueueSize),
		done:  make(chan struct{}),
	}
	go wr.run()
	return wr
}

func (wr *writer) run() {
	defer close(wr.done)
	defer close(wr.errs)

	log := logger.WithComponent("storage")
	for op := range wr.ops {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := op.fn(ctx)
		cancel()
		if err == nil {
			continue
		}
		log.Error("write failed", "op", op.name, "owner", wr.owner, "error", err)
		wr.report(err)
	}
}

// report passes err to the UI unless errors are already backed up.
func (wr *writer) report(err error) {
	select {
	case wr.errs <- err:
	default:
	}
}

// close waits for queued writes to finish.
func (wr *writer) close() {
	close(wr.ops)
	<-wr.done
}
