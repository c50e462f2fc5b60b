package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhubert/nelson/internal/chat"
	nerrors "github.com/zhubert/nelson/internal/errors"
	"github.com/zhubert/nelson/internal/settings"
)

// Store is the persistence layer. Every row is scoped by an owner ID so one
// database can hold several users.
type Store struct {
	db *gorm.DB
}

// Open connects to driver/dsn and migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	db, err := Connect(driver, dsn)
	if err != nil {
		return nil, nerrors.StorageFailed("storage.Open", err)
	}
	return New(db)
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := AutoMigrate(db); err != nil {
		return nil, nerrors.StorageFailed("storage.New", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying connection.
func (s *Store) DB() *gorm.DB { return s.db }

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadChats returns owner's chats in insertion order with their messages.
func (s *Store) LoadChats(ctx context.Context, owner string) ([]chat.Chat, error) {
	var recs []ChatRecord
	err := s.db.WithContext(ctx).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("owner_id = ?", owner).
		Order("seq ASC").
		Find(&recs).Error
	if err != nil {
		return nil, nerrors.StorageFailed("storage.LoadChats", err)
	}

	out := make([]chat.Chat, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toChat())
	}
	return out, nil
}

func (r ChatRecord) toChat() chat.Chat {
	urgency, _ := chat.ParseUrgency(r.Urgency)
	c := chat.Chat{
		ID:        chat.ID(r.ID),
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Metadata:  chat.Metadata{Urgency: urgency, MedicalDomain: r.MedicalDomain},
		Seed:      r.Seed,
	}
	for _, m := range r.Messages {
		c.Messages = append(c.Messages, chat.Message{
			ID:        m.ID,
			Role:      chat.Role(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return c
}

// SaveChat upserts c and any messages not yet stored. Messages are append
// only, so existing rows are left alone.
func (s *Store) SaveChat(ctx context.Context, owner string, c chat.Chat) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Model(&ChatRecord{}).
			Where("owner_id = ?", owner).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&seq).Error; err != nil {
			return err
		}

		rec := ChatRecord{
			ID:            string(c.ID),
			OwnerID:       owner,
			Seq:           seq + 1,
			Title:         c.Title,
			Urgency:       c.Metadata.Urgency.String(),
			MedicalDomain: c.Metadata.MedicalDomain,
			Seed:          c.Seed,
			CreatedAt:     c.CreatedAt,
			UpdatedAt:     c.UpdatedAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "urgency", "medical_domain", "seed", "updated_at"}),
		}).Omit("Messages").Create(&rec).Error; err != nil {
			return err
		}

		if len(c.Messages) == 0 {
			return nil
		}
		msgs := make([]MessageRecord, len(c.Messages))
		for i, m := range c.Messages {
			msgs[i] = MessageRecord{
				ID:        m.ID,
				ChatID:    string(c.ID),
				Position:  i,
				Role:      string(m.Role),
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
			}
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&msgs).Error
	})
	if err != nil {
		return nerrors.StorageFailed("storage.SaveChat", err)
	}
	return nil
}

// DeleteChat removes one of owner's chats and its messages.
func (s *Store) DeleteChat(ctx context.Context, owner string, id chat.ID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", string(id), owner).Delete(&ChatRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Where("chat_id = ?", string(id)).Delete(&MessageRecord{}).Error
	})
	if err != nil {
		return nerrors.StorageFailed("storage.DeleteChat", err)
	}
	return nil
}

// ClearChats removes all of owner's chats and messages.
func (s *Store) ClearChats(ctx context.Context, owner string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&ChatRecord{}).Select("id").Where("owner_id = ?", owner)
		if err := tx.Where("chat_id IN (?)", owned).Delete(&MessageRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("owner_id = ?", owner).Delete(&ChatRecord{}).Error
	})
	if err != nil {
		return nerrors.StorageFailed("storage.ClearChats", err)
	}
	return nil
}

// LoadSettings returns owner's settings, or Defaults if none were saved.
func (s *Store) LoadSettings(ctx context.Context, owner string) (settings.UserSettings, error) {
	var rec SettingsRecord
	err := s.db.WithContext(ctx).Where("owner_id = ?", owner).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settings.Defaults(), nil
	}
	if err != nil {
		return settings.Defaults(), nerrors.StorageFailed("storage.LoadSettings", err)
	}

	size, _ := settings.ParseFontSize(rec.FontSize)
	return settings.UserSettings{
		ShowTimestamps:   rec.ShowTimestamps,
		ShowCitations:    rec.ShowCitations,
		AutoScroll:       rec.AutoScroll,
		SoundEnabled:     rec.SoundEnabled,
		FontSize:         size,
		CompactMode:      rec.CompactMode,
		ShowMessageCount: rec.ShowMessageCount,
	}, nil
}

// SaveSettings stores owner's settings, replacing any previous value.
func (s *Store) SaveSettings(ctx context.Context, owner string, u settings.UserSettings) error {
	rec := SettingsRecord{
		OwnerID:          owner,
		ShowTimestamps:   u.ShowTimestamps,
		ShowCitations:    u.ShowCitations,
		AutoScroll:       u.AutoScroll,
		SoundEnabled:     u.SoundEnabled,
		FontSize:         u.FontSize.String(),
		CompactMode:      u.CompactMode,
		ShowMessageCount: u.ShowMessageCount,
		UpdatedAt:        time.Now(),
	}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nerrors.StorageFailed("storage.SaveSettings", err)
	}
	return nil
}

// CreateAccount registers a new account. A duplicate email yields a
// KindInvalid error.
func (s *Store) CreateAccount(ctx context.Context, acct Account) error {
	acct.Email = normalizeEmail(acct.Email)
	var count int64
	if err := s.db.WithContext(ctx).Model(&Account{}).Where("email = ?", acct.Email).Count(&count).Error; err != nil {
		return nerrors.StorageFailed("storage.CreateAccount", err)
	}
	if count > 0 {
		return nerrors.E(nerrors.Op("storage.CreateAccount"), nerrors.KindInvalid, "email already registered")
	}
	if err := s.db.WithContext(ctx).Create(&acct).Error; err != nil {
		return nerrors.StorageFailed("storage.CreateAccount", err)
	}
	return nil
}

// FindAccountByEmail looks up an account. Missing accounts yield KindNotFound.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (Account, error) {
	return s.findAccount(ctx, "email = ?", normalizeEmail(email))
}

// FindAccount looks up an account by ID.
func (s *Store) FindAccount(ctx context.Context, id string) (Account, error) {
	return s.findAccount(ctx, "id = ?", id)
}

func (s *Store) findAccount(ctx context.Context, query string, arg string) (Account, error) {
	var acct Account
	err := s.db.WithContext(ctx).Where(query, arg).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, nerrors.E(nerrors.Op("storage.FindAccount"), nerrors.KindNotFound, "account not found")
	}
	if err != nil {
		return Account{}, nerrors.StorageFailed("storage.FindAccount", err)
	}
	return acct, nil
}

// CreateSession stores a session token.
func (s *Store) CreateSession(ctx context.Context, sess AuthSession) error {
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nerrors.StorageFailed("storage.CreateSession", err)
	}
	return nil
}

// FindSession looks up a token. Missing tokens yield KindNotFound.
func (s *Store) FindSession(ctx context.Context, token string) (AuthSession, error) {
	var sess AuthSession
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthSession{}, nerrors.E(nerrors.Op("storage.FindSession"), nerrors.KindNotFound, "session not found")
	}
	if err != nil {
		return AuthSession{}, nerrors.StorageFailed("storage.FindSession", err)
	}
	return sess, nil
}

// DeleteSession removes a token. Unknown tokens are ignored.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&AuthSession{}).Error; err != nil {
		return nerrors.StorageFailed("storage.DeleteSession", err)
	}
	return nil
}

// PruneSessions deletes every token that expired before now.
func (s *Store) PruneSessions(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&AuthSession{})
	if res.Error != nil {
		return 0, nerrors.StorageFailed("storage.PruneSessions", res.Error)
	}
	return res.RowsAffected, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
