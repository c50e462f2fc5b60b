package storage

import "time"

// ChatRecord is one persisted conversation.
type ChatRecord struct {
	ID            string    `gorm:"primaryKey;size:36"`
	OwnerID       string    `gorm:"size:36;not null;index:idx_owner_seq"`
	Seq           int64     `gorm:"index:idx_owner_seq"`
	Title         string    `gorm:"size:255;not null"`
	Urgency       string    `gorm:"size:16;default:none"`
	MedicalDomain string    `gorm:"size:128"`
	Seed          string    `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`

	Messages []MessageRecord `gorm:"foreignKey:ChatID"`
}

// MessageRecord is one turn of a persisted conversation.
type MessageRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	ChatID    string `gorm:"size:36;not null;index"`
	Position  int
	Role      string `gorm:"size:16;not null"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
}

// SettingsRecord holds one user's display preferences.
type SettingsRecord struct {
	OwnerID          string `gorm:"primaryKey;size:36"`
	ShowTimestamps   bool
	ShowCitations    bool
	AutoScroll       bool
	SoundEnabled     bool
	FontSize         string `gorm:"size:8;default:medium"`
	CompactMode      bool
	ShowMessageCount bool
	UpdatedAt        time.Time
}

// Account is a locally registered user.
type Account struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash []byte `gorm:"not null"`
	CreatedAt    time.Time
}

// AuthSession is a signed-in session token.
type AuthSession struct {
	Token     string `gorm:"primaryKey;size:64"`
	AccountID string `gorm:"size:36;not null;index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// AllModels returns every model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&ChatRecord{},
		&MessageRecord{},
		&SettingsRecord{},
		&Account{},
		&AuthSession{},
	}
}
