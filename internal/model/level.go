package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Level is a static catalog entry reached once a user has RequiredTasks
// completed tasks.
type Level struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"uniqueIndex;not null" json:"name"`
	Description   string    `json:"description"`
	RequiredTasks int       `gorm:"not null;uniqueIndex" json:"required_tasks"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (l *Level) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// UserLevel binds a user to its current level. AnimationSeen always refers to
// LevelID: it is reset whenever LevelID changes.
type UserLevel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	LevelID       uuid.UUID `gorm:"type:uuid;not null" json:"level_id"`
	AnimationSeen bool      `gorm:"not null;default:false" json:"animation_seen"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Level Level `gorm:"foreignKey:LevelID" json:"level"`
}

func (ul *UserLevel) BeforeCreate(tx *gorm.DB) error {
	if ul.ID == uuid.Nil {
		ul.ID = uuid.New()
	}
	return nil
}
