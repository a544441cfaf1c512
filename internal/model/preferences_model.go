package model

import (
	"time"

	"github.com/google/uuid"
)

type UserPreferences struct {
	Id                      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	RequireSubtitles        bool      `gorm:"not null;default:false"`
	RequireAudioDescription bool      `gorm:"not null;default:false"`
	ExcludeViolentContent   bool      `gorm:"not null;default:false"`
	ExcludeSexualContent    bool      `gorm:"not null;default:false"`
	PreferredLanguage       string    `gorm:"type:varchar(10);not null;default:'en'"`
	CreatedAt               time.Time `gorm:"autoCreateTime"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}
