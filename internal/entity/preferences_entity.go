package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserPreferences struct {
	Id                      uuid.UUID
	UserId                  uuid.UUID
	RequireSubtitles        bool
	RequireAudioDescription bool
	ExcludeViolentContent   bool
	ExcludeSexualContent    bool
	PreferredLanguage       string
	CreatedAt               time.Time
	UpdatedAt               *time.Time
}
