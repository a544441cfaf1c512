package mapper

import (
	"time"

	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/model"
)

type PreferencesMapper struct{}

func NewPreferencesMapper() *PreferencesMapper {
	return &PreferencesMapper{}
}

func (m *PreferencesMapper) ToEntity(p *model.UserPreferences) *entity.UserPreferences {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.UserPreferences{
		Id:                      p.Id,
		UserId:                  p.UserId,
		RequireSubtitles:        p.RequireSubtitles,
		RequireAudioDescription: p.RequireAudioDescription,
		ExcludeViolentContent:   p.ExcludeViolentContent,
		ExcludeSexualContent:    p.ExcludeSexualContent,
		PreferredLanguage:       p.PreferredLanguage,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               updatedAt,
	}
}

func (m *PreferencesMapper) ToModel(p *entity.UserPreferences) *model.UserPreferences {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.UserPreferences{
		Id:                      p.Id,
		UserId:                  p.UserId,
		RequireSubtitles:        p.RequireSubtitles,
		RequireAudioDescription: p.RequireAudioDescription,
		ExcludeViolentContent:   p.ExcludeViolentContent,
		ExcludeSexualContent:    p.ExcludeSexualContent,
		PreferredLanguage:       p.PreferredLanguage,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               updatedAt,
	}
}
