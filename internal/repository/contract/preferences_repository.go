package contract

import (
	"context"

	"github.com/ponderrr/smartadvisor/internal/entity"

	"github.com/google/uuid"
)

type PreferencesRepository interface {
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserPreferences, error)
	Upsert(ctx context.Context, prefs *entity.UserPreferences) error
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
}
