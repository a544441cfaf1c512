package implementation

import (
	"context"
	"errors"

	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/mapper"
	"github.com/ponderrr/smartadvisor/internal/model"
	"github.com/ponderrr/smartadvisor/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferencesRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PreferencesMapper
}

func NewPreferencesRepository(db *gorm.DB) contract.PreferencesRepository {
	return &PreferencesRepositoryImpl{
		db:     db,
		mapper: mapper.NewPreferencesMapper(),
	}
}

func (r *PreferencesRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserPreferences, error) {
	var m model.UserPreferences
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PreferencesRepositoryImpl) Upsert(ctx context.Context, prefs *entity.UserPreferences) error {
	m := r.mapper.ToModel(prefs)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"require_subtitles",
				"require_audio_description",
				"exclude_violent_content",
				"exclude_sexual_content",
				"preferred_language",
				"updated_at",
			}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*prefs = *r.mapper.ToEntity(m)
	return nil
}

func (r *PreferencesRepositoryImpl) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.UserPreferences{}).Error
}
