package implementation

import (
	"context"
	"errors"

	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/mapper"
	"github.com/ponderrr/smartadvisor/internal/model"
	"github.com/ponderrr/smartadvisor/internal/repository/contract"
	"github.com/ponderrr/smartadvisor/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SavedItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SavedItemMapper
}

func NewSavedItemRepository(db *gorm.DB) contract.SavedItemRepository {
	return &SavedItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewSavedItemMapper(),
	}
}

func (r *SavedItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SavedItemRepositoryImpl) Create(ctx context.Context, item *entity.SavedItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *SavedItemRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SavedItem{}, id).Error
}

func (r *SavedItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SavedItem, error) {
	var m model.SavedItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SavedItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SavedItem, error) {
	var models []*model.SavedItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
