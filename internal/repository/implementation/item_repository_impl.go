package implementation

import (
	"context"
	"errors"

	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/mapper"
	"github.com/ponderrr/smartadvisor/internal/model"
	"github.com/ponderrr/smartadvisor/internal/repository/contract"
	"github.com/ponderrr/smartadvisor/internal/repository/specification"

	"gorm.io/gorm"
)

type ItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ItemMapper
}

func NewItemRepository(db *gorm.DB) contract.ItemRepository {
	return &ItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewItemMapper(),
	}
}

func (r *ItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ItemRepositoryImpl) CreateBatch(ctx context.Context, items []*entity.RecommendationItem) error {
	if len(items) == 0 {
		return nil
	}
	models := r.mapper.ToModels(items)
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *ItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecommendationItem, error) {
	var m model.RecommendationItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationItem, error) {
	var models []*model.RecommendationItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.RecommendationItem{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
