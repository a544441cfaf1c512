package implementation

import (
	"context"

	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/mapper"
	"github.com/ponderrr/smartadvisor/internal/model"
	"github.com/ponderrr/smartadvisor/internal/repository/contract"
	"github.com/ponderrr/smartadvisor/internal/repository/specification"

	"gorm.io/gorm"
)

type AnswerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AnswerMapper
}

func NewAnswerRepository(db *gorm.DB) contract.AnswerRepository {
	return &AnswerRepositoryImpl{
		db:     db,
		mapper: mapper.NewAnswerMapper(),
	}
}

func (r *AnswerRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AnswerRepositoryImpl) CreateBatch(ctx context.Context, answers []*entity.RecommendationAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	models := r.mapper.ToModels(answers)
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *AnswerRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationAnswer, error) {
	var models []*model.RecommendationAnswer
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
