package contract

import (
	"context"

	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/repository/specification"
)

type RecommendationRepository interface {
	Create(ctx context.Context, rec *entity.Recommendation) error
	Update(ctx context.Context, rec *entity.Recommendation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recommendation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recommendation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []*entity.RecommendationQuestion) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationQuestion, error)
}

type AnswerRepository interface {
	CreateBatch(ctx context.Context, answers []*entity.RecommendationAnswer) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationAnswer, error)
}

type ItemRepository interface {
	CreateBatch(ctx context.Context, items []*entity.RecommendationItem) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecommendationItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationItem, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type HistoryRepository interface {
	CreateBatch(ctx context.Context, entries []*entity.RecommendationHistoryEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationHistoryEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
