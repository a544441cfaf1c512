package contract

import (
	"context"

	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/repository/specification"

	"github.com/google/uuid"
)

type SavedItemRepository interface {
	Create(ctx context.Context, item *entity.SavedItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SavedItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SavedItem, error)
}
