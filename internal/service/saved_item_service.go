package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ponderrr/smartadvisor/internal/dto"
	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/pkg/apperror"
	"github.com/ponderrr/smartadvisor/internal/repository/specification"
	"github.com/ponderrr/smartadvisor/internal/repository/unitofwork"
)

type ISavedItemService interface {
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveItemRequest) (*dto.SavedItemResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.SavedItemResponse, error)
	Remove(ctx context.Context, userId uuid.UUID, savedItemId uuid.UUID) error
}

type savedItemService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSavedItemService(uowFactory unitofwork.RepositoryFactory) ISavedItemService {
	return &savedItemService{
		uowFactory: uowFactory,
	}
}

// Save snapshots a recommendation item into the user's saved list. The
// item must belong to one of the user's own sessions.
func (s *savedItemService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveItemRequest) (*dto.SavedItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.ItemRepository().FindOne(ctx, specification.ByID{ID: req.ItemId})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NotFound("recommendation item not found")
	}

	rec, err := uow.RecommendationRepository().FindOne(ctx, specification.ByID{ID: item.RecommendationId})
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserId != userId {
		return nil, apperror.Forbidden("you do not own this item")
	}

	saved := &entity.SavedItem{
		Id:          uuid.New(),
		UserId:      userId,
		ItemType:    item.ItemType,
		Title:       item.Title,
		Author:      item.Author,
		Description: item.Description,
		PosterPath:  item.PosterPath,
		Rating:      item.Rating,
		CreatedAt:   time.Now(),
	}

	if err := uow.SavedItemRepository().Create(ctx, saved); err != nil {
		return nil, err
	}

	return toSavedItemResponse(saved), nil
}

func (s *savedItemService) List(ctx context.Context, userId uuid.UUID) ([]*dto.SavedItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	items, err := uow.SavedItemRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SavedItemResponse, len(items))
	for i, item := range items {
		res[i] = toSavedItemResponse(item)
	}
	return res, nil
}

func (s *savedItemService) Remove(ctx context.Context, userId uuid.UUID, savedItemId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.SavedItemRepository().FindOne(ctx, specification.ByID{ID: savedItemId})
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NotFound("saved item not found")
	}
	if item.UserId != userId {
		return apperror.Forbidden("you do not own this item")
	}

	return uow.SavedItemRepository().Delete(ctx, savedItemId)
}

func toSavedItemResponse(item *entity.SavedItem) *dto.SavedItemResponse {
	return &dto.SavedItemResponse{
		Id:          item.Id,
		Type:        string(item.ItemType),
		Title:       item.Title,
		Author:      item.Author,
		Description: item.Description,
		PosterPath:  item.PosterPath,
		Rating:      item.Rating,
		CreatedAt:   item.CreatedAt,
	}
}
