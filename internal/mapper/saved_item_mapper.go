package mapper

import (
	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/model"
)

type SavedItemMapper struct{}

func NewSavedItemMapper() *SavedItemMapper {
	return &SavedItemMapper{}
}

func (m *SavedItemMapper) ToEntity(s *model.SavedItem) *entity.SavedItem {
	if s == nil {
		return nil
	}

	return &entity.SavedItem{
		Id:          s.Id,
		UserId:      s.UserId,
		ItemType:    entity.RecommendationType(s.ItemType),
		Title:       s.Title,
		Author:      s.Author,
		Description: s.Description,
		PosterPath:  s.PosterPath,
		Rating:      s.Rating,
		CreatedAt:   s.CreatedAt,
	}
}

func (m *SavedItemMapper) ToModel(s *entity.SavedItem) *model.SavedItem {
	if s == nil {
		return nil
	}

	return &model.SavedItem{
		Id:          s.Id,
		UserId:      s.UserId,
		ItemType:    string(s.ItemType),
		Title:       s.Title,
		Author:      s.Author,
		Description: s.Description,
		PosterPath:  s.PosterPath,
		Rating:      s.Rating,
		CreatedAt:   s.CreatedAt,
	}
}

func (m *SavedItemMapper) ToEntities(items []*model.SavedItem) []*entity.SavedItem {
	entities := make([]*entity.SavedItem, len(items))
	for i, s := range items {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
