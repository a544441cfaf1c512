package mapper

import (
	"strings"
	"time"

	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/model"
)

type RecommendationMapper struct{}

func NewRecommendationMapper() *RecommendationMapper {
	return &RecommendationMapper{}
}

func (m *RecommendationMapper) ToEntity(r *model.Recommendation) *entity.Recommendation {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.Recommendation{
		Id:        r.Id,
		UserId:    r.UserId,
		Type:      entity.RecommendationType(r.Type),
		Status:    entity.RecommendationStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *RecommendationMapper) ToModel(r *entity.Recommendation) *model.Recommendation {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.Recommendation{
		Id:        r.Id,
		UserId:    r.UserId,
		Type:      string(r.Type),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *RecommendationMapper) ToEntities(recs []*model.Recommendation) []*entity.Recommendation {
	entities := make([]*entity.Recommendation, len(recs))
	for i, r := range recs {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

type QuestionMapper struct{}

func NewQuestionMapper() *QuestionMapper {
	return &QuestionMapper{}
}

func (m *QuestionMapper) ToEntity(q *model.RecommendationQuestion) *entity.RecommendationQuestion {
	if q == nil {
		return nil
	}

	return &entity.RecommendationQuestion{
		Id:               q.Id,
		RecommendationId: q.RecommendationId,
		Text:             q.QuestionText,
		Order:            q.QuestionOrder,
		CreatedAt:        q.CreatedAt,
	}
}

func (m *QuestionMapper) ToModel(q *entity.RecommendationQuestion) *model.RecommendationQuestion {
	if q == nil {
		return nil
	}

	return &model.RecommendationQuestion{
		Id:               q.Id,
		RecommendationId: q.RecommendationId,
		QuestionText:     q.Text,
		QuestionOrder:    q.Order,
		CreatedAt:        q.CreatedAt,
	}
}

func (m *QuestionMapper) ToEntities(questions []*model.RecommendationQuestion) []*entity.RecommendationQuestion {
	entities := make([]*entity.RecommendationQuestion, len(questions))
	for i, q := range questions {
		entities[i] = m.ToEntity(q)
	}
	return entities
}

func (m *QuestionMapper) ToModels(questions []*entity.RecommendationQuestion) []*model.RecommendationQuestion {
	models := make([]*model.RecommendationQuestion, len(questions))
	for i, q := range questions {
		models[i] = m.ToModel(q)
	}
	return models
}

type AnswerMapper struct{}

func NewAnswerMapper() *AnswerMapper {
	return &AnswerMapper{}
}

func (m *AnswerMapper) ToEntity(a *model.RecommendationAnswer) *entity.RecommendationAnswer {
	if a == nil {
		return nil
	}

	return &entity.RecommendationAnswer{
		Id:         a.Id,
		QuestionId: a.QuestionId,
		Text:       a.AnswerText,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *AnswerMapper) ToModel(a *entity.RecommendationAnswer) *model.RecommendationAnswer {
	if a == nil {
		return nil
	}

	return &model.RecommendationAnswer{
		Id:         a.Id,
		QuestionId: a.QuestionId,
		AnswerText: a.Text,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *AnswerMapper) ToEntities(answers []*model.RecommendationAnswer) []*entity.RecommendationAnswer {
	entities := make([]*entity.RecommendationAnswer, len(answers))
	for i, a := range answers {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func (m *AnswerMapper) ToModels(answers []*entity.RecommendationAnswer) []*model.RecommendationAnswer {
	models := make([]*model.RecommendationAnswer, len(answers))
	for i, a := range answers {
		models[i] = m.ToModel(a)
	}
	return models
}

type ItemMapper struct{}

func NewItemMapper() *ItemMapper {
	return &ItemMapper{}
}

func (m *ItemMapper) ToEntity(i *model.RecommendationItem) *entity.RecommendationItem {
	if i == nil {
		return nil
	}

	var genres []string
	if i.Genres != "" {
		genres = strings.Split(i.Genres, ",")
	}

	return &entity.RecommendationItem{
		Id:               i.Id,
		RecommendationId: i.RecommendationId,
		ItemType:         entity.RecommendationType(i.ItemType),
		Title:            i.Title,
		Author:           i.Author,
		Description:      i.Description,
		AgeRating:        i.AgeRating,
		Rating:           i.Rating,
		PosterPath:       i.PosterPath,
		CatalogId:        i.CatalogId,
		ReleaseDate:      i.ReleaseDate,
		Runtime:          i.Runtime,
		PageCount:        i.PageCount,
		Publisher:        i.Publisher,
		Genres:           genres,
		CreatedAt:        i.CreatedAt,
	}
}

func (m *ItemMapper) ToModel(i *entity.RecommendationItem) *model.RecommendationItem {
	if i == nil {
		return nil
	}

	return &model.RecommendationItem{
		Id:               i.Id,
		RecommendationId: i.RecommendationId,
		ItemType:         string(i.ItemType),
		Title:            i.Title,
		Author:           i.Author,
		Description:      i.Description,
		AgeRating:        i.AgeRating,
		Rating:           i.Rating,
		PosterPath:       i.PosterPath,
		CatalogId:        i.CatalogId,
		ReleaseDate:      i.ReleaseDate,
		Runtime:          i.Runtime,
		PageCount:        i.PageCount,
		Publisher:        i.Publisher,
		Genres:           strings.Join(i.Genres, ","),
		CreatedAt:        i.CreatedAt,
	}
}

func (m *ItemMapper) ToEntities(items []*model.RecommendationItem) []*entity.RecommendationItem {
	entities := make([]*entity.RecommendationItem, len(items))
	for i, item := range items {
		entities[i] = m.ToEntity(item)
	}
	return entities
}

func (m *ItemMapper) ToModels(items []*entity.RecommendationItem) []*model.RecommendationItem {
	models := make([]*model.RecommendationItem, len(items))
	for i, item := range items {
		models[i] = m.ToModel(item)
	}
	return models
}

type HistoryMapper struct{}

func NewHistoryMapper() *HistoryMapper {
	return &HistoryMapper{}
}

func (m *HistoryMapper) ToEntity(h *model.RecommendationHistoryEntry) *entity.RecommendationHistoryEntry {
	if h == nil {
		return nil
	}

	return &entity.RecommendationHistoryEntry{
		Id:        h.Id,
		UserId:    h.UserId,
		Title:     h.Title,
		CreatedAt: h.CreatedAt,
	}
}

func (m *HistoryMapper) ToModel(h *entity.RecommendationHistoryEntry) *model.RecommendationHistoryEntry {
	if h == nil {
		return nil
	}

	return &model.RecommendationHistoryEntry{
		Id:        h.Id,
		UserId:    h.UserId,
		Title:     h.Title,
		CreatedAt: h.CreatedAt,
	}
}

func (m *HistoryMapper) ToEntities(entries []*model.RecommendationHistoryEntry) []*entity.RecommendationHistoryEntry {
	entities := make([]*entity.RecommendationHistoryEntry, len(entries))
	for i, h := range entries {
		entities[i] = m.ToEntity(h)
	}
	return entities
}
