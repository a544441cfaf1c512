package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByRecommendationID filters questions/items by parent session
type ByRecommendationID struct {
	RecommendationID uuid.UUID
}

func (s ByRecommendationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("recommendation_id = ?", s.RecommendationID)
}

// ByQuestionIDs filters answers by their parent questions
type ByQuestionIDs struct {
	QuestionIDs []uuid.UUID
}

func (s ByQuestionIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("question_id IN ?", s.QuestionIDs)
}

// ByStatus filters sessions by lifecycle status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// CreatedSince filters rows created at or after a point in time
type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}
