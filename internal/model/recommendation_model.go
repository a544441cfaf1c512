package model

import (
	"time"

	"github.com/google/uuid"
)

type Recommendation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(10);not null"`
	Status    string    `gorm:"type:varchar(30);not null;default:'created'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

type RecommendationQuestion struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecommendationId uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_question_session_order"`
	QuestionText     string    `gorm:"type:text;not null"`
	QuestionOrder    int       `gorm:"not null;uniqueIndex:idx_question_session_order"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (RecommendationQuestion) TableName() string {
	return "recommendation_questions"
}

type RecommendationAnswer struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuestionId uuid.UUID `gorm:"type:uuid;not null;index"`
	AnswerText string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (RecommendationAnswer) TableName() string {
	return "recommendation_answers"
}

type RecommendationItem struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecommendationId uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemType         string    `gorm:"type:varchar(10);not null"`
	Title            string    `gorm:"type:varchar(500);not null"`
	Author           *string   `gorm:"type:varchar(255)"`
	Description      string    `gorm:"type:text"`
	AgeRating        *string   `gorm:"type:varchar(20)"`
	Rating           *float64
	PosterPath       *string `gorm:"type:varchar(1000)"`
	CatalogId        *string `gorm:"type:varchar(64)"`
	ReleaseDate      *string `gorm:"type:varchar(20)"`
	Runtime          *int
	PageCount        *int
	Publisher        *string   `gorm:"type:varchar(255)"`
	Genres           string    `gorm:"type:text"` // comma separated
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (RecommendationItem) TableName() string {
	return "recommendation_items"
}

type RecommendationHistoryEntry struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RecommendationHistoryEntry) TableName() string {
	return "recommendation_history"
}
