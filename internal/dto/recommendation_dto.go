package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateQuestionsRequest struct {
	Type         string `json:"type" validate:"required,oneof=movie book both"`
	NumQuestions int    `json:"num_questions" validate:"required,gte=3,lte=15"`
}

type QuestionResponse struct {
	Id    uuid.UUID `json:"id"`
	Text  string    `json:"text"`
	Order int       `json:"order"`
}

type GenerateQuestionsResponse struct {
	Id        uuid.UUID          `json:"id"`
	Type      string             `json:"type"`
	Status    string             `json:"status"`
	Questions []QuestionResponse `json:"questions"`
	CreatedAt time.Time          `json:"created_at"`
}

type SubmitAnswerItem struct {
	QuestionId uuid.UUID `json:"question_id" validate:"required"`
	AnswerText string    `json:"answer_text" validate:"required"`
}

type SubmitAnswersRequest struct {
	Id      uuid.UUID
	Answers []SubmitAnswerItem `json:"answers" validate:"required,min=1,dive"`
}

type SubmitAnswersResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type ItemResponse struct {
	Id          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Author      *string   `json:"author,omitempty"`
	Description string    `json:"description"`
	AgeRating   *string   `json:"age_rating,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	PosterPath  *string   `json:"poster_path,omitempty"`
	CatalogId   *string   `json:"catalog_id,omitempty"`
	ReleaseDate *string   `json:"release_date,omitempty"`
	Runtime     *int      `json:"runtime,omitempty"`
	PageCount   *int      `json:"page_count,omitempty"`
	Publisher   *string   `json:"publisher,omitempty"`
	Genres      []string  `json:"genres"`
}

type RecommendationResponse struct {
	Id        uuid.UUID          `json:"id"`
	Type      string             `json:"type"`
	Status    string             `json:"status"`
	Questions []QuestionResponse `json:"questions"`
	Items     []ItemResponse     `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

type HistoryEntryResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
}

// PublishRecommendationCompletedMessage is the watermill payload emitted
// after a session commits, consumed by the history recorder.
type PublishRecommendationCompletedMessage struct {
	RecommendationId uuid.UUID `json:"recommendation_id"`
	UserId           uuid.UUID `json:"user_id"`
	Titles           []string  `json:"titles"`
}
