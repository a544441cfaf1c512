package entity

import (
	"time"

	"github.com/google/uuid"
)

type RecommendationType string

const (
	RecommendationTypeMovie RecommendationType = "movie"
	RecommendationTypeBook  RecommendationType = "book"
	RecommendationTypeBoth  RecommendationType = "both"
)

func (t RecommendationType) Valid() bool {
	switch t {
	case RecommendationTypeMovie, RecommendationTypeBook, RecommendationTypeBoth:
		return true
	}
	return false
}

func (t RecommendationType) WantsMovies() bool {
	return t == RecommendationTypeMovie || t == RecommendationTypeBoth
}

func (t RecommendationType) WantsBooks() bool {
	return t == RecommendationTypeBook || t == RecommendationTypeBoth
}

// RecommendationStatus is the session lifecycle state. Transitions are
// monotonic: created -> questions_ready -> answers_submitted ->
// recommendations_ready, with failed reachable from any non-terminal state.
type RecommendationStatus string

const (
	RecommendationStatusCreated              RecommendationStatus = "created"
	RecommendationStatusQuestionsReady       RecommendationStatus = "questions_ready"
	RecommendationStatusAnswersSubmitted     RecommendationStatus = "answers_submitted"
	RecommendationStatusRecommendationsReady RecommendationStatus = "recommendations_ready"
	RecommendationStatusFailed               RecommendationStatus = "failed"
)

// Recommendation is one user-initiated recommendation session.
type Recommendation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Type      RecommendationType
	Status    RecommendationStatus
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type RecommendationQuestion struct {
	Id               uuid.UUID
	RecommendationId uuid.UUID
	Text             string
	Order            int // 1-based, contiguous and unique within a session
	CreatedAt        time.Time
}

type RecommendationAnswer struct {
	Id         uuid.UUID
	QuestionId uuid.UUID
	Text       string
	CreatedAt  time.Time
}

// RecommendationItem is a persisted, possibly catalog-augmented candidate.
// Title is never empty. ItemType is movie or book, never both.
type RecommendationItem struct {
	Id               uuid.UUID
	RecommendationId uuid.UUID
	ItemType         RecommendationType
	Title            string
	Author           *string
	Description      string
	AgeRating        *string
	Rating           *float64
	PosterPath       *string
	CatalogId        *string // TMDB id or ISBN
	ReleaseDate      *string
	Runtime          *int // minutes, movies only
	PageCount        *int // books only
	Publisher        *string
	Genres           []string
	CreatedAt        time.Time
}

// RecommendationHistoryEntry is the denormalized per-title history row,
// appended asynchronously after a session commits.
type RecommendationHistoryEntry struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
}
