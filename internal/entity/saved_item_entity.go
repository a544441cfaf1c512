package entity

import (
	"time"

	"github.com/google/uuid"
)

// SavedItem is a snapshot of a recommendation item the user chose to keep.
// It copies the fields instead of referencing the item row so the saved list
// survives session cleanup.
type SavedItem struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	ItemType    RecommendationType
	Title       string
	Author      *string
	Description string
	PosterPath  *string
	Rating      *float64
	CreatedAt   time.Time
}
