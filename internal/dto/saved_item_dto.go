package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveItemRequest struct {
	ItemId uuid.UUID `json:"item_id" validate:"required"`
}

type SavedItemResponse struct {
	Id          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Author      *string   `json:"author,omitempty"`
	Description string    `json:"description"`
	PosterPath  *string   `json:"poster_path,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
