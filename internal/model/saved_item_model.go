package model

import (
	"time"

	"github.com/google/uuid"
)

type SavedItem struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemType    string    `gorm:"type:varchar(10);not null"`
	Title       string    `gorm:"type:varchar(500);not null"`
	Author      *string   `gorm:"type:varchar(255)"`
	Description string    `gorm:"type:text"`
	PosterPath  *string   `gorm:"type:varchar(1000)"`
	Rating      *float64
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (SavedItem) TableName() string {
	return "saved_items"
}
