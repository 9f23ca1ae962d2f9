package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Photo struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	EventID      string    `json:"event_id" gorm:"type:uuid;not null;index"`
	Filename     string    `json:"filename" gorm:"not null"`
	ThumbnailURL string    `json:"thumbnail_url" gorm:"not null"`
	FullURL      string    `json:"full_url" gorm:"not null"`
	Position     int       `json:"position" gorm:"not null;default:0"`
	Width        *int      `json:"width"`
	Height       *int      `json:"height"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// RegisterPhotoRequest records an already-uploaded proof and its full-resolution asset.
type RegisterPhotoRequest struct {
	Filename     string `json:"filename" validate:"required"`
	ThumbnailURL string `json:"thumbnail_url" validate:"required,url"`
	FullURL      string `json:"full_url" validate:"required"`
	Position     *int   `json:"position" validate:"omitempty,gte=0"`
	Width        *int   `json:"width" validate:"omitempty,gt=0"`
	Height       *int   `json:"height" validate:"omitempty,gt=0"`
}

// PhotoProof is the watermarked preview a client sees before purchase.
// The full-resolution URL is deliberately absent.
type PhotoProof struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	ThumbnailURL string `json:"thumbnail_url"`
	Position     int    `json:"position"`
	Width        *int   `json:"width,omitempty"`
	Height       *int   `json:"height,omitempty"`
	Selected     bool   `json:"selected"`
}

func NewPhotoProof(p Photo, selected bool) PhotoProof {
	return PhotoProof{
		ID:           p.ID,
		Filename:     p.Filename,
		ThumbnailURL: p.ThumbnailURL,
		Position:     p.Position,
		Width:        p.Width,
		Height:       p.Height,
		Selected:     selected,
	}
}
