package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultPricePerPhoto = 10.00

type Event struct {
	ID            string     `json:"id" gorm:"type:uuid;primaryKey"`
	Title         string     `json:"title" gorm:"not null"`
	Slug          string     `json:"slug" gorm:"not null;index"`
	AccessCode    string     `json:"access_code" gorm:"not null"`
	Description   *string    `json:"description"`
	EventDate     *time.Time `json:"event_date"`
	CoverPhotoURL *string    `json:"cover_photo_url"`
	IsActive      bool       `json:"is_active" gorm:"not null"`
	PricePerPhoto float64    `json:"price_per_photo" gorm:"not null"`
	CreatedBy     *string    `json:"created_by" gorm:"type:uuid"`
	TotalPhotos   int        `json:"total_photos" gorm:"not null;default:0"`
	TotalRevenue  float64    `json:"total_revenue" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type CreateEventRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Slug          string     `json:"slug" validate:"omitempty,max=200"`
	AccessCode    string     `json:"access_code" validate:"omitempty,max=32"`
	Description   string     `json:"description"`
	EventDate     *time.Time `json:"event_date"`
	CoverPhotoURL string     `json:"cover_photo_url" validate:"omitempty,url"`
	PricePerPhoto *float64   `json:"price_per_photo" validate:"omitempty,gte=0"`
	IsActive      *bool      `json:"is_active"`
}

type UpdateEventRequest struct {
	Title         *string    `json:"title" validate:"omitempty,max=200"`
	Slug          *string    `json:"slug" validate:"omitempty,max=200"`
	AccessCode    *string    `json:"access_code" validate:"omitempty,max=32"`
	Description   *string    `json:"description"`
	EventDate     *time.Time `json:"event_date"`
	CoverPhotoURL *string    `json:"cover_photo_url" validate:"omitempty,url"`
	PricePerPhoto *float64   `json:"price_per_photo" validate:"omitempty,gte=0"`
	IsActive      *bool      `json:"is_active"`
}

// EventDetails is the admin view of one event and its orders, newest first.
type EventDetails struct {
	Event  Event        `json:"event"`
	Orders []AdminOrder `json:"orders"`
}
