package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodOnline  PaymentMethod = "online"
	PaymentMethodOffline PaymentMethod = "offline"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Order struct {
	ID                string                      `json:"id" gorm:"type:uuid;primaryKey"`
	EventID           string                      `json:"event_id" gorm:"type:uuid;not null;index"`
	ClientEmail       string                      `json:"client_email" gorm:"not null"`
	ClientName        *string                     `json:"client_name"`
	PhotoIDs          datatypes.JSONSlice[string] `json:"photo_ids" gorm:"not null"`
	TotalAmount       float64                     `json:"total_amount" gorm:"not null"`
	PaymentMethod     PaymentMethod               `json:"payment_method" gorm:"type:varchar(16);not null"`
	PaymentStatus     PaymentStatus               `json:"payment_status" gorm:"type:varchar(16);not null;default:'pending'"`
	DownloadPassword  *string                     `json:"-"`
	DownloadExpiresAt *time.Time                  `json:"download_expires_at"`
	CreatedAt         time.Time                   `json:"created_at"`
	CompletedAt       *time.Time                  `json:"completed_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (o *Order) HasPassword() bool {
	return o.DownloadPassword != nil && *o.DownloadPassword != ""
}

func (o *Order) Contains(photoID string) bool {
	for _, id := range o.PhotoIDs {
		if id == photoID {
			return true
		}
	}
	return false
}

// AdminOrder exposes whether a download password exists without revealing it.
type AdminOrder struct {
	Order
	PasswordIssued bool `json:"has_password"`
}

type CheckoutRequest struct {
	Name          string        `json:"name" validate:"required,max=200"`
	Email         string        `json:"email" validate:"required,email"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,payment_method"`
}

type UnlockRequest struct {
	Password string `json:"password" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status PaymentStatus `json:"status" validate:"required,oneof=completed failed"`
}

// CheckoutSummary is what the checkout screen renders before the client submits.
type CheckoutSummary struct {
	Event         Event        `json:"event"`
	Photos        []PhotoProof `json:"photos"`
	Count         int          `json:"count"`
	PricePerPhoto float64      `json:"price_per_photo"`
	Total         float64      `json:"total"`
	TotalDisplay  string       `json:"total_display"`
}

// PlacedOrder is the result of a checkout submission plus the screen to show next.
type PlacedOrder struct {
	Order Order  `json:"order"`
	Next  string `json:"next"`
}

// GeneratedPassword is shown to the admin once for manual relay to the client.
type GeneratedPassword struct {
	OrderID  string `json:"order_id"`
	Password string `json:"password"`
}
