package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DownloadLog is append-only: one row per individual download click.
type DownloadLog struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID      string    `json:"order_id" gorm:"type:uuid;not null;index"`
	PhotoID      string    `json:"photo_id" gorm:"type:uuid;not null"`
	DownloadedAt time.Time `json:"downloaded_at" gorm:"autoCreateTime"`
}

func (l *DownloadLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// DownloadView is the download screen: locked until a password or a completed
// online payment unlocks it.
type DownloadView struct {
	Order         Order           `json:"order"`
	Unlocked      bool            `json:"unlocked"`
	Photos        []DownloadPhoto `json:"photos,omitempty"`
	DownloadToken string          `json:"download_token,omitempty"`
	TokenExpires  *time.Time      `json:"token_expires_at,omitempty"`
}

type DownloadPhoto struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	ThumbnailURL string `json:"thumbnail_url"`
	DownloadPath string `json:"download_path"`
}

// DownloadLink is one resolved full-resolution URL, already logged.
type DownloadLink struct {
	PhotoID  string `json:"photo_id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}
