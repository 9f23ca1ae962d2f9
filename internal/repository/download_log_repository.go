package repository

import (
	"context"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"gorm.io/gorm"
)

type DownloadLogRepository struct {
	db *gorm.DB
}

func NewDownloadLogRepository(db *gorm.DB) *DownloadLogRepository {
	return &DownloadLogRepository{db: db}
}

// Create appends one row; logs are never updated or removed.
func (r *DownloadLogRepository) Create(ctx context.Context, orderID, photoID string) error {
	return r.db.WithContext(ctx).Create(&models.DownloadLog{
		OrderID: orderID,
		PhotoID: photoID,
	}).Error
}

func (r *DownloadLogRepository) CountByOrder(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DownloadLog{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}
