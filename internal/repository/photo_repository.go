package repository

import (
	"context"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *PhotoRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("position ASC").
		Find(&photos).Error
	return photos, err
}

// GetByIDs matches ids with IN and does not check which event they belong to.
// Ids that are not uuids are skipped, like any other id with no photo.
func (r *PhotoRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Photo, error) {
	var photos []models.Photo
	ids = canonicalIDs(ids)
	if len(ids) == 0 {
		return photos, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("position ASC").
		Find(&photos).Error
	return photos, err
}

func (r *PhotoRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// NextPosition is one past the highest position used in the event.
func (r *PhotoRepository) NextPosition(ctx context.Context, eventID string) (int, error) {
	var last int
	err := r.db.WithContext(ctx).
		Model(&models.Photo{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}
