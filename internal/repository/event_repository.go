package repository

import (
	"context"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	result := r.db.WithContext(ctx).Create(event)
	if result.Error != nil {
		return nil, result.Error
	}
	return event, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var event models.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetActiveByID only finds events that are open to clients.
func (r *EventRepository) GetActiveByID(ctx context.Context, id string) (*models.Event, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var event models.Event
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) ListActive(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("event_date DESC").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) ListAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error
	return events, err
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *EventRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Event{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// RefreshPhotoTotal recounts the event's photos into total_photos.
func (r *EventRepository) RefreshPhotoTotal(ctx context.Context, eventID string) error {
	var count int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Photo{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return err
	}
	return db.Model(&models.Event{}).
		Where("id = ?", eventID).
		UpdateColumn("total_photos", count).Error
}

func (r *EventRepository) AddRevenue(ctx context.Context, eventID string, amount float64) error {
	return addRevenue(r.db.WithContext(ctx), eventID, amount)
}

func addRevenue(tx *gorm.DB, eventID string, amount float64) error {
	return tx.Model(&models.Event{}).
		Where("id = ?", eventID).
		UpdateColumn("total_revenue", gorm.Expr("total_revenue + ?", amount)).Error
}
