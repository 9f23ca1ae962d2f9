package repository

import (
	"context"
	"time"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// SetDownloadPassword overwrites unconditionally; concurrent callers race and
// the last write wins.
func (r *OrderRepository) SetDownloadPassword(ctx context.Context, id, password string) error {
	id, ok := canonicalID(id)
	if !ok {
		return gorm.ErrRecordNotFound
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("download_password", password)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkCompleted stamps the order completed at the given time. The first
// transition into completed also adds the order total to the event revenue,
// in the same transaction. It reports whether this call was that transition.
func (r *OrderRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	id, ok := canonicalID(id)
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	first := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}

		err := tx.Model(&models.Order{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"payment_status": models.PaymentStatusCompleted,
				"completed_at":   at,
			}).Error
		if err != nil {
			return err
		}

		if order.PaymentStatus == models.PaymentStatusCompleted {
			return nil
		}
		first = true
		return addRevenue(tx, order.EventID, order.TotalAmount)
	})
	if err != nil {
		return false, err
	}
	return first, nil
}

func (r *OrderRepository) MarkFailed(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return gorm.ErrRecordNotFound
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", models.PaymentStatusFailed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
