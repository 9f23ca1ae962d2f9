package service

import (
	"context"
	"time"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/repository"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
	"go.uber.org/zap"
)

type AdminOrderService struct {
	orderRepo *repository.OrderRepository
	logger    *zap.Logger
}

func NewAdminOrderService(orderRepo *repository.OrderRepository, logger *zap.Logger) *AdminOrderService {
	return &AdminOrderService{
		orderRepo: orderRepo,
		logger:    logger.Named("admin_orders"),
	}
}

// GeneratePassword issues the download password of an offline order. The
// password is returned once for the admin to relay; it is never sent by
// this system. The check and the write are not atomic: concurrent admins
// race and the last write wins.
func (s *AdminOrderService) GeneratePassword(ctx context.Context, orderID string) (*models.GeneratedPassword, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	if order.PaymentMethod != models.PaymentMethodOffline {
		return nil, ErrPasswordNotApplicable
	}
	if order.HasPassword() {
		return nil, ErrPasswordAlreadyIssued
	}

	password, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.SetDownloadPassword(ctx, order.ID, password); err != nil {
		s.logger.Error("failed to save download password", zap.String("order_id", orderID), zap.Error(err))
		return nil, notFound(err, ErrOrderNotFound)
	}

	s.logger.Info("download password issued", zap.String("order_id", order.ID))
	return &models.GeneratedPassword{
		OrderID:  order.ID,
		Password: password,
	}, nil
}

// SetStatus records a manual payment decision.
func (s *AdminOrderService) SetStatus(ctx context.Context, orderID string, status models.PaymentStatus) (*models.Order, error) {
	var err error
	switch status {
	case models.PaymentStatusCompleted:
		_, err = s.orderRepo.MarkCompleted(ctx, orderID, time.Now())
	default:
		err = s.orderRepo.MarkFailed(ctx, orderID)
	}
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	s.logger.Info("order status changed", zap.String("order_id", orderID), zap.String("status", string(status)))
	return order, nil
}
