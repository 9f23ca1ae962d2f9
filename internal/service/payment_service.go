package service

import (
	"context"
	"errors"
	"time"

	"github.com/koaestudio/koa-photos-backend/internal/controller"
	"github.com/koaestudio/koa-photos-backend/internal/locale"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/repository"
	"github.com/koaestudio/koa-photos-backend/pkg/email"
	"github.com/koaestudio/koa-photos-backend/pkg/qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService backs the payment screen. There is no gateway: the client
// confirms the payment manually.
type PaymentService struct {
	orderRepo    *repository.OrderRepository
	eventRepo    *repository.EventRepository
	emailService *email.EmailService
	qrService    *qrcode.QRService
	logger       *zap.Logger
}

func NewPaymentService(
	orderRepo *repository.OrderRepository,
	eventRepo *repository.EventRepository,
	emailService *email.EmailService,
	qrService *qrcode.QRService,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orderRepo:    orderRepo,
		eventRepo:    eventRepo,
		emailService: emailService,
		qrService:    qrService,
		logger:       logger.Named("payment"),
	}
}

func (s *PaymentService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		s.logger.Error("failed to load order", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return order, nil
}

// Confirm marks the order completed and stamps the completion time.
func (s *PaymentService) Confirm(ctx context.Context, orderID string, lang locale.Language) (*models.PlacedOrder, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	first, err := s.orderRepo.MarkCompleted(ctx, order.ID, now)
	if err != nil {
		s.logger.Error("failed to confirm payment", zap.String("order_id", orderID), zap.Error(err))
		return nil, notFound(err, ErrOrderNotFound)
	}
	order.PaymentStatus = models.PaymentStatusCompleted
	order.CompletedAt = &now

	s.logger.Info("payment confirmed", zap.String("order_id", order.ID), zap.Bool("first_confirmation", first))

	if first {
		go s.notifyDownloadReady(context.WithoutCancel(ctx), *order, lang)
	}

	return &models.PlacedOrder{
		Order: *order,
		Next:  controller.AfterPayment(order),
	}, nil
}

// QR renders the order's payment reference.
func (s *PaymentService) QR(ctx context.Context, orderID string, size int) ([]byte, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.qrService.PaymentReference(order.ID, size)
}

func (s *PaymentService) notifyDownloadReady(ctx context.Context, order models.Order, lang locale.Language) {
	ready := email.DownloadReady{
		To:       order.ClientEmail,
		Language: string(lang),
		OrderID:  order.ID,
		Text:     locale.DictionaryFor(lang)["email"],
	}
	if order.ClientName != nil {
		ready.Name = *order.ClientName
	}
	if event, err := s.eventRepo.GetByID(ctx, order.EventID); err == nil {
		ready.EventTitle = event.Title
	}
	s.emailService.SendDownloadReady(ready)
}
