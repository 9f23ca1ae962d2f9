package service

import (
	"context"

	"github.com/koaestudio/koa-photos-backend/internal/controller"
	"github.com/koaestudio/koa-photos-backend/internal/locale"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/repository"
	"github.com/koaestudio/koa-photos-backend/internal/selection"
	"github.com/koaestudio/koa-photos-backend/pkg/email"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
	"go.uber.org/zap"
)

type CheckoutService struct {
	eventRepo    *repository.EventRepository
	photoRepo    *repository.PhotoRepository
	orderRepo    *repository.OrderRepository
	selections   *selection.Provider
	emailService *email.EmailService
	logger       *zap.Logger
}

func NewCheckoutService(
	eventRepo *repository.EventRepository,
	photoRepo *repository.PhotoRepository,
	orderRepo *repository.OrderRepository,
	selections *selection.Provider,
	emailService *email.EmailService,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		eventRepo:    eventRepo,
		photoRepo:    photoRepo,
		orderRepo:    orderRepo,
		selections:   selections,
		emailService: emailService,
		logger:       logger.Named("checkout"),
	}
}

// Summary loads what the checkout screen shows for the visitor's selection.
func (s *CheckoutService) Summary(ctx context.Context, eventID, visitorID string) (*models.CheckoutSummary, error) {
	sel, event, err := s.load(ctx, eventID, visitorID)
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.GetByIDs(ctx, sel.IDs())
	if err != nil {
		s.logger.Error("failed to load checkout data", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	proofs := make([]models.PhotoProof, 0, len(photos))
	for _, p := range photos {
		proofs = append(proofs, models.NewPhotoProof(p, true))
	}

	total := float64(sel.Count()) * event.PricePerPhoto
	return &models.CheckoutSummary{
		Event:         *event,
		Photos:        proofs,
		Count:         sel.Count(),
		PricePerPhoto: event.PricePerPhoto,
		Total:         total,
		TotalDisplay:  utils.FormatMoney(total),
	}, nil
}

// PlaceOrder creates a pending order for the visitor's selection, priced at
// the event's current price. The selection is left as it is.
func (s *CheckoutService) PlaceOrder(ctx context.Context, eventID, visitorID string, lang locale.Language, req models.CheckoutRequest) (*models.PlacedOrder, error) {
	sel, event, err := s.load(ctx, eventID, visitorID)
	if err != nil {
		return nil, err
	}

	ids := sel.IDs()
	order := &models.Order{
		EventID:       event.ID,
		ClientEmail:   req.Email,
		PhotoIDs:      ids,
		TotalAmount:   float64(len(ids)) * event.PricePerPhoto,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
	}
	if req.Name != "" {
		order.ClientName = &req.Name
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("failed to create order", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("event_id", event.ID),
		zap.Int("photos", len(ids)),
		zap.String("payment_method", string(order.PaymentMethod)),
	)

	go s.emailService.SendOrderReceipt(email.OrderReceipt{
		To:         order.ClientEmail,
		Name:       req.Name,
		Language:   string(lang),
		OrderID:    order.ID,
		EventTitle: event.Title,
		PhotoCount: len(ids),
		Total:      utils.FormatMoney(order.TotalAmount),
		Text:       locale.DictionaryFor(lang)["email"],
	})

	return &models.PlacedOrder{
		Order: *order,
		Next:  controller.AfterCheckout(order),
	}, nil
}

func (s *CheckoutService) load(ctx context.Context, eventID, visitorID string) (*selection.Store, *models.Event, error) {
	sel, err := s.selections.For(ctx, visitorID)
	if err != nil {
		return nil, nil, err
	}
	if sel.Count() == 0 {
		return nil, nil, ErrEmptySelection
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, notFound(err, ErrEventNotFound)
	}
	return sel, event, nil
}
