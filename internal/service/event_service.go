package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/repository"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
	"go.uber.org/zap"
)

type EventService struct {
	eventRepo *repository.EventRepository
	photoRepo *repository.PhotoRepository
	orderRepo *repository.OrderRepository
	logger    *zap.Logger
}

func NewEventService(
	eventRepo *repository.EventRepository,
	photoRepo *repository.PhotoRepository,
	orderRepo *repository.OrderRepository,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		photoRepo: photoRepo,
		orderRepo: orderRepo,
		logger:    logger.Named("events"),
	}
}

// ListActive is the home listing: active events, latest event date first.
func (s *EventService) ListActive(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to load events", zap.Error(err))
		return nil, err
	}
	return events, nil
}

// ListAll is the admin dashboard: every event, newest first.
func (s *EventService) ListAll(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.ListAll(ctx)
}

func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	return event, nil
}

func (s *EventService) Create(ctx context.Context, adminID string, req models.CreateEventRequest) (*models.Event, error) {
	slug := req.Slug
	if slug == "" {
		slug = req.Title
	}
	slug, err := s.uniqueSlug(ctx, utils.Slugify(slug))
	if err != nil {
		return nil, err
	}

	accessCode := strings.ToUpper(strings.TrimSpace(req.AccessCode))
	if accessCode == "" {
		if accessCode, err = utils.GenerateToken(); err != nil {
			return nil, err
		}
	}

	event := &models.Event{
		Title:         req.Title,
		Slug:          slug,
		AccessCode:    accessCode,
		EventDate:     req.EventDate,
		IsActive:      true,
		PricePerPhoto: models.DefaultPricePerPhoto,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}
	if req.CoverPhotoURL != "" {
		event.CoverPhotoURL = &req.CoverPhotoURL
	}
	if req.PricePerPhoto != nil {
		event.PricePerPhoto = *req.PricePerPhoto
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}
	if adminID != "" {
		event.CreatedBy = &adminID
	}

	createdEvent, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		s.logger.Error("failed to create event", zap.String("title", req.Title), zap.Error(err))
		return nil, err
	}

	s.logger.Info("event created", zap.String("event_id", createdEvent.ID), zap.String("slug", createdEvent.Slug))
	return createdEvent, nil
}

func (s *EventService) Update(ctx context.Context, id string, req models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Slug != nil && utils.Slugify(*req.Slug) != event.Slug {
		if event.Slug, err = s.uniqueSlug(ctx, utils.Slugify(*req.Slug)); err != nil {
			return nil, err
		}
	}
	if req.AccessCode != nil && *req.AccessCode != "" {
		event.AccessCode = strings.ToUpper(strings.TrimSpace(*req.AccessCode))
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.EventDate != nil {
		event.EventDate = req.EventDate
	}
	if req.CoverPhotoURL != nil {
		event.CoverPhotoURL = req.CoverPhotoURL
	}
	if req.PricePerPhoto != nil {
		event.PricePerPhoto = *req.PricePerPhoto
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetDetails loads an event with its orders, newest first. Download passwords
// are reduced to a flag.
func (s *EventService) GetDetails(ctx context.Context, id string) (*models.EventDetails, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByEvent(ctx, id)
	if err != nil {
		s.logger.Error("failed to load orders", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}

	details := &models.EventDetails{
		Event:  *event,
		Orders: make([]models.AdminOrder, 0, len(orders)),
	}
	for _, order := range orders {
		details.Orders = append(details.Orders, models.AdminOrder{
			Order:          order,
			PasswordIssued: order.HasPassword(),
		})
	}
	return details, nil
}

// RegisterPhoto records a proof that was already uploaded elsewhere and
// refreshes the event's photo total.
func (s *EventService) RegisterPhoto(ctx context.Context, eventID string, req models.RegisterPhotoRequest) (*models.Photo, error) {
	if _, err := s.Get(ctx, eventID); err != nil {
		return nil, err
	}

	photo := &models.Photo{
		EventID:      eventID,
		Filename:     req.Filename,
		ThumbnailURL: req.ThumbnailURL,
		FullURL:      req.FullURL,
		Width:        req.Width,
		Height:       req.Height,
	}
	if req.Position != nil {
		photo.Position = *req.Position
	} else {
		next, err := s.photoRepo.NextPosition(ctx, eventID)
		if err != nil {
			return nil, err
		}
		photo.Position = next
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}
	if err := s.eventRepo.RefreshPhotoTotal(ctx, eventID); err != nil {
		s.logger.Error("failed to refresh photo total", zap.String("event_id", eventID), zap.Error(err))
	}
	return photo, nil
}

// uniqueSlug appends "-2", "-3", ... until the slug is unused.
func (s *EventService) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		exists, err := s.eventRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
