package service

import (
	"context"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/repository"
	"github.com/koaestudio/koa-photos-backend/internal/selection"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
	"go.uber.org/zap"
)

// PrintScreenBlurMs is how long the gallery stays blurred after Print Screen.
const PrintScreenBlurMs = 2000

type GalleryService struct {
	eventRepo  *repository.EventRepository
	photoRepo  *repository.PhotoRepository
	selections *selection.Provider
	protection models.Protection
	logger     *zap.Logger
}

func NewGalleryService(
	eventRepo *repository.EventRepository,
	photoRepo *repository.PhotoRepository,
	selections *selection.Provider,
	watermarkText string,
	logger *zap.Logger,
) *GalleryService {
	return &GalleryService{
		eventRepo:  eventRepo,
		photoRepo:  photoRepo,
		selections: selections,
		protection: models.Protection{
			WatermarkText:      watermarkText,
			DisableContextMenu: true,
			DisableDrag:        true,
			PrintScreenBlurMs:  PrintScreenBlurMs,
		},
		logger: logger.Named("gallery"),
	}
}

// Load returns an active event's proofs in display order with the visitor's
// selection. Inactive and missing events are indistinguishable.
func (s *GalleryService) Load(ctx context.Context, eventID, visitorID string) (*models.GalleryView, error) {
	event, photos, err := s.loadActive(ctx, eventID)
	if err != nil {
		return nil, err
	}

	sel, err := s.selections.For(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	proofs := make([]models.PhotoProof, 0, len(photos))
	for _, p := range photos {
		proofs = append(proofs, models.NewPhotoProof(p, sel.IsSelected(p.ID)))
	}

	return &models.GalleryView{
		Event:      *event,
		Photos:     proofs,
		Selection:  summarize(sel, event, len(photos)),
		Protection: s.protection,
	}, nil
}

// ToggleAll clears the selection when it already holds as many photos as the
// event has, otherwise selects every photo of the event.
func (s *GalleryService) ToggleAll(ctx context.Context, eventID, visitorID string) (*models.SelectionSummary, error) {
	event, photos, err := s.loadActive(ctx, eventID)
	if err != nil {
		return nil, err
	}

	sel, err := s.selections.For(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	if sel.Count() == len(photos) {
		err = sel.Clear(ctx)
	} else {
		ids := make([]string, 0, len(photos))
		for _, p := range photos {
			ids = append(ids, p.ID)
		}
		err = sel.SelectAll(ctx, ids)
	}
	if err != nil {
		return nil, err
	}

	summary := summarize(sel, event, len(photos))
	return &summary, nil
}

func (s *GalleryService) loadActive(ctx context.Context, eventID string) (*models.Event, []models.Photo, error) {
	event, err := s.eventRepo.GetActiveByID(ctx, eventID)
	if err != nil {
		return nil, nil, notFound(err, ErrEventNotFound)
	}

	photos, err := s.photoRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		s.logger.Error("failed to load photos", zap.String("event_id", eventID), zap.Error(err))
		return nil, nil, err
	}
	return event, photos, nil
}

func summarize(sel *selection.Store, event *models.Event, totalPhotos int) models.SelectionSummary {
	total := float64(sel.Count()) * event.PricePerPhoto
	return models.SelectionSummary{
		PhotoIDs:     sel.IDs(),
		Count:        sel.Count(),
		AllSelected:  sel.Count() == totalPhotos,
		Total:        total,
		TotalDisplay: utils.FormatMoney(total),
	}
}
