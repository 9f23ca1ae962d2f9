package service

import (
	"context"
	"time"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/repository"
	jwtPkg "github.com/koaestudio/koa-photos-backend/pkg/jwt"
	"github.com/koaestudio/koa-photos-backend/pkg/storage"
	"go.uber.org/zap"
)

type DownloadService struct {
	orderRepo   *repository.OrderRepository
	photoRepo   *repository.PhotoRepository
	logRepo     *repository.DownloadLogRepository
	resolver    storage.URLResolver
	jwtManager  *jwtPkg.Manager
	downloadTTL time.Duration
	logger      *zap.Logger
}

func NewDownloadService(
	orderRepo *repository.OrderRepository,
	photoRepo *repository.PhotoRepository,
	logRepo *repository.DownloadLogRepository,
	resolver storage.URLResolver,
	jwtManager *jwtPkg.Manager,
	downloadTTL time.Duration,
	logger *zap.Logger,
) *DownloadService {
	return &DownloadService{
		orderRepo:   orderRepo,
		photoRepo:   photoRepo,
		logRepo:     logRepo,
		resolver:    resolver,
		jwtManager:  jwtManager,
		downloadTTL: downloadTTL,
		logger:      logger.Named("download"),
	}
}

// Open shows the download screen. Paid online orders unlock on their own;
// everything else waits for the download password.
func (s *DownloadService) Open(ctx context.Context, orderID string) (*models.DownloadView, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if autoUnlocks(order) {
		return s.unlockedView(ctx, order)
	}
	return &models.DownloadView{Order: *order}, nil
}

// Unlock compares password with the order's download password as plain text.
// A match marks the order completed. Failed attempts are not counted.
func (s *DownloadService) Unlock(ctx context.Context, orderID, password string) (*models.DownloadView, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if autoUnlocks(order) {
		return s.unlockedView(ctx, order)
	}

	if !order.HasPassword() || password != *order.DownloadPassword {
		s.logger.Info("download unlock rejected", zap.String("order_id", orderID))
		return nil, ErrInvalidPassword
	}

	now := time.Now()
	if _, err := s.orderRepo.MarkCompleted(ctx, order.ID, now); err != nil {
		s.logger.Error("failed to mark order completed", zap.String("order_id", orderID), zap.Error(err))
	} else {
		order.PaymentStatus = models.PaymentStatusCompleted
		order.CompletedAt = &now
	}

	return s.unlockedView(ctx, order)
}

// Photo logs one download and resolves the full-resolution URL.
func (s *DownloadService) Photo(ctx context.Context, orderID, photoID, token string) (*models.DownloadLink, error) {
	order, err := s.authorize(ctx, orderID, token)
	if err != nil {
		return nil, err
	}
	if !order.Contains(photoID) {
		return nil, ErrPhotoNotInOrder
	}

	photos, err := s.photoRepo.GetByIDs(ctx, []string{photoID})
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, ErrPhotoNotFound
	}
	return s.download(ctx, order.ID, photos[0])
}

// All downloads every photo of the order, one log row per photo.
func (s *DownloadService) All(ctx context.Context, orderID, token string) ([]models.DownloadLink, error) {
	order, err := s.authorize(ctx, orderID, token)
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.GetByIDs(ctx, order.PhotoIDs)
	if err != nil {
		return nil, err
	}

	links := make([]models.DownloadLink, 0, len(photos))
	for _, photo := range photos {
		link, err := s.download(ctx, order.ID, photo)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	return links, nil
}

// download records the click before handing out the URL. A failed log insert
// does not block the download.
func (s *DownloadService) download(ctx context.Context, orderID string, photo models.Photo) (*models.DownloadLink, error) {
	if err := s.logRepo.Create(ctx, orderID, photo.ID); err != nil {
		s.logger.Error("failed to log download",
			zap.String("order_id", orderID),
			zap.String("photo_id", photo.ID),
			zap.Error(err),
		)
	}

	url, err := s.resolver.ResolveURL(ctx, photo.FullURL)
	if err != nil {
		s.logger.Error("failed to resolve photo url", zap.String("photo_id", photo.ID), zap.Error(err))
		return nil, err
	}
	return &models.DownloadLink{
		PhotoID:  photo.ID,
		Filename: photo.Filename,
		URL:      url,
	}, nil
}

func (s *DownloadService) authorize(ctx context.Context, orderID, token string) (*models.Order, error) {
	if token == "" {
		return nil, ErrDownloadLocked
	}
	claims, err := s.jwtManager.ValidateToken(token, jwtPkg.TokenTypeDownload)
	if err != nil || claims.Subject != orderID {
		return nil, ErrDownloadLocked
	}
	return s.getOrder(ctx, orderID)
}

func (s *DownloadService) unlockedView(ctx context.Context, order *models.Order) (*models.DownloadView, error) {
	token, claims, err := s.jwtManager.GenerateDownloadToken(order.ID, s.downloadTTL)
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.GetByIDs(ctx, order.PhotoIDs)
	if err != nil {
		s.logger.Error("failed to load photos", zap.String("order_id", order.ID), zap.Error(err))
		return nil, err
	}

	view := &models.DownloadView{
		Order:         *order,
		Unlocked:      true,
		Photos:        make([]models.DownloadPhoto, 0, len(photos)),
		DownloadToken: token,
	}
	expires := claims.ExpiresAt.Time
	view.TokenExpires = &expires

	for _, p := range photos {
		view.Photos = append(view.Photos, models.DownloadPhoto{
			ID:           p.ID,
			Filename:     p.Filename,
			ThumbnailURL: p.ThumbnailURL,
			DownloadPath: "/api/download/" + order.ID + "/photos/" + p.ID + "?token=" + token,
		})
	}
	return view, nil
}

func (s *DownloadService) getOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return order, nil
}

func autoUnlocks(order *models.Order) bool {
	return order.PaymentMethod == models.PaymentMethodOnline &&
		order.PaymentStatus == models.PaymentStatusCompleted
}
