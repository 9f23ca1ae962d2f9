package service

import (
	"context"
	"testing"
	"time"

	"github.com/koaestudio/koa-photos-backend/internal/config"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/repository"
	"github.com/koaestudio/koa-photos-backend/internal/selection"
	"github.com/koaestudio/koa-photos-backend/pkg/database"
	"github.com/koaestudio/koa-photos-backend/pkg/email"
	jwtPkg "github.com/koaestudio/koa-photos-backend/pkg/jwt"
	"github.com/koaestudio/koa-photos-backend/pkg/kv"
	"github.com/koaestudio/koa-photos-backend/pkg/qrcode"
	"github.com/koaestudio/koa-photos-backend/pkg/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	events     *repository.EventRepository
	photos     *repository.PhotoRepository
	orders     *repository.OrderRepository
	logs       *repository.DownloadLogRepository
	admins     *repository.AdminUserRepository
	kv         *kv.MemoryStore
	selections *selection.Provider
	jwt        *jwtPkg.Manager

	eventService    *EventService
	galleryService  *GalleryService
	checkoutService *CheckoutService
	paymentService  *PaymentService
	downloadService *DownloadService
	adminOrders     *AdminOrderService
	authService     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	log := zap.NewNop()
	env := &testEnv{
		events: repository.NewEventRepository(db),
		photos: repository.NewPhotoRepository(db),
		orders: repository.NewOrderRepository(db),
		logs:   repository.NewDownloadLogRepository(db),
		admins: repository.NewAdminUserRepository(db),
		kv:     kv.NewMemoryStore(),
		jwt:    jwtPkg.NewManager("test-secret", "koa-test"),
	}
	env.selections = selection.NewProvider(env.kv)

	mailer := email.NewEmailService(config.EmailConfig{}, "https://fotos.koa.com", log)
	env.eventService = NewEventService(env.events, env.photos, env.orders, log)
	env.galleryService = NewGalleryService(env.events, env.photos, env.selections, "©KOA", log)
	env.checkoutService = NewCheckoutService(env.events, env.photos, env.orders, env.selections, mailer, log)
	env.paymentService = NewPaymentService(env.orders, env.events, mailer, qrcode.NewQRService("https://fotos.koa.com"), log)
	env.downloadService = NewDownloadService(env.orders, env.photos, env.logs, storage.PassthroughResolver{}, env.jwt, 4*time.Hour, log)
	env.adminOrders = NewAdminOrderService(env.orders, log)
	env.authService = NewAuthService(env.admins, env.jwt, env.kv, time.Hour, log)
	return env
}

func (e *testEnv) seedEvent(t *testing.T, price float64, active bool, photoCount int) (*models.Event, []models.Photo) {
	t.Helper()
	ctx := context.Background()
	event, err := e.eventService.Create(ctx, "", models.CreateEventRequest{
		Title:         "Boda de María y Juan",
		PricePerPhoto: &price,
		IsActive:      &active,
	})
	require.NoError(t, err)

	photos := make([]models.Photo, 0, photoCount)
	for i := 0; i < photoCount; i++ {
		p, err := e.eventService.RegisterPhoto(ctx, event.ID, models.RegisterPhotoRequest{
			Filename:     "IMG_" + string(rune('A'+i)) + ".jpg",
			ThumbnailURL: "https://cdn.koa.com/thumb/" + string(rune('a'+i)) + ".jpg",
			FullURL:      "https://cdn.koa.com/full/" + string(rune('a'+i)) + ".jpg",
		})
		require.NoError(t, err)
		photos = append(photos, *p)
	}
	return event, photos
}

func (e *testEnv) selectPhotos(t *testing.T, visitorID string, photos ...models.Photo) {
	t.Helper()
	ctx := context.Background()
	sel, err := e.selections.For(ctx, visitorID)
	require.NoError(t, err)
	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.ID)
	}
	require.NoError(t, sel.SelectAll(ctx, ids))
}
