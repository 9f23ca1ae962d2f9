// Package server assembles the storefront API: repositories, services,
// handlers and the fiber routing table.
package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/koaestudio/koa-photos-backend/internal/config"
	"github.com/koaestudio/koa-photos-backend/internal/controller"
	"github.com/koaestudio/koa-photos-backend/internal/handler"
	"github.com/koaestudio/koa-photos-backend/internal/locale"
	"github.com/koaestudio/koa-photos-backend/internal/middleware"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/repository"
	"github.com/koaestudio/koa-photos-backend/internal/selection"
	"github.com/koaestudio/koa-photos-backend/internal/service"
	"github.com/koaestudio/koa-photos-backend/pkg/email"
	jwtPkg "github.com/koaestudio/koa-photos-backend/pkg/jwt"
	"github.com/koaestudio/koa-photos-backend/pkg/kv"
	"github.com/koaestudio/koa-photos-backend/pkg/qrcode"
	"github.com/koaestudio/koa-photos-backend/pkg/storage"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the external collaborators the API runs against.
type Dependencies struct {
	DB       *gorm.DB
	KV       kv.Store
	Resolver storage.URLResolver
	Email    *email.EmailService
	Logger   *zap.Logger
}

// NewFiberApp wires every layer and registers the routes.
func NewFiberApp(cfg *config.Config, deps Dependencies) *fiber.App {
	log := deps.Logger

	// Repositories
	eventRepo := repository.NewEventRepository(deps.DB)
	photoRepo := repository.NewPhotoRepository(deps.DB)
	orderRepo := repository.NewOrderRepository(deps.DB)
	downloadLogRepo := repository.NewDownloadLogRepository(deps.DB)
	adminUserRepo := repository.NewAdminUserRepository(deps.DB)

	// Per-visitor state
	selections := selection.NewProvider(deps.KV)
	locales := locale.NewProvider(deps.KV)

	jwtManager := jwtPkg.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	qrService := qrcode.NewQRService(cfg.FrontendURL)
	validator := utils.NewValidator()

	// Services
	eventService := service.NewEventService(eventRepo, photoRepo, orderRepo, log)
	galleryService := service.NewGalleryService(eventRepo, photoRepo, selections, cfg.WatermarkText, log)
	checkoutService := service.NewCheckoutService(eventRepo, photoRepo, orderRepo, selections, deps.Email, log)
	paymentService := service.NewPaymentService(orderRepo, eventRepo, deps.Email, qrService, log)
	downloadService := service.NewDownloadService(orderRepo, photoRepo, downloadLogRepo, deps.Resolver, jwtManager, cfg.JWT.DownloadTTL, log)
	adminOrderService := service.NewAdminOrderService(orderRepo, log)
	authService := service.NewAuthService(adminUserRepo, jwtManager, deps.KV, cfg.JWT.SessionTTL, log)

	// Handlers
	eventHandler := handler.NewEventHandler(eventService, qrService, validator)
	galleryHandler := handler.NewGalleryHandler(galleryService, selections, validator)
	localeHandler := handler.NewLocaleHandler(locales, validator)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, validator)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	downloadHandler := handler.NewDownloadHandler(downloadService, validator)
	authHandler := handler.NewAuthHandler(authService, validator)
	adminOrderHandler := handler.NewAdminOrderHandler(adminOrderService, validator)

	app := fiber.New(fiber.Config{
		AppName:      "koa-photos",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Visitor-ID, X-Download-Token",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: !strings.Contains(cfg.CORSOrigins, "*"),
		ExposeHeaders:    "Content-Language, X-Visitor-ID",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	}))
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
		}))
	}

	api := app.Group("/api")
	api.Use(middleware.VisitorMiddleware(!cfg.IsDevelopment()))
	api.Use(middleware.LocaleMiddleware(locales, log))

	// Storefront
	api.Get("/events", eventHandler.ListActive)
	api.Get("/events/:id/gallery", galleryHandler.GetGallery)
	api.Post("/events/:id/selection/toggle-all", galleryHandler.ToggleAll)

	api.Get("/selection", galleryHandler.GetSelection)
	api.Put("/selection", galleryHandler.ReplaceSelection)
	api.Delete("/selection", galleryHandler.ClearSelection)
	api.Post("/selection/toggle", galleryHandler.TogglePhoto)

	api.Get("/locale", localeHandler.GetLocale)
	api.Put("/locale", localeHandler.SetLocale)

	api.Get("/checkout/:eventId", checkoutHandler.GetCheckout)
	api.Post("/checkout/:eventId", checkoutHandler.PlaceOrder)

	api.Get("/payment/:orderId", paymentHandler.GetPayment)
	api.Post("/payment/:orderId/confirm", paymentHandler.ConfirmPayment)
	api.Get("/payment/:orderId/qr", paymentHandler.GetPaymentQR)

	api.Get("/download/:orderId", downloadHandler.GetDownload)
	api.Post("/download/:orderId/unlock", downloadHandler.Unlock)
	api.Get("/download/:orderId/photos/:photoId", downloadHandler.DownloadPhoto)
	api.Post("/download/:orderId/all", downloadHandler.DownloadAll)

	// Admin
	api.Post("/admin/login", authHandler.Login)

	admin := api.Group("/admin", middleware.AuthMiddleware(authService))
	{
		admin.Post("/logout", authHandler.Logout)
		admin.Get("/me", authHandler.Me)

		admin.Get("/events", eventHandler.ListAll)
		admin.Post("/events", eventHandler.CreateEvent)
		admin.Get("/events/:id", eventHandler.GetEvent)
		admin.Put("/events/:id", eventHandler.UpdateEvent)
		admin.Post("/events/:id/photos", eventHandler.RegisterPhoto)
		admin.Get("/events/:id/qr", eventHandler.GalleryQR)

		admin.Post("/orders/:id/password", adminOrderHandler.GeneratePassword)
		admin.Put("/orders/:id/status", adminOrderHandler.UpdateStatus)
	}

	// Unmatched paths go home
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(models.RedirectResponse("Not found", controller.HomeRoute))
	})

	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(models.ErrorResponse(err.Error()))
	}
}
