package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/koaestudio/koa-photos-backend/internal/locale"
	"github.com/koaestudio/koa-photos-backend/pkg/kv"
	"go.uber.org/zap"
)

const (
	VisitorCookie = "koa_visitor"
	VisitorHeader = "X-Visitor-ID"

	LocalVisitorID = "visitorID"
	LocalLanguage  = "language"
)

// VisitorMiddleware identifies the browser so its selection and language can
// be kept between requests. New visitors get a cookie.
func VisitorMiddleware(secureCookie bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		visitorID := c.Cookies(VisitorCookie)
		if !validVisitorID(visitorID) {
			visitorID = c.Get(VisitorHeader)
		}
		if !validVisitorID(visitorID) {
			visitorID = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     VisitorCookie,
				Value:    visitorID,
				Path:     "/",
				Expires:  time.Now().Add(kv.VisitorTTL),
				HTTPOnly: true,
				Secure:   secureCookie,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(LocalVisitorID, visitorID)
		c.Set(VisitorHeader, visitorID)
		return c.Next()
	}
}

// LocaleMiddleware resolves the visitor's language and mirrors it onto
// Content-Language. Must run after VisitorMiddleware.
func LocaleMiddleware(locales *locale.Provider, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, err := locales.For(c.UserContext(), VisitorID(c))
		if err != nil {
			logger.Warn("failed to load language preference", zap.Error(err))
		}

		c.Locals(LocalLanguage, store.Language())
		c.Set(fiber.HeaderContentLanguage, string(store.Language()))
		return c.Next()
	}
}

func VisitorID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalVisitorID).(string)
	return id
}

func Language(c *fiber.Ctx) locale.Language {
	if lang, ok := c.Locals(LocalLanguage).(locale.Language); ok {
		return lang
	}
	return locale.Default
}

func validVisitorID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
