package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/controller"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/service"
	jwtPkg "github.com/koaestudio/koa-photos-backend/pkg/jwt"
)

const (
	LocalAdminID     = "adminID"
	LocalAdminEmail  = "adminEmail"
	LocalAdminClaims = "adminClaims"
)

// AuthMiddleware admits requests carrying a live admin session. Everything
// else is sent to the login screen.
func AuthMiddleware(authService *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		c.Locals(LocalAdminID, claims.Subject)
		c.Locals(LocalAdminEmail, claims.Email)
		c.Locals(LocalAdminClaims, claims)

		return c.Next()
	}
}

func AdminID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalAdminID).(string)
	return id
}

func AdminClaims(c *fiber.Ctx) *jwtPkg.Claims {
	claims, _ := c.Locals(LocalAdminClaims).(*jwtPkg.Claims)
	return claims
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.RedirectResponse(msg, controller.AdminLoginRoute))
}
