package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/controller"
	"github.com/koaestudio/koa-photos-backend/internal/middleware"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/service"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *utils.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	auth, err := h.authService.SignIn(c.UserContext(), req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid credentials"))
	}
	if err != nil {
		return internalError(c, "Login failed")
	}

	resp := models.SuccessResponse(auth, "Login successful")
	resp.Redirect = controller.AdminDashboardRoute
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.SignOut(c.UserContext(), middleware.AdminClaims(c)); err != nil {
		return internalError(c, "Logout failed")
	}

	resp := models.SuccessResponse(nil, "Logged out")
	resp.Redirect = controller.AdminLoginRoute
	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(c.UserContext(), middleware.AdminID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(models.RedirectResponse("User not found", controller.AdminLoginRoute))
	}
	return c.JSON(models.SuccessResponse(user, ""))
}
