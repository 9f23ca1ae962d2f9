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

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	validator       *utils.Validator
}

func NewCheckoutHandler(checkoutService *service.CheckoutService, validator *utils.Validator) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validator:       validator,
	}
}

func (h *CheckoutHandler) GetCheckout(c *fiber.Ctx) error {
	summary, err := h.checkoutService.Summary(c.UserContext(), c.Params("eventId"), middleware.VisitorID(c))
	switch {
	case errors.Is(err, service.ErrEmptySelection):
		return c.Status(fiber.StatusBadRequest).JSON(models.RedirectResponse("No photos selected", controller.HomeRoute))
	case errors.Is(err, service.ErrEventNotFound):
		return notFound(c, "Event not found", controller.HomeRoute)
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(models.RedirectResponse("Failed to load checkout", controller.HomeRoute))
	}
	return c.JSON(models.SuccessResponse(summary, ""))
}

func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	placed, err := h.checkoutService.PlaceOrder(c.UserContext(), c.Params("eventId"), middleware.VisitorID(c), middleware.Language(c), req)
	switch {
	case errors.Is(err, service.ErrEmptySelection):
		return c.Status(fiber.StatusBadRequest).JSON(models.RedirectResponse("No photos selected", controller.HomeRoute))
	case errors.Is(err, service.ErrEventNotFound):
		return notFound(c, "Event not found", controller.HomeRoute)
	case err != nil:
		return internalError(c, "Failed to create order: "+err.Error())
	}

	resp := models.SuccessResponse(placed, "Order created successfully")
	resp.Redirect = placed.Next
	return c.Status(fiber.StatusCreated).JSON(resp)
}
