package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/service"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
)

type AdminOrderHandler struct {
	adminOrderService *service.AdminOrderService
	validator         *utils.Validator
}

func NewAdminOrderHandler(adminOrderService *service.AdminOrderService, validator *utils.Validator) *AdminOrderHandler {
	return &AdminOrderHandler{
		adminOrderService: adminOrderService,
		validator:         validator,
	}
}

// GeneratePassword shows the new password once; the admin relays it by hand.
func (h *AdminOrderHandler) GeneratePassword(c *fiber.Ctx) error {
	generated, err := h.adminOrderService.GeneratePassword(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(generated, "Password: "+generated.Password))
}

func (h *AdminOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req models.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	order, err := h.adminOrderService.SetStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return h.orderError(c, err)
	}
	return c.JSON(models.SuccessResponse(order, "Order updated"))
}

func (h *AdminOrderHandler) orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return notFound(c, "Order not found", "")
	case errors.Is(err, service.ErrPasswordNotApplicable), errors.Is(err, service.ErrPasswordAlreadyIssued):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse(err.Error()))
	}
	return internalError(c, err.Error())
}
