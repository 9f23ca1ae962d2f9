package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/controller"
	"github.com/koaestudio/koa-photos-backend/internal/middleware"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/service"
	"github.com/koaestudio/koa-photos-backend/pkg/qrcode"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	order, err := h.paymentService.Get(c.UserContext(), c.Params("orderId"))
	if err != nil {
		return h.paymentError(c, err)
	}
	return c.JSON(models.SuccessResponse(order, ""))
}

// ConfirmPayment is the manual "I have paid" confirmation.
func (h *PaymentHandler) ConfirmPayment(c *fiber.Ctx) error {
	confirmed, err := h.paymentService.Confirm(c.UserContext(), c.Params("orderId"), middleware.Language(c))
	if errors.Is(err, service.ErrOrderNotFound) {
		return h.paymentError(c, err)
	}
	if err != nil {
		return internalError(c, "Failed to confirm payment: "+err.Error())
	}

	resp := models.SuccessResponse(confirmed, "Payment confirmed")
	resp.Redirect = confirmed.Next
	return c.JSON(resp)
}

func (h *PaymentHandler) GetPaymentQR(c *fiber.Ctx) error {
	png, err := h.paymentService.QR(c.UserContext(), c.Params("orderId"), c.QueryInt("size", qrcode.DefaultSize))
	if err != nil {
		return h.paymentError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func (h *PaymentHandler) paymentError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrOrderNotFound) {
		return notFound(c, "Order not found", controller.HomeRoute)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(models.RedirectResponse("Failed to load order", controller.HomeRoute))
}
